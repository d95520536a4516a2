package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/autocenter-backend/internal/coupons"
	"github.com/angelmondragon/autocenter-backend/internal/loyalty"
	"github.com/angelmondragon/autocenter-backend/internal/promotions"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/discount"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingEmitter struct {
	events []outbox.DomainEvent
}

func (r *recordingEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	r.events = append(r.events, event)
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) FindForCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	order, err := f.FindByID(ctx, id)
	if err != nil || order.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeOrderRepo) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		rows = append(rows, *order)
	}
	return rows, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from enums.OrderStatus, updates map[string]any) (bool, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = updates["status"].(enums.OrderStatus)
	if points, ok := updates["points_earned"].(int64); ok {
		order.PointsEarned = points
	}
	return true, nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
	services map[uuid.UUID]*models.WorkshopService
}

func (f *fakeCatalog) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.IsActive {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (f *fakeCatalog) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	p, ok := f.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	return true, nil
}

type fakeServiceCatalog struct {
	services map[uuid.UUID]*models.WorkshopService
}

func (f *fakeServiceCatalog) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.WorkshopService, error) {
	var rows []models.WorkshopService
	for _, id := range ids {
		if svc, ok := f.services[id]; ok && svc.IsActive {
			rows = append(rows, *svc)
		}
	}
	return rows, nil
}

type fakeShipping struct {
	methods map[uuid.UUID]*models.ShippingMethod
}

func (f *fakeShipping) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	m, ok := f.methods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

type stubCoupons struct {
	discount decimal.Decimal
	reject   error
	redeemed []coupons.RedeemInput
	released []uuid.UUID
}

func (s *stubCoupons) Redeem(ctx context.Context, tx *gorm.DB, input coupons.RedeemInput) (*coupons.Redemption, error) {
	if s.reject != nil {
		return nil, s.reject
	}
	s.redeemed = append(s.redeemed, input)
	return &coupons.Redemption{CouponID: uuid.New(), Code: input.Code, Discount: decimal.Min(s.discount, input.CartTotal)}, nil
}

func (s *stubCoupons) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	s.released = append(s.released, orderID)
	return nil
}

type stubPromotions struct {
	applied  *promotions.Applied
	carts    []promotions.Cart
	released []uuid.UUID
}

func (s *stubPromotions) Claim(ctx context.Context, tx *gorm.DB, cart promotions.Cart) (*promotions.Applied, error) {
	s.carts = append(s.carts, cart)
	return s.applied, nil
}

func (s *stubPromotions) Release(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID) error {
	s.released = append(s.released, promotionID)
	return nil
}

type stubLoyalty struct {
	level  enums.LoyaltyLevel
	points int64
	earned []loyalty.EarnInput
}

func (s *stubLoyalty) GetAccount(ctx context.Context, customerID uuid.UUID) (*loyalty.AccountDTO, error) {
	return &loyalty.AccountDTO{CustomerID: customerID, Level: s.level}, nil
}

func (s *stubLoyalty) EarnForOrder(ctx context.Context, tx *gorm.DB, input loyalty.EarnInput) (int64, error) {
	s.earned = append(s.earned, input)
	return s.points, nil
}

type fixture struct {
	svc        *service
	repo       *fakeOrderRepo
	catalog    *fakeCatalog
	services   *fakeServiceCatalog
	coupons    *stubCoupons
	promotions *stubPromotions
	loyalty    *stubLoyalty
	emitter    *recordingEmitter
	productID  uuid.UUID
	serviceID  uuid.UUID
	deliveryID uuid.UUID
	pickupID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newFakeOrderRepo(),
		coupons:    &stubCoupons{discount: decimal.NewFromInt(10)},
		promotions: &stubPromotions{},
		loyalty:    &stubLoyalty{level: enums.LoyaltyLevelSilver, points: 125},
		emitter:    &recordingEmitter{},
		productID:  uuid.New(),
		serviceID:  uuid.New(),
		deliveryID: uuid.New(),
		pickupID:   uuid.New(),
	}
	f.catalog = &fakeCatalog{products: map[uuid.UUID]*models.Product{
		f.productID: {ID: f.productID, Name: "Pastilha de freio", Price: decimal.RequireFromString("100.00"), Stock: 5, IsActive: true},
	}}
	f.services = &fakeServiceCatalog{services: map[uuid.UUID]*models.WorkshopService{
		f.serviceID: {ID: f.serviceID, Name: "Alinhamento", Price: decimal.RequireFromString("80.00"), IsActive: true},
	}}
	freeOver := decimal.RequireFromString("300.00")
	shippingStore := &fakeShipping{methods: map[uuid.UUID]*models.ShippingMethod{
		f.deliveryID: {ID: f.deliveryID, Name: "Sedex", Price: decimal.RequireFromString("25.00"), FreeOver: &freeOver, IsActive: true},
		f.pickupID:   {ID: f.pickupID, Name: "Retirada na loja", IsPickup: true, IsActive: true},
	}}
	f.svc = &service{
		tx:         stubTxRunner{},
		repo:       f.repo,
		products:   func(tx *gorm.DB) productStock { return f.catalog },
		services:   func(tx *gorm.DB) serviceCatalog { return f.services },
		shipping:   func(tx *gorm.DB) shippingMethods { return shippingStore },
		coupons:    f.coupons,
		promotions: f.promotions,
		loyalty:    f.loyalty,
		outbox:     f.emitter,
		logg:       logger.Nop(),
		now:        func() time.Time { return time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func testAddress() *types.ShippingAddress {
	return &types.ShippingAddress{
		Recipient:  "Ana Souza",
		Street:     "Rua das Flores",
		Number:     "120",
		District:   "Centro",
		City:       "Curitiba",
		State:      "pr",
		PostalCode: "80010-000",
	}
}

func TestCreateOrderPricesItemsAndEmitsEvent(t *testing.T) {
	f := newFixture()
	customerID := uuid.New()

	order, err := f.svc.Create(context.Background(), customerID, CreateOrderInput{
		Items: []ItemInput{
			{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 1},
			{Type: enums.OrderItemTypeService, ID: f.serviceID, Quantity: 1},
			{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 1},
		},
		ShippingMethodID: &f.deliveryID,
		ShippingAddress:  testAddress(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected merged items, got %d", len(order.Items))
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("280.00")) {
		t.Fatalf("unexpected subtotal %s", order.Subtotal)
	}
	if !order.ShippingTotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected shipping %s", order.ShippingTotal)
	}
	if !order.Total.Equal(decimal.RequireFromString("305.00")) {
		t.Fatalf("unexpected total %s", order.Total)
	}
	if order.ShippingAddress == nil || order.ShippingAddress.State != "PR" || order.ShippingAddress.PostalCode != "80010000" {
		t.Fatalf("address not normalized: %+v", order.ShippingAddress)
	}
	if f.catalog.products[f.productID].Stock != 3 {
		t.Fatalf("expected stock 3, got %d", f.catalog.products[f.productID].Stock)
	}
	if len(f.promotions.carts) != 1 || f.promotions.carts[0].CustomerLevel != "silver" || f.promotions.carts[0].ItemCount != 3 {
		t.Fatalf("unexpected promotion cart %+v", f.promotions.carts)
	}
	if len(f.emitter.events) != 1 || f.emitter.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order.created event, got %+v", f.emitter.events)
	}
	payload := f.emitter.events[0].Data.(payloads.OrderCreatedEvent)
	if payload.Number != order.Number || payload.ItemCount != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCreateOrderAppliesPromotionThenCoupon(t *testing.T) {
	f := newFixture()
	promoID := uuid.New()
	f.promotions.applied = &promotions.Applied{PromotionID: promoID, Discount: decimal.RequireFromString("30.00")}
	code := " welcome10 "

	order, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Items:            []ItemInput{{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 3}},
		ShippingMethodID: &f.pickupID,
		CouponCode:       &code,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.coupons.redeemed) != 1 || !f.coupons.redeemed[0].CartTotal.Equal(decimal.RequireFromString("270.00")) {
		t.Fatalf("coupon should see the post-promotion amount, got %+v", f.coupons.redeemed)
	}
	if f.coupons.redeemed[0].Code != "welcome10" {
		t.Fatalf("coupon code not trimmed: %q", f.coupons.redeemed[0].Code)
	}
	if !order.Total.Equal(decimal.RequireFromString("260.00")) {
		t.Fatalf("unexpected total %s", order.Total)
	}
	if order.PromotionID == nil || *order.PromotionID != promoID {
		t.Fatalf("promotion not recorded")
	}
	if order.ShippingAddress != nil {
		t.Fatalf("pickup orders should not carry an address")
	}
}

func TestCreateOrderFreeShippingUsesDiscountedAmount(t *testing.T) {
	f := newFixture()
	f.coupons.discount = decimal.RequireFromString("50.00")
	code := "BIG50"

	order, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Items:            []ItemInput{{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 3}},
		ShippingMethodID: &f.deliveryID,
		ShippingAddress:  testAddress(),
		CouponCode:       &code,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !order.ShippingTotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected shipping to be charged below the threshold, got %s", order.ShippingTotal)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customerID := uuid.New()

	cases := map[string]CreateOrderInput{
		"empty":        {},
		"zero qty":     {Items: []ItemInput{{Type: enums.OrderItemTypeService, ID: f.serviceID}}},
		"bad type":     {Items: []ItemInput{{Type: "bundle", ID: f.serviceID, Quantity: 1}}},
		"merged limit": {Items: []ItemInput{{Type: enums.OrderItemTypeService, ID: f.serviceID, Quantity: 60}, {Type: enums.OrderItemTypeService, ID: f.serviceID, Quantity: 40}}},
		"no shipping":  {Items: []ItemInput{{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 1}}},
		"no address":   {Items: []ItemInput{{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 1}}, ShippingMethodID: &f.deliveryID},
		"unknown item": {Items: []ItemInput{{Type: enums.OrderItemTypeService, ID: uuid.New(), Quantity: 1}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, customerID, input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.repo.orders) != 0 {
		t.Fatalf("no order should have been stored")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Items:            []ItemInput{{Type: enums.OrderItemTypeProduct, ID: f.productID, Quantity: 6}},
		ShippingMethodID: &f.pickupID,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateOrderPropagatesCouponRejection(t *testing.T) {
	f := newFixture()
	f.coupons.reject = discount.APIError(&discount.RejectionError{Reason: discount.ReasonExpired})
	code := "OLD"
	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		Items:      []ItemInput{{Type: enums.OrderItemTypeService, ID: f.serviceID, Quantity: 1}},
		CouponCode: &code,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func seedOrder(f *fixture, customerID uuid.UUID, status enums.OrderStatus) *models.Order {
	productID := f.productID
	couponID := uuid.New()
	promoID := uuid.New()
	order := &models.Order{
		ID:            uuid.New(),
		Number:        "AC-20260105-TESTAA",
		CustomerID:    customerID,
		Status:        status,
		Subtotal:      decimal.RequireFromString("200.00"),
		ShippingTotal: decimal.RequireFromString("25.00"),
		Total:         decimal.RequireFromString("225.00"),
		CouponID:      &couponID,
		PromotionID:   &promoID,
		Items: []models.OrderItem{{
			ItemType:  enums.OrderItemTypeProduct,
			ProductID: &productID,
			Quantity:  2,
		}},
	}
	f.repo.orders[order.ID] = order
	return order
}

func TestCancelForCustomerRestoresStockAndDiscounts(t *testing.T) {
	f := newFixture()
	customerID := uuid.New()
	order := seedOrder(f, customerID, enums.OrderStatusPending)

	out, err := f.svc.CancelForCustomer(context.Background(), customerID, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.Status != enums.OrderStatusCancelled || out.CancelledAt == nil {
		t.Fatalf("unexpected order %+v", out)
	}
	if f.catalog.products[f.productID].Stock != 7 {
		t.Fatalf("expected restock to 7, got %d", f.catalog.products[f.productID].Stock)
	}
	if len(f.coupons.released) != 1 || len(f.promotions.released) != 1 {
		t.Fatalf("expected coupon and promotion release")
	}
	event := f.emitter.events[0]
	if event.EventType != enums.EventOrderStatusChanged || event.Actor.Role != "customer" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestCancelForCustomerRules(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	paid := seedOrder(f, owner, enums.OrderStatusPaid)

	if _, err := f.svc.CancelForCustomer(context.Background(), uuid.New(), paid.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for other customer, got %v", err)
	}
	if _, err := f.svc.CancelForCustomer(context.Background(), owner, paid.ID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for paid order, got %v", err)
	}
}

func TestUpdateStatusDeliveredEarnsPoints(t *testing.T) {
	f := newFixture()
	customerID := uuid.New()
	order := seedOrder(f, customerID, enums.OrderStatusShipped)
	admin := Actor{ID: uuid.New(), Role: enums.ActorRoleAdmin}

	out, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if out.PointsEarned != 125 || out.DeliveredAt == nil {
		t.Fatalf("unexpected order %+v", out)
	}
	if len(f.loyalty.earned) != 1 || !f.loyalty.earned[0].Amount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("points should be earned on the total without shipping, got %+v", f.loyalty.earned)
	}
	if f.repo.orders[order.ID].PointsEarned != 125 {
		t.Fatalf("points not persisted")
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture()
	order := seedOrder(f, uuid.New(), enums.OrderStatusPending)
	admin := Actor{ID: uuid.New(), Role: enums.ActorRoleAdmin}

	_, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusShipped)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.emitter.events) != 0 {
		t.Fatalf("no event expected")
	}
	if _, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, "lost"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetForCustomerHidesOtherCustomersOrders(t *testing.T) {
	f := newFixture()
	order := seedOrder(f, uuid.New(), enums.OrderStatusPending)
	if _, err := f.svc.GetForCustomer(context.Background(), uuid.New(), order.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(enums.OrderStatusPaid, enums.OrderStatusProcessing) {
		t.Fatal("paid -> processing should be allowed")
	}
	if CanTransition(enums.OrderStatusDelivered, enums.OrderStatusCancelled) {
		t.Fatal("delivered orders are final")
	}
	if CanTransition(enums.OrderStatusShipped, enums.OrderStatusCancelled) {
		t.Fatal("shipped orders cannot be cancelled")
	}
}
