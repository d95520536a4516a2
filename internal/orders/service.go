package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/internal/coupons"
	"github.com/angelmondragon/autocenter-backend/internal/loyalty"
	product "github.com/angelmondragon/autocenter-backend/internal/products"
	"github.com/angelmondragon/autocenter-backend/internal/promotions"
	"github.com/angelmondragon/autocenter-backend/internal/shipping"
	"github.com/angelmondragon/autocenter-backend/internal/workshop"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const numberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type productStock interface {
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
}

type serviceCatalog interface {
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.WorkshopService, error)
}

type shippingMethods interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error)
}

type couponRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, input coupons.RedeemInput) (*coupons.Redemption, error)
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type promotionClaimer interface {
	Claim(ctx context.Context, tx *gorm.DB, cart promotions.Cart) (*promotions.Applied, error)
	Release(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID) error
}

type loyaltyProgram interface {
	GetAccount(ctx context.Context, customerID uuid.UUID) (*loyalty.AccountDTO, error)
	EarnForOrder(ctx context.Context, tx *gorm.DB, input loyalty.EarnInput) (int64, error)
}

// Service covers the customer and back-office order flows.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*pagination.Page[OrderDTO], error)
	GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	CancelForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[OrderDTO], error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, to enums.OrderStatus) (*OrderDTO, error)
}

// ServiceParams wires the order service to the catalog, pricing and loyalty modules.
type ServiceParams struct {
	DB         txRunner
	Repo       Repository
	Products   *product.Repository
	Services   *workshop.Repository
	Shipping   *shipping.Repository
	Coupons    couponRedeemer
	Promotions promotionClaimer
	Loyalty    loyaltyProgram
	Outbox     outboxPublisher
	Logger     *logger.Logger
}

type service struct {
	tx         txRunner
	repo       Repository
	products   func(tx *gorm.DB) productStock
	services   func(tx *gorm.DB) serviceCatalog
	shipping   func(tx *gorm.DB) shippingMethods
	coupons    couponRedeemer
	promotions promotionClaimer
	loyalty    loyaltyProgram
	outbox     outboxPublisher
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case params.Products == nil || params.Services == nil || params.Shipping == nil:
		return nil, fmt.Errorf("catalog repositories required")
	case params.Coupons == nil || params.Promotions == nil:
		return nil, fmt.Errorf("discount services required")
	case params.Loyalty == nil:
		return nil, fmt.Errorf("loyalty service required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	products, services, methods := params.Products, params.Services, params.Shipping
	return &service{
		tx:         params.DB,
		repo:       params.Repo,
		products:   func(tx *gorm.DB) productStock { return products.WithTx(tx) },
		services:   func(tx *gorm.DB) serviceCatalog { return services.WithTx(tx) },
		shipping:   func(tx *gorm.DB) shippingMethods { return methods.WithTx(tx) },
		coupons:    params.Coupons,
		promotions: params.Promotions,
		loyalty:    params.Loyalty,
		outbox:     params.Outbox,
		logg:       params.Logger,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	lines, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}
	if input.ShippingAddress != nil {
		input.ShippingAddress.Normalize()
	}

	level := enums.LoyaltyLevelBronze
	if account, err := s.loyalty.GetAccount(ctx, customerID); err == nil {
		level = account.Level
	} else {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "loyalty level lookup failed, pricing as bronze")
	}

	var created *models.Order
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		created, err = s.createOnce(ctx, customerID, input, lines, level)
		if err == nil || !db.IsUniqueViolation(err, "orders_number_key") {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     created.ID.String(),
		"order_number": created.Number,
		"total":        created.Total.StringFixed(2),
	})
	s.logg.Info(logCtx, "order created")
	return NewOrderDTO(created), nil
}

func (s *service) createOnce(ctx context.Context, customerID uuid.UUID, input CreateOrderInput, lines []ItemInput, level enums.LoyaltyLevel) (*models.Order, error) {
	now := s.now().UTC()
	number, err := generateNumber(now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}
	order := &models.Order{
		ID:         uuid.New(),
		Number:     number,
		CustomerID: customerID,
		Status:     enums.OrderStatusPending,
		Notes:      trimOptional(input.Notes),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items, cart, err := s.priceItems(ctx, tx, order.ID, lines)
		if err != nil {
			return err
		}
		order.Items = items
		cart.CustomerLevel = string(level)
		order.Subtotal = sumLines(items)

		if err := s.reserveStock(ctx, tx, items); err != nil {
			return err
		}

		remaining := order.Subtotal
		applied, err := s.promotions.Claim(ctx, tx, cart)
		if err != nil {
			return err
		}
		if applied != nil {
			id := applied.PromotionID
			order.PromotionID = &id
			order.PromotionDiscount = decimal.Min(applied.Discount, remaining)
			remaining = remaining.Sub(order.PromotionDiscount)
		}

		if code := trimOptional(input.CouponCode); code != nil {
			redemption, err := s.coupons.Redeem(ctx, tx, coupons.RedeemInput{
				Code:       *code,
				CustomerID: customerID,
				OrderID:    order.ID,
				CartTotal:  remaining,
			})
			if err != nil {
				return err
			}
			couponID, couponCode := redemption.CouponID, redemption.Code
			order.CouponID = &couponID
			order.CouponCode = &couponCode
			order.CouponDiscount = redemption.Discount
			remaining = remaining.Sub(redemption.Discount)
		}

		shippingTotal, err := s.quoteShipping(ctx, tx, order, input, cart.ProductIDs, remaining)
		if err != nil {
			return err
		}
		order.ShippingTotal = shippingTotal
		order.Total = decimal.Max(remaining.Add(shippingTotal), decimal.Zero).Round(2)

		if err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "orders_number_key") {
				return err
			}
			return db.MapError(err, "order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{ActorID: customerID, Role: string(enums.ActorRoleCustomer)},
			Data: payloads.OrderCreatedEvent{
				OrderID:     order.ID,
				Number:      order.Number,
				CustomerID:  customerID,
				Total:       order.Total,
				ItemCount:   len(order.Items),
				CouponCode:  order.CouponCode,
				PromotionID: order.PromotionID,
			},
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// priceItems loads the referenced catalog rows and snapshots names and prices.
func (s *service) priceItems(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []ItemInput) ([]models.OrderItem, promotions.Cart, error) {
	var productIDs, serviceIDs []uuid.UUID
	for _, line := range lines {
		if line.Type == enums.OrderItemTypeProduct {
			productIDs = append(productIDs, line.ID)
		} else {
			serviceIDs = append(serviceIDs, line.ID)
		}
	}

	productRows, err := s.products(tx).FindActiveByIDs(ctx, productIDs)
	if err != nil {
		return nil, promotions.Cart{}, db.MapError(err, "products")
	}
	serviceRows, err := s.services(tx).FindActiveByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, promotions.Cart{}, db.MapError(err, "services")
	}
	productsByID := make(map[uuid.UUID]models.Product, len(productRows))
	for _, p := range productRows {
		productsByID[p.ID] = p
	}
	servicesByID := make(map[uuid.UUID]models.WorkshopService, len(serviceRows))
	for _, svc := range serviceRows {
		servicesByID[svc.ID] = svc
	}

	var (
		items       []models.OrderItem
		unavailable []string
		cart        = promotions.Cart{ProductIDs: productIDs, ServiceIDs: serviceIDs}
	)
	for _, line := range lines {
		item := models.OrderItem{OrderID: orderID, ItemType: line.Type, Quantity: line.Quantity}
		id := line.ID
		switch line.Type {
		case enums.OrderItemTypeProduct:
			p, ok := productsByID[id]
			if !ok {
				unavailable = append(unavailable, id.String())
				continue
			}
			item.ProductID = &id
			item.Name = p.Name
			item.UnitPrice = p.Price
		default:
			svc, ok := servicesByID[id]
			if !ok {
				unavailable = append(unavailable, id.String())
				continue
			}
			item.ServiceID = &id
			item.Name = svc.Name
			item.UnitPrice = svc.Price
		}
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		cart.ItemCount += line.Quantity
		items = append(items, item)
	}
	if len(unavailable) > 0 {
		return nil, promotions.Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "some items are unavailable").
			WithDetails(map[string]any{"unavailable": unavailable})
	}
	cart.Subtotal = sumLines(items)
	return items, cart, nil
}

// reserveStock decrements product stock; any shortage aborts the order.
func (s *service) reserveStock(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	stock := s.products(tx)
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		ok, err := stock.AdjustStock(ctx, *item.ProductID, -item.Quantity)
		if err != nil {
			return db.MapError(err, "product stock")
		}
		if !ok {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "insufficient stock for %s", item.Name).
				WithDetails(map[string]any{"product_id": item.ProductID.String(), "requested": item.Quantity})
		}
	}
	return nil
}

func (s *service) quoteShipping(ctx context.Context, tx *gorm.DB, order *models.Order, input CreateOrderInput, productIDs []uuid.UUID, goodsTotal decimal.Decimal) (decimal.Decimal, error) {
	if input.ShippingMethodID == nil {
		if len(productIDs) > 0 {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "shipping_method_id is required when ordering products")
		}
		return decimal.Zero, nil
	}
	method, err := s.shipping(tx).FindByID(ctx, *input.ShippingMethodID)
	if err != nil {
		if db.IsNotFound(err) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "shipping method not found")
		}
		return decimal.Zero, db.MapError(err, "shipping method")
	}
	if !method.IsActive {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "shipping method is not available")
	}
	if !method.IsPickup {
		if input.ShippingAddress == nil {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "shipping_address is required for delivery")
		}
		if err := input.ShippingAddress.Check(); err != nil {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
		}
		order.ShippingAddress = input.ShippingAddress
	}
	methodID := method.ID
	order.ShippingMethodID = &methodID
	return shipping.Quote(method, goodsTotal), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*pagination.Page[OrderDTO], error) {
	input.CustomerID = &customerID
	return s.List(ctx, input)
}

func (s *service) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) CancelForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	actor := Actor{ID: customerID, Role: enums.ActorRoleCustomer}
	return s.transition(ctx, actor, orderID, enums.OrderStatusCancelled, func(order *models.Order) error {
		if order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeConflict, "only pending orders can be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, err := s.repo.List(ctx, ListFilter{CustomerID: input.CustomerID, Status: input.Status}, cursor, input.Pagination.Limit)
	if err != nil {
		return nil, db.MapError(err, "orders")
	}
	page := pagination.Build(rows, input.Pagination.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	items := make([]OrderDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewOrderDTO(&page.Items[i]))
	}
	return &pagination.Page[OrderDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, to enums.OrderStatus) (*OrderDTO, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.transition(ctx, actor, orderID, to, nil)
}

// transition moves an order to status to inside one transaction, running the
// side effects of cancellation and delivery.
func (s *service) transition(ctx context.Context, actor Actor, orderID uuid.UUID, to enums.OrderStatus, guard func(*models.Order) error) (*OrderDTO, error) {
	var out *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, orderID)
		if err != nil {
			return db.MapError(err, "order")
		}
		if guard != nil {
			if err := guard(order); err != nil {
				return err
			}
		}
		from := order.Status
		if !CanTransition(from, to) {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "cannot move order from %s to %s", from, to).
				WithDetails(map[string]any{"from": from, "to": to})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": to}
		switch to {
		case enums.OrderStatusPaid:
			updates["paid_at"] = now
			order.PaidAt = &now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
			order.CancelledAt = &now
			if err := s.releaseOrder(ctx, tx, order); err != nil {
				return err
			}
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
			order.DeliveredAt = &now
			points, err := s.loyalty.EarnForOrder(ctx, tx, loyalty.EarnInput{
				CustomerID: order.CustomerID,
				OrderID:    order.ID,
				Amount:     order.Total.Sub(order.ShippingTotal),
			})
			if err != nil {
				return err
			}
			updates["points_earned"] = points
			order.PointsEarned = points
		}

		ok, err := repo.UpdateStatus(ctx, order.ID, from, updates)
		if err != nil {
			return db.MapError(err, "order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}
		order.Status = to

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{ActorID: actor.ID, Role: string(actor.Role)},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    order.ID,
				Number:     order.Number,
				CustomerID: order.CustomerID,
				From:       from,
				To:         to,
			},
			OccurredAt: now,
		}); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(out), nil
}

// releaseOrder restocks products and gives back the coupon and promotion uses.
func (s *service) releaseOrder(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	stock := s.products(tx)
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if _, err := stock.AdjustStock(ctx, *item.ProductID, item.Quantity); err != nil {
			return db.MapError(err, "product stock")
		}
	}
	if order.CouponID != nil {
		if err := s.coupons.Release(ctx, tx, order.ID); err != nil {
			return err
		}
	}
	if order.PromotionID != nil {
		if err := s.promotions.Release(ctx, tx, *order.PromotionID); err != nil {
			return err
		}
	}
	return nil
}

// mergeItems validates requested lines and folds duplicates together, keeping
// a stable order.
func mergeItems(items []ItemInput) ([]ItemInput, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	type key struct {
		kind enums.OrderItemType
		id   uuid.UUID
	}
	index := map[key]int{}
	var out []ItemInput
	for _, item := range items {
		if !item.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item type must be product or service")
		}
		if item.ID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		k := key{item.Type, item.ID}
		if i, ok := index[k]; ok {
			out[i].Quantity += item.Quantity
		} else {
			index[k] = len(out)
			out = append(out, item)
		}
	}
	for _, item := range out {
		if item.Quantity > maxItemQuantity {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "item quantity cannot exceed %d", maxItemQuantity)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func sumLines(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
