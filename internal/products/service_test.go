package products

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeProductRepo struct {
	products  map[uuid.UUID]*models.Product
	createErr error
	filter    ListFilter
	updates   map[string]any
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*models.Product{}}
}

func (f *fakeProductRepo) add(p models.Product) *models.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.products[p.ID] = &p
	return &p
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	f.updates = updates
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"].(string); ok {
		p.Name = v
	}
	if v, ok := updates["price"].(decimal.Decimal); ok {
		p.Price = v
	}
	return p, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProductRepo) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	f.filter = filter
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	p, ok := f.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	return true, nil
}

type countingTxRunner struct {
	calls int
}

func (r *countingTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.calls++
	return fn(nil)
}

func newTestService(repo *fakeProductRepo) (Service, *countingTxRunner) {
	runner := &countingTxRunner{}
	return &service{
		repo:   repo,
		tx:     runner,
		txRepo: func(*gorm.DB) productRepository { return repo },
	}, runner
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestCreateProductNormalizes(t *testing.T) {
	repo := newFakeProductRepo()
	svc, _ := newTestService(repo)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:      " flt-001 ",
		Name:     " Óleo Sintético 5W30 ",
		Category: " Lubrificantes ",
		Price:    dec("89.9"),
		Stock:    4,
		Images:   []string{" https://cdn.example.com/a.jpg ", ""},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.SKU != "FLT-001" {
		t.Fatalf("expected uppercase sku, got %q", dto.SKU)
	}
	if dto.Slug != "oleo-sintetico-5w30" {
		t.Fatalf("expected folded slug, got %q", dto.Slug)
	}
	if dto.Category != "lubrificantes" {
		t.Fatalf("expected normalized category, got %q", dto.Category)
	}
	if len(dto.Images) != 1 {
		t.Fatalf("expected blank images dropped, got %v", dto.Images)
	}
	if !dto.IsActive || !dto.InStock {
		t.Fatalf("expected active product in stock, got %+v", dto)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(newFakeProductRepo())
	cheaper := dec("10")

	cases := []CreateProductInput{
		{SKU: "A", Name: "A", Category: "x", Price: dec("-1")},
		{SKU: "A", Name: "A", Category: "x", Price: dec("20"), CompareAtPrice: &cheaper},
		{SKU: "A", Name: "A", Category: "x", Price: dec("20"), Stock: -1},
		{SKU: " ", Name: "A", Category: "x", Price: dec("20")},
	}
	for i, input := range cases {
		if _, err := svc.CreateProduct(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := newFakeProductRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}
	svc, _ := newTestService(repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{SKU: "A", Name: "A", Category: "x", Price: dec("1")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetProductHidesInactiveFromPublic(t *testing.T) {
	repo := newFakeProductRepo()
	p := repo.add(models.Product{SKU: "X", Name: "Hidden", IsActive: false})
	svc, _ := newTestService(repo)

	if _, err := svc.GetProduct(context.Background(), p.ID, false); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for public read, got %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), p.ID, true); err != nil {
		t.Fatalf("expected admin read to succeed, got %v", err)
	}
}

func TestListProductsPublicIsActiveOnly(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(models.Product{SKU: "X", Name: "One", IsActive: true, CreatedAt: time.Now()})
	svc, _ := newTestService(repo)

	page, err := svc.ListProducts(context.Background(), ListProductsInput{Category: "filtros", Pagination: pagination.Params{Limit: 10}})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if !repo.filter.ActiveOnly || repo.filter.Category != "filtros" {
		t.Fatalf("expected active-only category filter, got %+v", repo.filter)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(page.Items))
	}
}

func TestUpdateProductChecksMergedPrices(t *testing.T) {
	repo := newFakeProductRepo()
	compareAt := dec("100")
	p := repo.add(models.Product{SKU: "X", Name: "One", Price: dec("80"), CompareAtPrice: &compareAt, IsActive: true})
	svc, _ := newTestService(repo)

	tooHigh := dec("120")
	if _, err := svc.UpdateProduct(context.Background(), p.ID, UpdateProductInput{Price: &tooHigh}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	ok := dec("90")
	dto, err := svc.UpdateProduct(context.Background(), p.ID, UpdateProductInput{Price: &ok})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if !dto.Price.Equal(ok) {
		t.Fatalf("expected price %s, got %s", ok, dto.Price)
	}
}

func TestAdjustStock(t *testing.T) {
	repo := newFakeProductRepo()
	p := repo.add(models.Product{SKU: "X", Name: "One", Stock: 2, IsActive: true})
	svc, _ := newTestService(repo)

	dto, err := svc.AdjustStock(context.Background(), p.ID, 3)
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if dto.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", dto.Stock)
	}

	_, err = svc.AdjustStock(context.Background(), p.ID, -6)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.AdjustStock(context.Background(), p.ID, 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero delta, got %v", err)
	}
}

func TestAdminMutationsRunInTransaction(t *testing.T) {
	repo := newFakeProductRepo()
	svc, runner := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, CreateProductInput{SKU: "A", Name: "A", Category: "x", Price: dec("1"), Stock: 1})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	name := "B"
	if _, err := svc.UpdateProduct(ctx, dto.ID, UpdateProductInput{Name: &name}); err != nil {
		t.Fatalf("update product: %v", err)
	}
	if _, err := svc.AdjustStock(ctx, dto.ID, 1); err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if err := svc.DeleteProduct(ctx, dto.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if runner.calls != 4 {
		t.Fatalf("expected 4 transactional writes, got %d", runner.calls)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Pastilha de Freio Dianteira": "pastilha-de-freio-dianteira",
		"  Açúcar & Café  ":           "acucar-cafe",
		"---":                         "",
		"Kit 4x4!":                    "kit-4x4",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
