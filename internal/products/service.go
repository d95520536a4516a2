package products

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog product operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error)
	GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
}

type service struct {
	repo   productRepository
	tx     db.TxRunner
	txRepo func(tx *gorm.DB) productRepository
}

// NewService constructs a product service instance. Writes run inside
// txRunner so the acting admin is bound for the audit trigger.
func NewService(repo *Repository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:   repo,
		tx:     txRunner,
		txRepo: func(tx *gorm.DB) productRepository { return repo.WithTx(tx) },
	}, nil
}

func (s *service) write(ctx context.Context, fn func(repo productRepository) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.txRepo(tx))
	})
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*pagination.Page[ProductDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, ListFilter{
		Category:   input.Category,
		Query:      input.Query,
		ActiveOnly: !input.IncludeInactive,
	}, cursor, input.Pagination.Limit)
	if err != nil {
		return nil, db.MapError(err, "products")
	}
	page := pagination.Build(rows, input.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	items := make([]ProductDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewProductDTO(&page.Items[i]))
	}
	return &pagination.Page[ProductDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "product")
	}
	if !product.IsActive && !includeInactive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePrices(input.Price, input.CompareAtPrice); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	name := strings.TrimSpace(input.Name)
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	product := &models.Product{
		ID:             uuid.New(),
		SKU:            normalizeSKU(input.SKU),
		Name:           name,
		Slug:           slug,
		Description:    trimOptional(input.Description),
		Brand:          trimOptional(input.Brand),
		Category:       normalizeCategory(input.Category),
		Price:          input.Price.Round(2),
		CompareAtPrice: input.CompareAtPrice,
		Stock:          input.Stock,
		Images:         pq.StringArray(cleanImages(input.Images)),
		IsActive:       active,
	}
	if product.SKU == "" || product.Name == "" || product.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku, name and category are required")
	}
	var created *models.Product
	err := s.write(ctx, func(repo productRepository) error {
		var err error
		created, err = repo.Create(ctx, product)
		return err
	})
	if err != nil {
		return nil, skuError(err)
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "product")
	}
	updates, err := buildUpdates(current, input)
	if err != nil {
		return nil, err
	}
	var updated *models.Product
	err = s.write(ctx, func(repo productRepository) error {
		var err error
		updated, err = repo.Update(ctx, id, updates)
		return err
	})
	if err != nil {
		return nil, skuError(err)
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, func(repo productRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return db.MapError(err, "product")
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "product")
	}
	var ok bool
	err = s.write(ctx, func(repo productRepository) error {
		var err error
		ok, err = repo.AdjustStock(ctx, id, delta)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "product")
	}
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "insufficient stock for %s", product.SKU).
			WithDetails(map[string]any{"stock": product.Stock, "delta": delta})
	}
	product, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "product")
	}
	return NewProductDTO(product), nil
}

// buildUpdates turns the partial input into a column map, validating the
// merged price pair against the current row.
func buildUpdates(current *models.Product, input UpdateProductInput) (map[string]any, error) {
	updates := map[string]any{}
	if input.SKU != nil {
		sku := normalizeSKU(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		updates["sku"] = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		updates["slug"] = slug
	}
	if input.Description != nil {
		updates["description"] = trimOptional(input.Description)
	}
	if input.Brand != nil {
		updates["brand"] = trimOptional(input.Brand)
	}
	if input.Category != nil {
		category := normalizeCategory(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		updates["category"] = category
	}

	price := current.Price
	compareAt := current.CompareAtPrice
	if input.Price != nil {
		price = input.Price.Round(2)
		updates["price"] = price
	}
	if input.CompareAtPrice != nil {
		compareAt = input.CompareAtPrice
		if input.CompareAtPrice.IsZero() {
			compareAt = nil
		}
		updates["compare_at_price"] = compareAt
	}
	if input.Price != nil || input.CompareAtPrice != nil {
		if err := validatePrices(price, compareAt); err != nil {
			return nil, err
		}
	}
	if input.Images != nil {
		updates["images"] = pq.StringArray(cleanImages(*input.Images))
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return updates, nil
}

func validatePrices(price decimal.Decimal, compareAt *decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if compareAt != nil && compareAt.LessThan(price) {
		return pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must be greater than or equal to price")
	}
	return nil
}

func skuError(err error) error {
	if db.IsUniqueViolation(err, "products_sku_key") {
		return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
	}
	return db.MapError(err, "product")
}

func normalizeSKU(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "ì", "i",
	"ó", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Slugify lowercases, folds Portuguese accents and joins words with dashes.
func Slugify(value string) string {
	folded := accentFolder.Replace(strings.ToLower(strings.TrimSpace(value)))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
