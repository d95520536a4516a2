package products

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    *string          `json:"description,omitempty"`
	Brand          *string          `json:"brand,omitempty"`
	Category       string           `json:"category"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	Images         []string         `json:"images"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string           `json:"sku" validate:"required,max=64"`
	Name           string           `json:"name" validate:"required,max=200"`
	Slug           string           `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description    *string          `json:"description,omitempty"`
	Brand          *string          `json:"brand,omitempty" validate:"omitempty,max=80"`
	Category       string           `json:"category" validate:"required,max=80"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock" validate:"gte=0"`
	Images         []string         `json:"images,omitempty" validate:"omitempty,max=12,dive,url"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string          `json:"sku,omitempty" validate:"omitempty,max=64"`
	Name           *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug           *string          `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description    *string          `json:"description,omitempty"`
	Brand          *string          `json:"brand,omitempty" validate:"omitempty,max=80"`
	Category       *string          `json:"category,omitempty" validate:"omitempty,max=80"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Images         *[]string        `json:"images,omitempty" validate:"omitempty,max=12,dive,url"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// AdjustStockInput moves stock up or down.
type AdjustStockInput struct {
	Delta int `json:"delta" validate:"required"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:             product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		Brand:          product.Brand,
		Category:       product.Category,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Stock:          product.Stock,
		InStock:        product.Stock > 0,
		Images:         append([]string{}, product.Images...),
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
