package products

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, stock int) *models.Product {
	t.Helper()
	compareAt := decimal.RequireFromString("59.90")
	product := &models.Product{
		ID:             uuid.New(),
		SKU:            fmt.Sprintf("SKU-%s", uuid.NewString()),
		Name:           "Filtro de Oleo",
		Slug:           "filtro-de-oleo",
		Category:       "filtros",
		Price:          decimal.RequireFromString("49.90"),
		CompareAtPrice: &compareAt,
		Stock:          stock,
		Images:         pq.StringArray{"https://cdn.example.com/filtro.jpg"},
		IsActive:       true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
