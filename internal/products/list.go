package products

import (
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
)

// ListProductsInput captures the browse filters and page window.
type ListProductsInput struct {
	Category   string
	Query      string
	Pagination pagination.Params
	// IncludeInactive is honored for admin callers only.
	IncludeInactive bool
}
