package shipping

import (
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Quote returns the shipping cost of method for subtotal. Methods with a
// free_over threshold cost nothing once the subtotal reaches it.
func Quote(method *models.ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	if method == nil {
		return decimal.Zero
	}
	if method.FreeOver != nil && subtotal.GreaterThanOrEqual(*method.FreeOver) {
		return decimal.Zero
	}
	return method.Price.Round(2)
}
