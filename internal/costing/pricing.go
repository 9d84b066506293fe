// internal/costing/pricing.go
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

// BasePrice backs the fees out of a recipe's stored fee-inclusive selling
// price. With no fees recorded the stored price is already the base.
func BasePrice(rec *models.Recipe) float64 {
	if rec == nil || rec.SellingPrice <= 0 {
		return 0
	}
	fees := rec.TotalFeesPercent()
	if fees <= 0 {
		return rec.SellingPrice
	}
	price := decimal.NewFromFloat(rec.SellingPrice)
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(fees).Div(decimal.NewFromInt(100)))
	return price.Div(divisor).Round(2).InexactFloat64()
}

// CostPercentage expresses the total ingredient cost as a percentage of the
// base selling price. A recipe without a positive selling price has no
// meaningful percentage, so nil is returned rather than zero.
func CostPercentage(rec *models.Recipe, totalCost float64) *float64 {
	if rec == nil || rec.SellingPrice <= 0 {
		return nil
	}
	fees := rec.TotalFeesPercent()
	price := decimal.NewFromFloat(rec.SellingPrice)
	if fees > 0 {
		divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(fees).Div(decimal.NewFromInt(100)))
		price = price.Div(divisor)
	}
	pct := decimal.NewFromFloat(totalCost).Div(price).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	return &pct
}
