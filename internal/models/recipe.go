// internal/models/recipe.go
package models

import (
	"github.com/lib/pq"
)

// Recipe is a sellable preparation (cocktail, mocktail, beverage). The stored
// selling price is fee-inclusive: VAT, service charge and government fees are
// already folded in by whoever entered it.
type Recipe struct {
	BaseModel
	RecipeCode            string         `json:"recipe_code" gorm:"uniqueIndex;size:50"`
	Title                 string         `json:"title" gorm:"size:150;not null"`
	Method                string         `json:"method" gorm:"type:text"`
	Garnish               string         `json:"garnish" gorm:"type:text"`
	RecipeType            string         `json:"recipe_type" gorm:"size:20"`
	Type                  string         `json:"type" gorm:"size:20;index"`
	ItemLevel             ItemLevel      `json:"item_level" gorm:"type:varchar(20);default:'Primary'"`
	UserID                uint           `json:"user_id" gorm:"not null;index"`
	Creator               *User          `json:"creator,omitempty" gorm:"foreignKey:UserID"`
	ImagePath             *string        `json:"image_path,omitempty" gorm:"size:255"`
	SellingPrice          float64        `json:"selling_price" gorm:"type:decimal(10,2);default:0"`
	VATPercentage         float64        `json:"vat_percentage" gorm:"default:0"`
	ServiceChargePercent  float64        `json:"service_charge_percentage" gorm:"column:service_charge_percentage;default:0"`
	GovernmentFeesPercent float64        `json:"government_fees_percentage" gorm:"column:government_fees_percentage;default:0"`
	Tags                  pq.StringArray `json:"tags" gorm:"type:text[]"`

	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TotalFeesPercent is the combined additive fee percentage on the base price.
func (r *Recipe) TotalFeesPercent() float64 {
	return r.VATPercentage + r.ServiceChargePercent + r.GovernmentFeesPercent
}

// RecipeIngredient is one ingredient line, referencing a product, a homemade
// ingredient, or another recipe by (kind, id). Quantity is authoritative;
// QuantityML is kept for legacy rows that only carried a volume, and the
// ProductType/ProductID pair mirrors the reference for old readers.
type RecipeIngredient struct {
	BaseModel
	RecipeID       uint           `json:"recipe_id" gorm:"not null;index"`
	IngredientType IngredientKind `json:"ingredient_type" gorm:"type:varchar(20)"`
	IngredientID   uint           `json:"ingredient_id"`
	Quantity       *float64       `json:"quantity"`
	Unit           SellingUnit    `json:"unit" gorm:"type:varchar(20);default:'ml'"`
	QuantityML     *float64       `json:"quantity_ml"`
	ProductType    string         `json:"product_type" gorm:"size:20"`
	ProductID      uint           `json:"product_id"`
}

// EffectiveQuantity resolves the canonical quantity, falling back to the
// legacy volume column only when the canonical field is absent.
func (ri *RecipeIngredient) EffectiveQuantity() float64 {
	if ri.Quantity != nil {
		return *ri.Quantity
	}
	if ri.QuantityML != nil {
		return *ri.QuantityML
	}
	return 0
}
