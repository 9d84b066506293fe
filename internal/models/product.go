// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

// Product is a purchasable leaf ingredient with a supplier cost. Cost per
// selling unit is the only field costing depends on; everything else is
// catalog metadata.
type Product struct {
	BaseModel
	UniqueItemNumber    string       `json:"unique_item_number" gorm:"uniqueIndex;size:50"`
	Supplier            string       `json:"supplier" gorm:"size:120"`
	Code                string       `json:"code" gorm:"uniqueIndex;size:20;not null"`
	Description         string       `json:"description" gorm:"size:200;not null"`
	Category            string       `json:"category" gorm:"size:50;index"`
	SubCategory         string       `json:"sub_category" gorm:"size:50;index"`
	ItemLevel           ItemLevel    `json:"item_level" gorm:"type:varchar(20);default:'Primary'"`
	MlInBottle          float64      `json:"ml_in_bottle"`
	ABV                 float64      `json:"abv"`
	SellingUnit         SellingUnit  `json:"selling_unit" gorm:"type:varchar(20);default:'ml'"`
	CostPerUnit         float64      `json:"cost_per_unit" gorm:"type:decimal(12,4);not null"`
	SupplierProductCode string       `json:"supplier_product_code" gorm:"size:50"`
	PurchaseType        PurchaseType `json:"purchase_type" gorm:"type:varchar(10);default:'each'"`
	BottlesPerCase      int          `json:"bottles_per_case" gorm:"default:1"`
	ImagePath           *string      `json:"image_path,omitempty" gorm:"size:255"`
}

// CaseCost returns the cost of a full case for case-purchased products and
// the plain unit cost otherwise.
func (p *Product) CaseCost() float64 {
	if p.PurchaseType == PurchaseTypeCase {
		cost := decimal.NewFromFloat(p.CostPerUnit).
			Mul(decimal.NewFromInt(int64(p.BottlesPerCase)))
		return cost.Round(2).InexactFloat64()
	}
	return p.CostPerUnit
}
