// internal/models/common.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type IngredientKind string

const (
	IngredientKindProduct  IngredientKind = "Product"
	IngredientKindHomemade IngredientKind = "Homemade"
	IngredientKindRecipe   IngredientKind = "Recipe"
)

type SellingUnit string

const (
	SellingUnitML     SellingUnit = "ml"
	SellingUnitGrams  SellingUnit = "grams"
	SellingUnitPieces SellingUnit = "pieces"
	SellingUnitBottle SellingUnit = "bottle"
)

// PerUnit reports whether cost_per_unit is already expressed in the unit
// callers pass quantities in, so no container conversion applies.
func (u SellingUnit) PerUnit() bool {
	return u == SellingUnitML || u == SellingUnitGrams || u == SellingUnitPieces
}

type PurchaseType string

const (
	PurchaseTypeEach PurchaseType = "each"
	PurchaseTypeCase PurchaseType = "case"
)

type ItemLevel string

const (
	ItemLevelPrimary   ItemLevel = "Primary"
	ItemLevelSecondary ItemLevel = "Secondary"
)
