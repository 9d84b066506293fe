// internal/models/homemade.go
package models

// HomemadeIngredient is an in-house composite (syrup, puree, infusion) made
// from products. Its cost is never stored; it is derived from the current
// cost of its composition lines on every read.
type HomemadeIngredient struct {
	BaseModel
	Name          string      `json:"name" gorm:"size:150;not null"`
	UniqueCode    string      `json:"unique_code" gorm:"uniqueIndex;size:50"`
	CreatedBy     *uint       `json:"created_by,omitempty" gorm:"index"`
	Creator       *User       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	TotalVolumeML float64     `json:"total_volume_ml" gorm:"not null"`
	Unit          SellingUnit `json:"unit" gorm:"type:varchar(20);default:'ml'"`
	Method        string      `json:"method" gorm:"type:text"`

	Items []HomemadeIngredientItem `json:"items,omitempty" gorm:"foreignKey:HomemadeID;constraint:OnDelete:CASCADE"`
}

// HomemadeIngredientItem is one composition line, always referencing a
// product. QuantityML mirrors Quantity for legacy rows and display; Quantity
// is authoritative for costing.
type HomemadeIngredientItem struct {
	BaseModel
	HomemadeID uint        `json:"homemade_id" gorm:"not null;index"`
	ProductID  uint        `json:"product_id" gorm:"not null;index"`
	Product    *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   float64     `json:"quantity"`
	Unit       SellingUnit `json:"unit" gorm:"type:varchar(20);default:'ml'"`
	QuantityML float64     `json:"quantity_ml"`
}
