// internal/costing/resolver.go
package costing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

// ErrIngredientCycle is returned when a recipe references itself through any
// chain of nested recipes. Costing fails fast instead of recursing forever.
var ErrIngredientCycle = errors.New("ingredient cycle detected")

// LineCost is the costed contribution of a single recipe line. Resolved
// distinguishes a line whose referenced ingredient no longer exists from a
// line that genuinely costs zero.
type LineCost struct {
	IngredientType models.IngredientKind `json:"ingredient_type"`
	IngredientID   uint                  `json:"ingredient_id"`
	Name           string                `json:"name"`
	Quantity       float64               `json:"quantity"`
	Unit           string                `json:"unit"`
	Amount         float64               `json:"amount"`
	Resolved       bool                  `json:"resolved"`
}

// RecipeCost is the full costing of a recipe: per-line amounts, their sum,
// and how many lines referenced ingredients that could not be found.
type RecipeCost struct {
	Lines      []LineCost `json:"lines"`
	Total      float64    `json:"total"`
	Unresolved int        `json:"unresolved"`
}

// Resolver walks the ingredient graph and prices it. All lookups go through
// the passed DB handle so nested recipes and homemade components are costed
// from their current state.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

type ingredientRef struct {
	kind models.IngredientKind
	id   uint
}

// UnitCost normalizes a product's cost to its consumption unit. Products
// sold per ml, gram, or piece already carry a per-unit cost. Bottle-type
// products carry the cost of the whole bottle, so the per-ml cost is derived
// from the bottle volume when one is recorded.
func UnitCost(p *models.Product) decimal.Decimal {
	if p == nil || p.CostPerUnit == 0 {
		return decimal.Zero
	}
	cost := decimal.NewFromFloat(p.CostPerUnit)
	if p.SellingUnit.PerUnit() {
		return cost
	}
	if p.MlInBottle > 0 {
		return cost.Div(decimal.NewFromFloat(p.MlInBottle))
	}
	return cost
}

// ProductCost prices qty consumption units of a product, rounded to currency
// precision.
func ProductCost(p *models.Product, qty float64) float64 {
	if p == nil || qty <= 0 {
		return 0
	}
	return UnitCost(p).Mul(decimal.NewFromFloat(qty)).Round(2).InexactFloat64()
}

// HomemadeTotalCost prices one full batch of a homemade ingredient: each
// component line is priced and rounded, then the sum is rounded again.
// Component lines whose product is missing contribute zero.
func (r *Resolver) HomemadeTotalCost(h *models.HomemadeIngredient) float64 {
	if h == nil {
		return 0
	}
	total := decimal.Zero
	for i := range h.Items {
		item := &h.Items[i]
		prod := item.Product
		if prod == nil {
			prod = r.productByID(item.ProductID)
		}
		line := ProductCost(prod, item.Quantity)
		total = total.Add(decimal.NewFromFloat(line))
	}
	return total.Round(2).InexactFloat64()
}

// HomemadeCostPerUnit divides the batch cost by the batch volume, at the
// finer precision used for per-unit figures. A batch with no recorded volume
// costs zero per unit.
func (r *Resolver) HomemadeCostPerUnit(h *models.HomemadeIngredient) float64 {
	if h == nil || h.TotalVolumeML <= 0 {
		return 0
	}
	total := decimal.NewFromFloat(r.HomemadeTotalCost(h))
	return total.Div(decimal.NewFromFloat(h.TotalVolumeML)).Round(4).InexactFloat64()
}

// RecipeCost prices every line of a recipe, including nested recipes. The
// recipe's Ingredients must be loaded. Missing references produce an
// unresolved zero-cost line rather than an error; a cycle through nested
// recipes returns ErrIngredientCycle.
func (r *Resolver) RecipeCost(rec *models.Recipe) (*RecipeCost, error) {
	if rec == nil {
		return &RecipeCost{Lines: []LineCost{}}, nil
	}
	visited := map[ingredientRef]bool{
		{kind: models.IngredientKindRecipe, id: rec.ID}: true,
	}
	return r.costRecipeLines(rec.Ingredients, visited)
}

// RecipeTotalCost is RecipeCost reduced to the rounded total.
func (r *Resolver) RecipeTotalCost(rec *models.Recipe) (float64, error) {
	cost, err := r.RecipeCost(rec)
	if err != nil {
		return 0, err
	}
	return cost.Total, nil
}

func (r *Resolver) costRecipeLines(lines []models.RecipeIngredient, visited map[ingredientRef]bool) (*RecipeCost, error) {
	result := &RecipeCost{Lines: make([]LineCost, 0, len(lines))}
	total := decimal.Zero

	for i := range lines {
		line := &lines[i]
		ref, ok := lineRef(line)
		lc := LineCost{
			Quantity: line.EffectiveQuantity(),
			Unit:     string(line.Unit),
		}
		if ok {
			lc.IngredientType = ref.kind
			lc.IngredientID = ref.id
		}
		if !ok {
			result.Unresolved++
			result.Lines = append(result.Lines, lc)
			continue
		}

		amount, name, resolved, err := r.costRef(ref, lc.Quantity, visited)
		if err != nil {
			return nil, err
		}
		lc.Name = name
		lc.Amount = amount
		lc.Resolved = resolved
		if !resolved {
			result.Unresolved++
		}
		total = total.Add(decimal.NewFromFloat(amount))
		result.Lines = append(result.Lines, lc)
	}

	result.Total = total.Round(2).InexactFloat64()
	return result, nil
}

// costRef prices one reference. The returned amount is already rounded to
// currency precision; resolved is false only when the referenced record does
// not exist.
func (r *Resolver) costRef(ref ingredientRef, qty float64, visited map[ingredientRef]bool) (float64, string, bool, error) {
	switch ref.kind {
	case models.IngredientKindProduct:
		prod := r.productByID(ref.id)
		if prod == nil {
			return 0, "", false, nil
		}
		if qty <= 0 {
			return 0, prod.Description, true, nil
		}
		return ProductCost(prod, qty), prod.Description, true, nil

	case models.IngredientKindHomemade:
		hm := r.homemadeByID(ref.id)
		if hm == nil {
			return 0, "", false, nil
		}
		if qty <= 0 {
			return 0, hm.Name, true, nil
		}
		perUnit := decimal.NewFromFloat(r.HomemadeCostPerUnit(hm))
		amount := perUnit.Mul(decimal.NewFromFloat(qty)).Round(2).InexactFloat64()
		return amount, hm.Name, true, nil

	case models.IngredientKindRecipe:
		if visited[ref] {
			return 0, "", false, fmt.Errorf("%w: recipe %d", ErrIngredientCycle, ref.id)
		}
		nested := r.recipeByID(ref.id)
		if nested == nil {
			return 0, "", false, nil
		}
		if qty <= 0 {
			return 0, nested.Title, true, nil
		}
		visited[ref] = true
		nestedCost, err := r.costRecipeLines(nested.Ingredients, visited)
		delete(visited, ref)
		if err != nil {
			return 0, nested.Title, false, err
		}
		amount := decimal.NewFromFloat(nestedCost.Total).Mul(decimal.NewFromFloat(qty)).Round(2).InexactFloat64()
		return amount, nested.Title, true, nil

	default:
		return 0, "", false, nil
	}
}

// lineRef resolves which record a recipe line points at, honoring the legacy
// product_type/product_id columns used before ingredient_type existed.
func lineRef(line *models.RecipeIngredient) (ingredientRef, bool) {
	if line.IngredientType != "" {
		switch line.IngredientType {
		case models.IngredientKindProduct, models.IngredientKindHomemade, models.IngredientKindRecipe:
			return ingredientRef{kind: line.IngredientType, id: line.IngredientID}, true
		}
		return ingredientRef{}, false
	}
	if line.ProductType != "" {
		if line.ProductType == string(models.IngredientKindProduct) {
			return ingredientRef{kind: models.IngredientKindProduct, id: line.ProductID}, true
		}
		return ingredientRef{kind: models.IngredientKindHomemade, id: line.ProductID}, true
	}
	return ingredientRef{}, false
}

func (r *Resolver) productByID(id uint) *models.Product {
	if id == 0 {
		return nil
	}
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil
	}
	return &p
}

func (r *Resolver) homemadeByID(id uint) *models.HomemadeIngredient {
	if id == 0 {
		return nil
	}
	var h models.HomemadeIngredient
	if err := r.db.Preload("Items.Product").First(&h, id).Error; err != nil {
		return nil
	}
	return &h
}

func (r *Resolver) recipeByID(id uint) *models.Recipe {
	if id == 0 {
		return nil
	}
	var rec models.Recipe
	if err := r.db.Preload("Ingredients").First(&rec, id).Error; err != nil {
		return nil
	}
	return &rec
}
