// internal/costing/batch.go
package costing

import (
	"github.com/barbuddy/barbuddy-backend/internal/categories"
	"github.com/barbuddy/barbuddy-backend/internal/models"
)

// BatchSummary totals a recipe's ingredient quantities per prep bucket so a
// bar can scale the recipe for batching. Product lines bucket by the
// product's sub-category, homemade lines always count as syrups and purees,
// and nested-recipe lines fall into the catch-all bucket. Lines with missing
// references or non-positive quantities are skipped.
func (r *Resolver) BatchSummary(rec *models.Recipe) map[string]float64 {
	summary := make(map[string]float64, len(categories.Buckets()))
	for _, bucket := range categories.Buckets() {
		summary[bucket] = 0
	}
	if rec == nil {
		return summary
	}

	for i := range rec.Ingredients {
		line := &rec.Ingredients[i]
		ref, ok := lineRef(line)
		if !ok {
			continue
		}
		qty := line.EffectiveQuantity()
		if qty <= 0 {
			continue
		}

		bucket := categories.BucketOther
		switch ref.kind {
		case models.IngredientKindProduct:
			prod := r.productByID(ref.id)
			if prod == nil {
				continue
			}
			bucket = categories.BucketForSubCategory(prod.SubCategory)
		case models.IngredientKindHomemade:
			if r.homemadeByID(ref.id) == nil {
				continue
			}
			bucket = categories.BucketSyrups
		case models.IngredientKindRecipe:
			if r.recipeByID(ref.id) == nil {
				continue
			}
		}
		summary[bucket] += qty
	}
	return summary
}
