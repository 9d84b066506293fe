// internal/categories/categories.go
package categories

import "strings"

// Category is a canonical recipe category slug.
type Category string

const (
	Cocktails Category = "cocktails"
	Mocktails Category = "mocktails"
	Beverages Category = "beverages"
)

// Config describes how a canonical category maps to display text and to the
// legacy labels stored in the recipe type columns.
type Config struct {
	Display  string
	DBLabels []string
	AddLabel string
}

var configs = map[Category]Config{
	Cocktails: {
		Display:  "Cocktails",
		DBLabels: []string{"Cocktails", "Classic"},
		AddLabel: "Cocktail",
	},
	Mocktails: {
		Display:  "Mocktails",
		DBLabels: []string{"Mocktails", "Signature"},
		AddLabel: "Mocktail",
	},
	Beverages: {
		Display:  "Beverages",
		DBLabels: []string{"Beverages", "Beverage"},
		AddLabel: "Beverage",
	},
}

var aliases = map[string]Category{
	"cocktails": Cocktails,
	"classic":   Cocktails,
	"mocktails": Mocktails,
	"signature": Mocktails,
	"beverages": Beverages,
	"beverage":  Beverages,
	"food":      Cocktails,
}

// All returns the canonical categories in display order.
func All() []Category {
	return []Category{Cocktails, Mocktails, Beverages}
}

// Lookup returns the configuration for a canonical category.
func Lookup(c Category) Config {
	cfg, ok := configs[c]
	if !ok {
		return configs[Cocktails]
	}
	return cfg
}

// Resolve maps any category string (slug or legacy label, any case) to its
// canonical category. Unrecognized input resolves to cocktails, never to an
// error: the caller always gets something renderable.
func Resolve(raw string) (Category, Config) {
	key := strings.ToLower(strings.TrimSpace(raw))
	canonical, ok := aliases[key]
	if !ok {
		canonical = Cocktails
	}
	return canonical, configs[canonical]
}

// Known reports whether the string names a recognized category or alias.
func Known(raw string) bool {
	_, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// Batch buckets for prep planning.
const (
	BucketAlcohol    = "Alcohol"
	BucketSyrups     = "Syrups & Purees"
	BucketJuices     = "Juices"
	BucketFruits     = "Fruits"
	BucketVegetables = "Vegetables"
	BucketDairy      = "Dairy"
	BucketNonAlcohol = "Non-Alcohol"
	BucketOther      = "Other"
)

// Buckets returns the fixed batch buckets in display order.
func Buckets() []string {
	return []string{
		BucketAlcohol,
		BucketSyrups,
		BucketJuices,
		BucketFruits,
		BucketVegetables,
		BucketDairy,
		BucketNonAlcohol,
		BucketOther,
	}
}

var subCategoryBuckets = map[string]string{
	"Alcohol":         BucketAlcohol,
	"Syrup":           BucketSyrups,
	"Puree":           BucketSyrups,
	"Syrups & Purees": BucketSyrups,
	"Juice":           BucketJuices,
	"Fruits":          BucketFruits,
	"Vegetables":      BucketVegetables,
	"Dairy":           BucketDairy,
	"Non-Alcohol":     BucketNonAlcohol,
}

// BucketForSubCategory maps a product sub-category to its batch bucket.
// Anything outside the fixed table lands in Other.
func BucketForSubCategory(subCategory string) string {
	if bucket, ok := subCategoryBuckets[subCategory]; ok {
		return bucket
	}
	return BucketOther
}
