// internal/services/product_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddy/barbuddy-backend/internal/models"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

func TestCreateProductSequentialCodes(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	first, err := service.CreateProduct(&CreateProductRequest{
		Description: "Beefeater Gin",
		Supplier:    "MMI",
		CostPerUnit: 120,
		MlInBottle:  700,
		SellingUnit: "bottle",
	})
	require.NoError(t, err)
	assert.Equal(t, "BB001", first.Code)

	second, err := service.CreateProduct(&CreateProductRequest{
		Description: "Lime Juice",
		CostPerUnit: 0.02,
		SellingUnit: "ml",
	})
	require.NoError(t, err)
	assert.Equal(t, "BB002", second.Code)
}

func TestCreateProductGeneratesUniqueItemNumber(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	product, err := service.CreateProduct(&CreateProductRequest{
		Description: "Monin Vanilla Syrup",
		CostPerUnit: 30,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(product.UniqueItemNumber, "ITEM-"))
	assert.Len(t, product.UniqueItemNumber, len("ITEM-")+8)
}

func TestCreateProductDuplicateItemNumber(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	_, err := service.CreateProduct(&CreateProductRequest{
		UniqueItemNumber: "ITEM-AAAA1111",
		Description:      "Vodka",
		CostPerUnit:      90,
	})
	require.NoError(t, err)

	_, err = service.CreateProduct(&CreateProductRequest{
		UniqueItemNumber: "ITEM-AAAA1111",
		Description:      "Another Vodka",
		CostPerUnit:      95,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateProductUnitDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	cases := map[string]models.SellingUnit{
		"":       models.SellingUnitML,
		"ml":     models.SellingUnitML,
		"grams":  models.SellingUnitGrams,
		"pieces": models.SellingUnitPieces,
		"each":   models.SellingUnitBottle,
		"case":   models.SellingUnitBottle,
	}
	for unit, want := range cases {
		product, err := service.CreateProduct(&CreateProductRequest{
			Description: "Unit probe " + unit,
			CostPerUnit: 1,
			SellingUnit: unit,
		})
		require.NoError(t, err)
		assert.Equal(t, want, product.SellingUnit, "unit %q", unit)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	product, err := service.CreateProduct(&CreateProductRequest{
		Description: "Aperol",
		Supplier:    "African+Eastern",
		CostPerUnit: 85,
		MlInBottle:  700,
		SellingUnit: "bottle",
	})
	require.NoError(t, err)

	newCost := 92.5
	updated, err := service.UpdateProduct(product.ID, &UpdateProductRequest{
		CostPerUnit: &newCost,
	})
	require.NoError(t, err)
	assert.Equal(t, 92.5, updated.CostPerUnit)
	assert.Equal(t, "Aperol", updated.Description)
	assert.Equal(t, "African+Eastern", updated.Supplier)
}

func TestSearchProductsFiltersAndSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	createTestProduct(t, db, models.Product{
		Description: "Tanqueray Gin", Supplier: "MMI",
		Category: "Alcohol", SubCategory: "Alcohol",
		ItemLevel: models.ItemLevelPrimary, CostPerUnit: 110,
	})
	createTestProduct(t, db, models.Product{
		Description: "Strawberry Puree", Supplier: "Fresh Co",
		Category: "Food", SubCategory: "Puree",
		ItemLevel: models.ItemLevelPrimary, CostPerUnit: 25,
	})

	params := ProductSearchParams{SubCategory: "Alcohol"}
	params.Page = 1
	params.Limit = 10
	results, total, err := service.SearchProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Tanqueray Gin", results[0].Description)

	params = ProductSearchParams{}
	params.Page = 1
	params.Limit = 10
	params.Search = "strawberry"
	results, total, err = service.SearchProducts(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Strawberry Puree", results[0].Description)
}

func TestMasterListMergesProductsAndHomemade(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SubCategory: "Food",
		SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
		UniqueItemNumber: "ITEM-SUGAR001",
	})
	createTestProduct(t, db, models.Product{
		Description: "House Red", SubCategory: "Alcohol",
		SellingUnit: models.SellingUnitBottle, CostPerUnit: 45,
		MlInBottle: 750, PurchaseType: models.PurchaseTypeCase, BottlesPerCase: 6,
		UniqueItemNumber: "ITEM-WINE0001",
	})

	syrup := &models.HomemadeIngredient{
		Name: "Simple Syrup", UniqueCode: "SEC-0001",
		TotalVolumeML: 1000, Unit: models.SellingUnitML,
	}
	require.NoError(t, db.Create(syrup).Error)
	require.NoError(t, db.Create(&models.HomemadeIngredientItem{
		HomemadeID: syrup.ID, ProductID: sugar.ID,
		Quantity: 800, Unit: models.SellingUnitGrams, QuantityML: 800,
	}).Error)

	items, err := service.MasterList()
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "product", items[0].Source)
	assert.Equal(t, "ITEM-SUGAR001", items[0].UniqueItemNumber)
	assert.Equal(t, 0.01, items[0].CaseCost)
	assert.Equal(t, "House Red", items[1].Description)
	assert.Equal(t, float64(270), items[1].CaseCost)

	// Secondary rows carry the derived per-ml cost: 800g at 0.01 over 1000ml.
	assert.Equal(t, "homemade", items[2].Source)
	assert.Equal(t, "Simple Syrup", items[2].Description)
	assert.Equal(t, "Syrups & Purees", items[2].SubCategory)
	assert.Equal(t, 0.008, items[2].CostPerUnit)
}

func TestDeleteSelectedProducts(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	a := createTestProduct(t, db, models.Product{Description: "Keep Me", CostPerUnit: 1})
	b := createTestProduct(t, db, models.Product{Description: "Drop Me", CostPerUnit: 1})
	c := createTestProduct(t, db, models.Product{Description: "Drop Me Too", CostPerUnit: 1})

	deleted, err := service.DeleteSelectedProducts([]uint{b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = service.GetProduct(a.ID)
	assert.NoError(t, err)
	_, err = service.GetProduct(b.ID)
	assert.Error(t, err)
}

func TestDeleteAllProducts(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)

	createTestProduct(t, db, models.Product{Description: "One", CostPerUnit: 1})
	createTestProduct(t, db, models.Product{Description: "Two", CostPerUnit: 1})

	deleted, err := service.DeleteAllProducts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestFormatCodes(t *testing.T) {
	assert.Equal(t, "BB007", utils.FormatProductCode(7))
	assert.Equal(t, "SEC-0042", utils.FormatSecondaryCode(42))
	assert.Equal(t, "REC-0003", utils.FormatRecipeCode(3))
}
