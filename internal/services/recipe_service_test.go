// internal/services/recipe_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

func TestCreateRecipeResolvesCategory(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	gin := createTestProduct(t, db, models.Product{
		Description: "Beefeater Gin", SellingUnit: models.SellingUnitBottle,
		CostPerUnit: 120, MlInBottle: 700,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title:    "Gin Fizz",
		Category: "Classic",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: gin.ID, Quantity: 60, Unit: "ml"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "REC-0001", recipe.RecipeCode)
	assert.Equal(t, "cocktails", recipe.Type)
	assert.Equal(t, "Cocktail", recipe.RecipeType)
	assert.Equal(t, models.ItemLevelPrimary, recipe.ItemLevel)
	require.Len(t, recipe.Ingredients, 1)
}

func TestCreateRecipeUnknownCategoryDefaults(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title:    "Mystery Drink",
		Category: "something-new",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cocktails", recipe.Type)
}

func TestCreateRecipeSkipsInvalidLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Limeade",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30},
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 0},
			{IngredientType: "Product", IngredientID: 9999, Quantity: 20},
		},
	})
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, float64(30), recipe.Ingredients[0].EffectiveQuantity())
}

func TestCreateRecipeNoValidLinesRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	_, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Ghost Drink",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: 9999, Quantity: 30},
		},
	})
	require.ErrorIs(t, err, ErrNoValidLines)

	var count int64
	db.Model(&models.Recipe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateRecipeDerivesVolumeForContainerUnits(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	wine := createTestProduct(t, db, models.Product{
		Description: "House Red", SellingUnit: models.SellingUnitBottle,
		CostPerUnit: 45, MlInBottle: 750,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Mulled Wine Base",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: wine.ID, Quantity: 2, Unit: "bottle"},
		},
	})
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 1)

	line := recipe.Ingredients[0]
	assert.Equal(t, float64(2), *line.Quantity)
	assert.Equal(t, float64(1500), *line.QuantityML)
	// Legacy mirror columns stay in sync for old readers.
	assert.Equal(t, "Product", line.ProductType)
	assert.Equal(t, wine.ID, line.ProductID)
}

func TestCreateRecipeUntypedLineProbesProductThenHomemade(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})
	require.NoError(t, db.Create(&models.HomemadeIngredient{
		Name: "Simple Syrup", UniqueCode: "SEC-0001", TotalVolumeML: 1000,
	}).Error)

	// ID 1 exists as both a product and a homemade: the product wins.
	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Untyped Sour",
		Lines: []RecipeLineRequest{
			{IngredientID: lime.ID, Quantity: 30},
		},
	})
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, models.IngredientKindProduct, recipe.Ingredients[0].IngredientType)
}

func TestCreateRecipeSkipsSelfReference(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	base, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Base Mix",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30},
		},
	})
	require.NoError(t, err)

	// Editing the recipe to reference itself drops that line.
	updated, err := service.UpdateRecipe(base.ID, &UpdateRecipeRequest{
		Title: "Base Mix",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30},
			{IngredientType: "Recipe", IngredientID: base.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, models.IngredientKindProduct, updated.Ingredients[0].IngredientType)
}

func TestUpdateRecipeNoValidLinesKeepsOriginal(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Limeade",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30},
		},
	})
	require.NoError(t, err)

	_, err = service.UpdateRecipe(recipe.ID, &UpdateRecipeRequest{
		Title: "Broken Edit",
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: 9999, Quantity: 30},
		},
	})
	require.ErrorIs(t, err, ErrNoValidLines)

	current, err := service.GetRecipe(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Limeade", current.Title)
	require.Len(t, current.Ingredients, 1)
}

func TestSearchRecipesByCategoryAndTitle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	_, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title:    "Virgin Mojito",
		Category: "Mocktail",
		Lines:    []RecipeLineRequest{{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30}},
	})
	require.NoError(t, err)
	_, err = service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title:    "Daiquiri",
		Category: "Cocktail",
		Lines:    []RecipeLineRequest{{IngredientType: "Product", IngredientID: lime.ID, Quantity: 25}},
	})
	require.NoError(t, err)

	params := RecipeSearchParams{}
	params.Page = 1
	params.Limit = 10
	params.Category = "mocktails"
	results, total, err := service.SearchRecipes(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Virgin Mojito", results[0].Title)

	params = RecipeSearchParams{}
	params.Page = 1
	params.Limit = 10
	params.Search = "daiq"
	results, total, err = service.SearchRecipes(params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Daiquiri", results[0].Title)
}

func TestGetRecipeByCode(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	created, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Limeade",
		Lines: []RecipeLineRequest{{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30}},
	})
	require.NoError(t, err)

	found, err := service.GetRecipeByCode(created.RecipeCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetRecipeByCode("REC-9999")
	assert.Error(t, err)
}

func TestListCategories(t *testing.T) {
	service := NewRecipeService(setupTestDB(t))
	infos := service.ListCategories()
	require.Len(t, infos, 3)
	assert.Equal(t, "cocktails", infos[0].Slug)
	assert.Equal(t, "Cocktail", infos[0].AddLabel)
	assert.Contains(t, infos[0].DBLabels, "Classic")
}

func TestCostRecipeView(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	gin := createTestProduct(t, db, models.Product{
		Description: "Beefeater Gin", SellingUnit: models.SellingUnitBottle,
		CostPerUnit: 120, MlInBottle: 700,
	})
	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title:                 "Gimlet",
		SellingPrice:          63,
		VATPercentage:         5,
		ServiceChargePercent:  10,
		GovernmentFeesPercent: 10,
		Lines: []RecipeLineRequest{
			{IngredientType: "Product", IngredientID: gin.ID, Quantity: 60, Unit: "ml"},
			{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30, Unit: "ml"},
		},
	})
	require.NoError(t, err)

	view, err := service.CostRecipe(recipe)
	require.NoError(t, err)
	// 60ml of a 120/700 bottle = 10.29, 30ml at 0.02 = 0.60.
	assert.Equal(t, 10.89, view.TotalCost)
	assert.Equal(t, 0, view.Unresolved)
	assert.Equal(t, 50.40, view.BasePrice)
	require.NotNil(t, view.CostPercentage)
	assert.Equal(t, 21.61, *view.CostPercentage)
}

func TestRecipeDeleteRemovesLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewRecipeService(db)

	lime := createTestProduct(t, db, models.Product{
		Description: "Lime Juice", SellingUnit: models.SellingUnitML, CostPerUnit: 0.02,
	})

	recipe, err := service.CreateRecipe(user.ID, &CreateRecipeRequest{
		Title: "Limeade",
		Lines: []RecipeLineRequest{{IngredientType: "Product", IngredientID: lime.ID, Quantity: 30}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteRecipe(recipe.ID))
	_, err = service.GetRecipe(recipe.ID)
	assert.Error(t, err)

	var lineCount int64
	db.Unscoped().Model(&models.RecipeIngredient{}).Count(&lineCount)
	assert.Equal(t, int64(0), lineCount)
}
