// internal/services/homemade_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

func TestCreateHomemadeWithProductLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})
	water := createTestProduct(t, db, models.Product{
		Description: "Filtered Water", SellingUnit: models.SellingUnitML, CostPerUnit: 0,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Simple Syrup",
		TotalVolumeML: 1000,
		Method:        "Dissolve sugar in warm water.",
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 500, Unit: "grams"},
			{SourceType: "Product", SourceID: water.ID, Quantity: 500, Unit: "ml"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SEC-0001", homemade.UniqueCode)
	assert.Equal(t, user.ID, *homemade.CreatedBy)
	require.Len(t, homemade.Items, 2)
	assert.Equal(t, sugar.ID, homemade.Items[0].ProductID)
	assert.Equal(t, float64(500), homemade.Items[0].Quantity)
	assert.Equal(t, models.SellingUnitGrams, homemade.Items[0].Unit)
}

func TestCreateHomemadeSkipsInvalidLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	mint := createTestProduct(t, db, models.Product{
		Description: "Mint", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.05,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Mint Infusion",
		TotalVolumeML: 500,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: mint.ID, Quantity: 40},
			{SourceType: "Product", SourceID: mint.ID, Quantity: 0},
			{SourceType: "Product", SourceID: 9999, Quantity: 10},
		},
	})
	require.NoError(t, err)
	require.Len(t, homemade.Items, 1)
	assert.Equal(t, float64(40), homemade.Items[0].Quantity)
}

func TestCreateHomemadeNoValidLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	_, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Empty Batch",
		TotalVolumeML: 500,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: 9999, Quantity: 10},
		},
	})
	require.ErrorIs(t, err, ErrNoValidLines)

	// The transaction must have rolled back the header row too.
	var count int64
	db.Model(&models.HomemadeIngredient{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateHomemadeFlattensNestedSecondary(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})
	water := createTestProduct(t, db, models.Product{
		Description: "Filtered Water", SellingUnit: models.SellingUnitML, CostPerUnit: 0,
	})

	syrup, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Simple Syrup",
		TotalVolumeML: 1000,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 500, Unit: "grams"},
			{SourceType: "Product", SourceID: water.ID, Quantity: 500, Unit: "ml"},
		},
	})
	require.NoError(t, err)

	berry := createTestProduct(t, db, models.Product{
		Description: "Strawberry", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.03,
	})

	// Uses 200ml of a 1000ml syrup batch: every syrup component scales by 0.2.
	puree, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Strawberry Puree",
		TotalVolumeML: 600,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: berry.ID, Quantity: 400, Unit: "grams"},
			{SourceType: "Secondary", SourceID: syrup.ID, Quantity: 200, Unit: "ml"},
		},
	})
	require.NoError(t, err)
	require.Len(t, puree.Items, 3)

	byProduct := map[uint]float64{}
	for _, item := range puree.Items {
		byProduct[item.ProductID] = item.Quantity
	}
	assert.Equal(t, float64(400), byProduct[berry.ID])
	assert.Equal(t, float64(100), byProduct[sugar.ID])
	assert.Equal(t, float64(100), byProduct[water.ID])
}

func TestUpdateHomemadeReplacesLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})
	honey := createTestProduct(t, db, models.Product{
		Description: "Honey", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.04,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Sweetener",
		TotalVolumeML: 500,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 250},
		},
	})
	require.NoError(t, err)

	updated, err := service.UpdateHomemade(homemade.ID, &UpdateHomemadeRequest{
		Name:          "Honey Sweetener",
		TotalVolumeML: 400,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: honey.ID, Quantity: 200},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Honey Sweetener", updated.Name)
	assert.Equal(t, float64(400), updated.TotalVolumeML)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, honey.ID, updated.Items[0].ProductID)
}

func TestUpdateHomemadeNoValidLinesKeepsOriginal(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Sweetener",
		TotalVolumeML: 500,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 250},
		},
	})
	require.NoError(t, err)

	_, err = service.UpdateHomemade(homemade.ID, &UpdateHomemadeRequest{
		Name:          "Broken Edit",
		TotalVolumeML: 500,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: 9999, Quantity: 10},
		},
	})
	require.ErrorIs(t, err, ErrNoValidLines)

	// Rollback must preserve the original name and composition.
	current, err := service.GetHomemade(homemade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweetener", current.Name)
	require.Len(t, current.Items, 1)
	assert.Equal(t, sugar.ID, current.Items[0].ProductID)
}

func TestListHomemadeIncludesDerivedCosts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})

	_, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Simple Syrup",
		TotalVolumeML: 1000,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 500, Unit: "grams"},
		},
	})
	require.NoError(t, err)

	rows, err := service.ListHomemade()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Simple Syrup", rows[0].Name)
	assert.Equal(t, 5.00, rows[0].TotalCost)
	assert.Equal(t, 0.005, rows[0].UnitCost)
}

func TestGetHomemadeDetailIncludesCosts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Simple Syrup",
		TotalVolumeML: 1000,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 800, Unit: "grams"},
		},
	})
	require.NoError(t, err)

	detail, err := service.GetHomemadeDetail(homemade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Simple Syrup", detail.Name)
	assert.Equal(t, 8.00, detail.TotalCost)
	assert.Equal(t, 0.008, detail.UnitCost)
	require.Len(t, detail.Items, 1)
}

func TestLinkAndUnlinkIngredient(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})
	lemon := createTestProduct(t, db, models.Product{
		Description: "Lemon", SellingUnit: models.SellingUnitPieces, CostPerUnit: 1.5,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Lemon Cordial",
		TotalVolumeML: 750,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 300, Unit: "grams"},
		},
	})
	require.NoError(t, err)

	item, err := service.LinkIngredient(homemade.ID, &LinkIngredientRequest{
		ProductID: lemon.ID,
		Quantity:  4,
		Unit:      "pieces",
	})
	require.NoError(t, err)
	assert.Equal(t, lemon.ID, item.ProductID)

	// Linking the same product again updates the existing line.
	item, err = service.LinkIngredient(homemade.ID, &LinkIngredientRequest{
		ProductID: lemon.ID,
		Quantity:  6,
		Unit:      "pieces",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(6), item.Quantity)

	current, err := service.GetHomemade(homemade.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 2)

	require.NoError(t, service.UnlinkItem(item.ID))
	current, err = service.GetHomemade(homemade.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
}

func TestDeleteHomemadeRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	service := NewHomemadeService(db)

	sugar := createTestProduct(t, db, models.Product{
		Description: "White Sugar", SellingUnit: models.SellingUnitGrams, CostPerUnit: 0.01,
	})

	homemade, err := service.CreateHomemade(user.ID, &CreateHomemadeRequest{
		Name:          "Simple Syrup",
		TotalVolumeML: 1000,
		Lines: []HomemadeLineRequest{
			{SourceType: "Product", SourceID: sugar.ID, Quantity: 500},
		},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteHomemade(homemade.ID))

	_, err = service.GetHomemade(homemade.ID)
	assert.Error(t, err)
	var itemCount int64
	db.Unscoped().Model(&models.HomemadeIngredientItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)
}
