// internal/services/import_service_test.go
package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportProducts(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db)

	buf := buildWorkbook(t, [][]interface{}{
		{"DESCRIPTION", "SUPPLIER", "CATEGORY", "SUB CATEGORY", "UNIT", "QUANTITY", "COST/UNIT (AED)", "UNIQUE ITEM #", "CODE"},
		{"Beefeater Gin", "MMI", "Alcohol", "Alcohol", "each", "700", "120", "ITEM-GIN001", "GIN01"},
		{"Lime Juice", "", "", "", "ml", "", "0.02", "", ""},
		{"", "MMI", "Alcohol", "", "each", "", "50", "", ""},
	})

	result, err := service.ImportProducts(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)

	var gin models.Product
	require.NoError(t, db.Where("description = ?", "Beefeater Gin").First(&gin).Error)
	assert.Equal(t, "ITEM-GIN001", gin.UniqueItemNumber)
	assert.Equal(t, "GIN01", gin.Code)
	assert.Equal(t, models.SellingUnitBottle, gin.SellingUnit)
	assert.Equal(t, float64(700), gin.MlInBottle)
	assert.Equal(t, float64(120), gin.CostPerUnit)

	var lime models.Product
	require.NoError(t, db.Where("description = ?", "Lime Juice").First(&lime).Error)
	assert.Equal(t, "N/A", lime.Supplier)
	assert.Equal(t, "Other", lime.Category)
	assert.Equal(t, models.SellingUnitML, lime.SellingUnit)
	assert.Equal(t, "ITEM-000002", lime.UniqueItemNumber)
	assert.Equal(t, "BB002", lime.Code)
}

func TestImportProductsMissingColumns(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db)

	buf := buildWorkbook(t, [][]interface{}{
		{"DESCRIPTION", "SUPPLIER"},
		{"Beefeater Gin", "MMI"},
	})

	_, err := service.ImportProducts(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestImportProductsDuplicateIdentifiersRegenerated(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db)

	createTestProduct(t, db, models.Product{
		Description: "Existing Gin", UniqueItemNumber: "ITEM-GIN001",
		Code: "GIN01", CostPerUnit: 100,
	})

	buf := buildWorkbook(t, [][]interface{}{
		{"DESCRIPTION", "SUPPLIER", "CATEGORY", "COST/UNIT (AED)", "UNIQUE ITEM #", "CODE"},
		{"Imported Gin", "MMI", "Alcohol", "120", "ITEM-GIN001", "GIN01"},
	})

	result, err := service.ImportProducts(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	var imported models.Product
	require.NoError(t, db.Where("description = ?", "Imported Gin").First(&imported).Error)
	// One product already exists so imported rows continue the sequence.
	assert.Equal(t, "ITEM-000002", imported.UniqueItemNumber)
	assert.Equal(t, "BB002", imported.Code)
}
