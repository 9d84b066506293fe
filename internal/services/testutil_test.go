// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.HomemadeIngredient{},
		&models.HomemadeIngredientItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Username: "bartender",
		Email:    "bartender@example.com",
	}
	require.NoError(t, user.SetPassword("Str0ng!Pass"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, p models.Product) *models.Product {
	t.Helper()
	if p.Code == "" {
		var count int64
		db.Model(&models.Product{}).Unscoped().Count(&count)
		p.Code = fmt.Sprintf("TP%03d", count+1)
	}
	if p.UniqueItemNumber == "" {
		var count int64
		db.Model(&models.Product{}).Unscoped().Count(&count)
		p.UniqueItemNumber = fmt.Sprintf("ITEM-TEST%04d", count+1)
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
