// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/barbuddy/barbuddy-backend/internal/config"
	"github.com/barbuddy/barbuddy-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.HomemadeIngredient{},
		&models.HomemadeIngredientItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_products_sub_category ON products(sub_category)",
		"CREATE INDEX IF NOT EXISTS idx_products_item_level ON products(item_level)",
		"CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Homemade ingredient indexes
		"CREATE INDEX IF NOT EXISTS idx_homemade_items_homemade ON homemade_ingredient_items(homemade_id)",
		"CREATE INDEX IF NOT EXISTS idx_homemade_items_product ON homemade_ingredient_items(product_id)",

		// Recipe indexes
		"CREATE INDEX IF NOT EXISTS idx_recipes_type ON recipes(type)",
		"CREATE INDEX IF NOT EXISTS idx_recipes_recipe_type ON recipes(recipe_type)",
		"CREATE INDEX IF NOT EXISTS idx_recipes_user ON recipes(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id)",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ref ON recipe_ingredients(ingredient_type, ingredient_id)",

		// Tag search
		"CREATE INDEX IF NOT EXISTS idx_recipes_tags ON recipes USING GIN(tags)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', coalesce(description,'') || ' ' || coalesce(supplier,'')))",
		"CREATE INDEX IF NOT EXISTS idx_recipes_search ON recipes USING GIN(to_tsvector('english', coalesce(title,'') || ' ' || coalesce(method,'')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB, seed config.SeedConfig) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount)

	if adminCount == 0 {
		if seed.AdminPassword == "" {
			log.Println("No admin account present and SEED_ADMIN_PASSWORD not set, skipping admin seed")
			return nil
		}

		admin := &models.User{
			Username: seed.AdminUsername,
			Email:    seed.AdminEmail,
			IsAdmin:  true,
		}

		if err := admin.SetPassword(seed.AdminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}
