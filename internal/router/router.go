// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/config"
	"github.com/barbuddy/barbuddy-backend/internal/handlers"
	"github.com/barbuddy/barbuddy-backend/internal/middleware"
	"github.com/barbuddy/barbuddy-backend/internal/services"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

// Initialize sets up the router with all routes and middleware
func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Set JWT secret for utils package
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize services
	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	homemadeService := services.NewHomemadeService(db)
	recipeService := services.NewRecipeService(db)
	importService := services.NewImportService(db)
	storageService, _ := services.NewStorageService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, importService, storageService)
	homemadeHandler := handlers.NewHomemadeHandler(homemadeService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, storageService)

	// Set gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "barbuddy-backend",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthRequired())
			{
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.GET("/me", authHandler.GetProfile)
			}
		}

		// Product routes (all require authentication)
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", productHandler.SearchProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/master", productHandler.MasterList)
			products.POST("/import", productHandler.ImportProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)

			upload := products.Group("")
			upload.Use(middleware.UploadRateLimit())
			{
				upload.POST("/:id/upload-image", productHandler.UploadImage)
			}

			admin := products.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.DELETE("", productHandler.DeleteAllProducts)
				admin.POST("/delete-selected", productHandler.DeleteSelectedProducts)
			}
		}

		// Secondary (homemade ingredient) routes
		secondary := v1.Group("/secondary")
		secondary.Use(middleware.AuthRequired())
		{
			secondary.GET("", homemadeHandler.ListHomemade)
			secondary.POST("", homemadeHandler.CreateHomemade)
			secondary.GET("/:id", homemadeHandler.GetHomemade)
			secondary.PUT("/:id", homemadeHandler.UpdateHomemade)
			secondary.DELETE("/:id", homemadeHandler.DeleteHomemade)
			secondary.POST("/:id/items", homemadeHandler.LinkIngredient)
			secondary.DELETE("/items/:id", homemadeHandler.UnlinkItem)
		}

		// Recipe routes
		recipes := v1.Group("/recipes")
		{
			// Code lookups stay readable without a login so menus can be
			// shared by link.
			recipes.GET("/code/:code", middleware.OptionalAuth(), recipeHandler.GetRecipeByCode)

			protected := recipes.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("", recipeHandler.SearchRecipes)
				protected.POST("", recipeHandler.CreateRecipe)
				protected.GET("/categories", recipeHandler.ListCategories)
				protected.GET("/:id", recipeHandler.GetRecipe)
				protected.PUT("/:id", recipeHandler.UpdateRecipe)
				protected.DELETE("/:id", recipeHandler.DeleteRecipe)
				protected.GET("/:id/batch", recipeHandler.BatchSummary)

				upload := protected.Group("")
				upload.Use(middleware.UploadRateLimit())
				{
					upload.POST("/:id/upload-image", recipeHandler.UploadImage)
				}
			}
		}
	}

	// Serve uploaded files locally in development
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}
