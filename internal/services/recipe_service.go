// internal/services/recipe_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/categories"
	"github.com/barbuddy/barbuddy-backend/internal/costing"
	"github.com/barbuddy/barbuddy-backend/internal/models"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

type RecipeService struct {
	db *gorm.DB
}

// RecipeLineRequest is one submitted recipe line. IngredientType accepts
// "Product", "Secondary" or "Homemade" (synonyms), and "Recipe" for nesting.
// An empty type is resolved by probing products first, then homemade
// ingredients.
type RecipeLineRequest struct {
	IngredientType string  `json:"ingredient_type,omitempty" validate:"omitempty,oneof=Product Secondary Homemade Recipe"`
	IngredientID   uint    `json:"ingredient_id" validate:"required"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit,omitempty"`
}

type CreateRecipeRequest struct {
	Title                 string              `json:"title" validate:"required,min=2,max=150"`
	Category              string              `json:"category,omitempty"`
	Method                string              `json:"method,omitempty"`
	Garnish               string              `json:"garnish,omitempty"`
	SellingPrice          float64             `json:"selling_price" validate:"min=0"`
	VATPercentage         float64             `json:"vat_percentage" validate:"min=0"`
	ServiceChargePercent  float64             `json:"service_charge_percentage" validate:"min=0"`
	GovernmentFeesPercent float64             `json:"government_fees_percentage" validate:"min=0"`
	Tags                  []string            `json:"tags,omitempty"`
	Lines                 []RecipeLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type UpdateRecipeRequest struct {
	Title                 string              `json:"title" validate:"required,min=2,max=150"`
	Category              string              `json:"category,omitempty"`
	Method                string              `json:"method,omitempty"`
	Garnish               string              `json:"garnish,omitempty"`
	SellingPrice          float64             `json:"selling_price" validate:"min=0"`
	VATPercentage         float64             `json:"vat_percentage" validate:"min=0"`
	ServiceChargePercent  float64             `json:"service_charge_percentage" validate:"min=0"`
	GovernmentFeesPercent float64             `json:"government_fees_percentage" validate:"min=0"`
	Tags                  []string            `json:"tags,omitempty"`
	Lines                 []RecipeLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type RecipeSearchParams struct {
	utils.PaginationParams
	Tags []string
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) CreateRecipe(userID uint, req *CreateRecipeRequest) (*models.Recipe, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	canonical, cfg := categories.Resolve(req.Category)

	var created *models.Recipe
	err := s.db.Transaction(func(tx *gorm.DB) error {
		recipe := &models.Recipe{
			RecipeCode:            nextRecipeCode(tx),
			Title:                 req.Title,
			Method:                req.Method,
			Garnish:               req.Garnish,
			RecipeType:            cfg.AddLabel,
			Type:                  string(canonical),
			ItemLevel:             models.ItemLevelPrimary,
			UserID:                userID,
			SellingPrice:          req.SellingPrice,
			VATPercentage:         req.VATPercentage,
			ServiceChargePercent:  req.ServiceChargePercent,
			GovernmentFeesPercent: req.GovernmentFeesPercent,
			Tags:                  pq.StringArray(req.Tags),
		}
		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		added, err := s.insertLines(tx, recipe.ID, req.Lines)
		if err != nil {
			return err
		}
		if added == 0 {
			return ErrNoValidLines
		}

		created = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(created.ID)
}

func (s *RecipeService) UpdateRecipe(id uint, req *UpdateRecipeRequest) (*models.Recipe, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	canonical, cfg := categories.Resolve(req.Category)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("recipe not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{
			"title":                      req.Title,
			"method":                     req.Method,
			"garnish":                    req.Garnish,
			"recipe_type":                cfg.AddLabel,
			"type":                       string(canonical),
			"selling_price":              req.SellingPrice,
			"vat_percentage":             req.VATPercentage,
			"service_charge_percentage":  req.ServiceChargePercent,
			"government_fees_percentage": req.GovernmentFeesPercent,
			"tags":                       pq.StringArray(req.Tags),
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		// Replace the lines atomically; the delete only sticks if the new
		// set yields at least one valid line.
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe lines: %w", err)
		}

		added, err := s.insertLines(tx, id, req.Lines)
		if err != nil {
			return err
		}
		if added == 0 {
			return ErrNoValidLines
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(id)
}

// insertLines persists submitted lines, skipping lines with non-positive
// quantities or references that resolve to nothing. A recipe line may not
// reference its own recipe.
func (s *RecipeService) insertLines(tx *gorm.DB, recipeID uint, lines []RecipeLineRequest) (int, error) {
	added := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		kind, ok := s.resolveLineKind(tx, &line)
		if !ok {
			continue
		}
		if kind == models.IngredientKindRecipe && line.IngredientID == recipeID {
			continue
		}

		unit := sellingUnitOrDefault(line.Unit)
		quantityML := line.Quantity
		if unit != models.SellingUnitML && kind == models.IngredientKindProduct {
			var product models.Product
			if err := tx.First(&product, line.IngredientID).Error; err == nil {
				if product.MlInBottle > 0 {
					quantityML = line.Quantity * product.MlInBottle
				}
			}
		}
		if quantityML <= 0 {
			quantityML = line.Quantity
		}

		qty := line.Quantity
		ingredient := &models.RecipeIngredient{
			RecipeID:       recipeID,
			IngredientType: kind,
			IngredientID:   line.IngredientID,
			Quantity:       &qty,
			Unit:           unit,
			QuantityML:     &quantityML,
			ProductType:    string(kind),
			ProductID:      line.IngredientID,
		}
		if err := tx.Create(ingredient).Error; err != nil {
			return 0, fmt.Errorf("failed to add recipe line: %w", err)
		}
		added++
	}
	return added, nil
}

func (s *RecipeService) resolveLineKind(tx *gorm.DB, line *RecipeLineRequest) (models.IngredientKind, bool) {
	switch line.IngredientType {
	case "Product":
		if err := tx.First(&models.Product{}, line.IngredientID).Error; err != nil {
			return "", false
		}
		return models.IngredientKindProduct, true
	case "Secondary", "Homemade":
		if err := tx.First(&models.HomemadeIngredient{}, line.IngredientID).Error; err != nil {
			return "", false
		}
		return models.IngredientKindHomemade, true
	case "Recipe":
		if err := tx.First(&models.Recipe{}, line.IngredientID).Error; err != nil {
			return "", false
		}
		return models.IngredientKindRecipe, true
	default:
		// Untyped legacy submissions: probe products first, then homemade.
		if err := tx.First(&models.Product{}, line.IngredientID).Error; err == nil {
			return models.IngredientKindProduct, true
		}
		if err := tx.First(&models.HomemadeIngredient{}, line.IngredientID).Error; err == nil {
			return models.IngredientKindHomemade, true
		}
		return "", false
	}
}

func (s *RecipeService) GetRecipe(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Preload("Ingredients").Preload("Creator").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("recipe not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) GetRecipeByCode(code string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Preload("Ingredients").Preload("Creator").Where("recipe_code = ?", code).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("recipe not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) DeleteRecipe(id uint) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("recipe not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe lines: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

func (s *RecipeService) SearchRecipes(params RecipeSearchParams) ([]models.Recipe, int64, error) {
	query := s.db.Model(&models.Recipe{}).Preload("Ingredients")

	if params.Category != "" {
		canonical, cfg := categories.Resolve(params.Category)
		query = query.Where("type = ? OR recipe_type IN ?", string(canonical), cfg.DBLabels)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(recipe_code) LIKE ?", searchTerm, searchTerm)
	}
	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.Array(params.Tags))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "selling_price", "recipe_code"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	return recipes, total, nil
}

// CategoryInfo is the public shape of a recipe category.
type CategoryInfo struct {
	Slug     string   `json:"slug"`
	Display  string   `json:"display"`
	AddLabel string   `json:"add_label"`
	DBLabels []string `json:"db_labels"`
}

func (s *RecipeService) ListCategories() []CategoryInfo {
	all := categories.All()
	infos := make([]CategoryInfo, 0, len(all))
	for _, c := range all {
		cfg := categories.Lookup(c)
		infos = append(infos, CategoryInfo{
			Slug:     string(c),
			Display:  cfg.Display,
			AddLabel: cfg.AddLabel,
			DBLabels: cfg.DBLabels,
		})
	}
	return infos
}

func (s *RecipeService) SetImagePath(id uint, path string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("recipe not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.Model(&recipe).Update("image_path", path).Error; err != nil {
		return nil, fmt.Errorf("failed to update image path: %w", err)
	}
	return &recipe, nil
}

// RecipeCostView is the costed representation returned alongside a recipe.
type RecipeCostView struct {
	Recipe         *models.Recipe     `json:"recipe"`
	Lines          []costing.LineCost `json:"lines"`
	TotalCost      float64            `json:"total_cost"`
	Unresolved     int                `json:"unresolved"`
	SellingPrice   float64            `json:"selling_price"`
	BasePrice      float64            `json:"base_price"`
	CostPercentage *float64           `json:"cost_percentage"`
}

func (s *RecipeService) CostRecipe(recipe *models.Recipe) (*RecipeCostView, error) {
	resolver := costing.NewResolver(s.db)
	cost, err := resolver.RecipeCost(recipe)
	if err != nil {
		return nil, err
	}
	return &RecipeCostView{
		Recipe:         recipe,
		Lines:          cost.Lines,
		TotalCost:      cost.Total,
		Unresolved:     cost.Unresolved,
		SellingPrice:   recipe.SellingPrice,
		BasePrice:      costing.BasePrice(recipe),
		CostPercentage: costing.CostPercentage(recipe, cost.Total),
	}, nil
}

func (s *RecipeService) BatchSummary(recipe *models.Recipe) map[string]float64 {
	return costing.NewResolver(s.db).BatchSummary(recipe)
}

// nextRecipeCode derives the next sequential REC code, probing past codes
// already taken. After too many collisions it falls back to a timestamp.
func nextRecipeCode(tx *gorm.DB) string {
	var count int64
	tx.Model(&models.Recipe{}).Unscoped().Count(&count)

	for attempt := 0; attempt < 100; attempt++ {
		code := utils.FormatRecipeCode(int(count) + attempt + 1)
		var existing models.Recipe
		if err := tx.Unscoped().Where("recipe_code = ?", code).First(&existing).Error; err != nil {
			return code
		}
	}
	return "REC-" + time.Now().Format("20060102150405")
}
