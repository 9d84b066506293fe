// internal/handlers/recipe.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/barbuddy/barbuddy-backend/internal/costing"
	"github.com/barbuddy/barbuddy-backend/internal/services"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

type RecipeHandler struct {
	recipeService  *services.RecipeService
	storageService *services.StorageService
}

func NewRecipeHandler(recipeService *services.RecipeService, storageService *services.StorageService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:  recipeService,
		storageService: storageService,
	}
}

// POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNoValidLines) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, recipe)
}

// GET /recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	view, err := h.recipeService.CostRecipe(recipe)
	if err != nil {
		if errors.Is(err, costing.ErrIngredientCycle) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, view)
}

// GET /recipes/code/:code
func (h *RecipeHandler) GetRecipeByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		utils.BadRequestResponse(c, "Recipe code is required", nil)
		return
	}

	recipe, err := h.recipeService.GetRecipeByCode(code)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	view, err := h.recipeService.CostRecipe(recipe)
	if err != nil {
		if errors.Is(err, costing.ErrIngredientCycle) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNoValidLines) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, recipe)
}

// DELETE /recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Recipe deleted"})
}

// GET /recipes
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	params := services.RecipeSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if tags := c.Query("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}

	recipes, total, err := h.recipeService.SearchRecipes(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(recipes, total, params.PaginationParams))
}

// GET /recipes/categories
func (h *RecipeHandler) ListCategories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": h.recipeService.ListCategories(),
	})
}

// GET /recipes/:id/batch
func (h *RecipeHandler) BatchSummary(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"recipe_id": recipe.ID,
		"summary":   h.recipeService.BatchSummary(recipe),
	})
}

// POST /recipes/:id/upload-image
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("recipes"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	recipe, err := h.recipeService.SetImagePath(id, result.Key)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Recipe")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"recipe": recipe,
		"upload": result,
	})
}
