// internal/handlers/homemade.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/barbuddy/barbuddy-backend/internal/services"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

type HomemadeHandler struct {
	homemadeService *services.HomemadeService
}

func NewHomemadeHandler(homemadeService *services.HomemadeService) *HomemadeHandler {
	return &HomemadeHandler{
		homemadeService: homemadeService,
	}
}

// GET /secondary
func (h *HomemadeHandler) ListHomemade(c *gin.Context) {
	rows, err := h.homemadeService.ListHomemade()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items": rows,
		"count": len(rows),
	})
}

// POST /secondary
func (h *HomemadeHandler) CreateHomemade(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateHomemadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	homemade, err := h.homemadeService.CreateHomemade(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNoValidLines) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, homemade)
}

// GET /secondary/:id
func (h *HomemadeHandler) GetHomemade(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.homemadeService.GetHomemadeDetail(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Homemade ingredient")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, detail)
}

// PUT /secondary/:id
func (h *HomemadeHandler) UpdateHomemade(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateHomemadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	homemade, err := h.homemadeService.UpdateHomemade(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNoValidLines) {
			utils.UnprocessableResponse(c, err.Error(), nil)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Homemade ingredient")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, homemade)
}

// DELETE /secondary/:id
func (h *HomemadeHandler) DeleteHomemade(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.homemadeService.DeleteHomemade(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Homemade ingredient")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Homemade ingredient deleted"})
}

// POST /secondary/:id/items
func (h *HomemadeHandler) LinkIngredient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.LinkIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, err := h.homemadeService.LinkIngredient(id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Homemade ingredient")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, item)
}

// DELETE /secondary/items/:id
func (h *HomemadeHandler) UnlinkItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.homemadeService.UnlinkItem(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Ingredient item")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Ingredient removed"})
}
