// internal/services/homemade_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/costing"
	"github.com/barbuddy/barbuddy-backend/internal/models"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

// ErrNoValidLines rejects a homemade ingredient whose submitted composition
// contains no line with a resolvable source and a positive quantity.
var ErrNoValidLines = errors.New("at least one valid ingredient line is required")

type HomemadeService struct {
	db *gorm.DB
}

// HomemadeLineRequest is one submitted composition line. SourceType is
// "Product" for a catalog product or "Secondary" for another homemade
// ingredient, which gets flattened into its product components on save.
type HomemadeLineRequest struct {
	SourceType string  `json:"source_type" validate:"required,oneof=Product Secondary"`
	SourceID   uint    `json:"source_id" validate:"required"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit,omitempty"`
}

type CreateHomemadeRequest struct {
	Name          string                `json:"name" validate:"required,min=2,max=150"`
	TotalVolumeML float64               `json:"total_volume_ml" validate:"required,gt=0"`
	Unit          string                `json:"unit,omitempty"`
	Method        string                `json:"method,omitempty"`
	Lines         []HomemadeLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type UpdateHomemadeRequest struct {
	Name          string                `json:"name" validate:"required,min=2,max=150"`
	TotalVolumeML float64               `json:"total_volume_ml" validate:"required,gt=0"`
	Unit          string                `json:"unit,omitempty"`
	Method        string                `json:"method,omitempty"`
	Lines         []HomemadeLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// HomemadeSummary is one listing row with derived costs.
type HomemadeSummary struct {
	ID            uint    `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	TotalVolumeML float64 `json:"total_volume_ml"`
	TotalCost     float64 `json:"total_cost"`
	UnitCost      float64 `json:"unit_cost"`
	ItemLevel     string  `json:"item_level"`
}

func NewHomemadeService(db *gorm.DB) *HomemadeService {
	return &HomemadeService{db: db}
}

func (s *HomemadeService) CreateHomemade(userID uint, req *CreateHomemadeRequest) (*models.HomemadeIngredient, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var created *models.HomemadeIngredient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		homemade := &models.HomemadeIngredient{
			Name:          req.Name,
			UniqueCode:    nextSecondaryCode(tx),
			CreatedBy:     &userID,
			TotalVolumeML: req.TotalVolumeML,
			Unit:          sellingUnitOrDefault(req.Unit),
			Method:        req.Method,
		}
		if err := tx.Create(homemade).Error; err != nil {
			return fmt.Errorf("failed to create homemade ingredient: %w", err)
		}

		added, err := s.insertLines(tx, homemade.ID, req.Lines)
		if err != nil {
			return err
		}
		if added == 0 {
			return ErrNoValidLines
		}

		created = homemade
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetHomemade(created.ID)
}

func (s *HomemadeService) UpdateHomemade(id uint, req *UpdateHomemadeRequest) (*models.HomemadeIngredient, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var homemade models.HomemadeIngredient
		if err := tx.First(&homemade, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("homemade ingredient not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := map[string]interface{}{
			"name":            req.Name,
			"total_volume_ml": req.TotalVolumeML,
			"unit":            sellingUnitOrDefault(req.Unit),
			"method":          req.Method,
		}
		if err := tx.Model(&homemade).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update homemade ingredient: %w", err)
		}

		// Replace the composition atomically: old lines go away only if the
		// new set yields at least one valid line.
		if err := tx.Unscoped().Where("homemade_id = ?", id).Delete(&models.HomemadeIngredientItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear composition: %w", err)
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

	return s.GetHomemade(id)
}

// insertLines materializes submitted lines as product-level items. Lines
// referencing another homemade ingredient are flattened: each of its product
// components is scaled by the used share of the source batch.
func (s *HomemadeService) insertLines(tx *gorm.DB, homemadeID uint, lines []HomemadeLineRequest) (int, error) {
	added := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		switch line.SourceType {
		case "Secondary":
			var source models.HomemadeIngredient
			if err := tx.Preload("Items").First(&source, line.SourceID).Error; err != nil {
				continue
			}
			if source.ID == homemadeID || source.TotalVolumeML <= 0 {
				continue
			}
			factor := line.Quantity / source.TotalVolumeML
			for _, component := range source.Items {
				scaled := component.Quantity * factor
				if scaled <= 0 || component.ProductID == 0 {
					continue
				}
				unit := component.Unit
				if unit == "" {
					unit = sellingUnitOrDefault(line.Unit)
				}
				item := &models.HomemadeIngredientItem{
					HomemadeID: homemadeID,
					ProductID:  component.ProductID,
					Quantity:   scaled,
					Unit:       unit,
					QuantityML: scaled,
				}
				if err := tx.Create(item).Error; err != nil {
					return 0, fmt.Errorf("failed to add composition line: %w", err)
				}
				added++
			}
		default:
			var product models.Product
			if err := tx.First(&product, line.SourceID).Error; err != nil {
				continue
			}
			item := &models.HomemadeIngredientItem{
				HomemadeID: homemadeID,
				ProductID:  product.ID,
				Quantity:   line.Quantity,
				Unit:       sellingUnitOrDefault(line.Unit),
				QuantityML: line.Quantity,
			}
			if err := tx.Create(item).Error; err != nil {
				return 0, fmt.Errorf("failed to add composition line: %w", err)
			}
			added++
		}
	}
	return added, nil
}

// HomemadeDetail is the detail payload: the full entity with its derived
// batch cost and per-ml cost.
type HomemadeDetail struct {
	*models.HomemadeIngredient
	TotalCost float64 `json:"total_cost"`
	UnitCost  float64 `json:"unit_cost"`
}

func (s *HomemadeService) GetHomemadeDetail(id uint) (*HomemadeDetail, error) {
	homemade, err := s.GetHomemade(id)
	if err != nil {
		return nil, err
	}
	resolver := costing.NewResolver(s.db)
	return &HomemadeDetail{
		HomemadeIngredient: homemade,
		TotalCost:          resolver.HomemadeTotalCost(homemade),
		UnitCost:           resolver.HomemadeCostPerUnit(homemade),
	}, nil
}

func (s *HomemadeService) GetHomemade(id uint) (*models.HomemadeIngredient, error) {
	var homemade models.HomemadeIngredient
	if err := s.db.Preload("Items.Product").First(&homemade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("homemade ingredient not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &homemade, nil
}

func (s *HomemadeService) ListHomemade() ([]HomemadeSummary, error) {
	var homemades []models.HomemadeIngredient
	if err := s.db.Preload("Items.Product").Order("name").Find(&homemades).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch homemade ingredients: %w", err)
	}

	resolver := costing.NewResolver(s.db)
	rows := make([]HomemadeSummary, 0, len(homemades))
	for i := range homemades {
		h := &homemades[i]
		code := h.UniqueCode
		if code == "" {
			code = utils.FormatSecondaryCode(int(h.ID))
		}
		rows = append(rows, HomemadeSummary{
			ID:            h.ID,
			Code:          code,
			Name:          h.Name,
			Unit:          string(h.Unit),
			TotalVolumeML: h.TotalVolumeML,
			TotalCost:     resolver.HomemadeTotalCost(h),
			UnitCost:      resolver.HomemadeCostPerUnit(h),
			ItemLevel:     string(models.ItemLevelSecondary),
		})
	}
	return rows, nil
}

func (s *HomemadeService) DeleteHomemade(id uint) error {
	var homemade models.HomemadeIngredient
	if err := s.db.First(&homemade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("homemade ingredient not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("homemade_id = ?", id).Delete(&models.HomemadeIngredientItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete composition: %w", err)
		}
		if err := tx.Delete(&homemade).Error; err != nil {
			return fmt.Errorf("failed to delete homemade ingredient: %w", err)
		}
		return nil
	})
}

type LinkIngredientRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Unit      string  `json:"unit,omitempty"`
}

// LinkIngredient adds a product line to an existing homemade ingredient, or
// updates the quantity when the product is already linked.
func (s *HomemadeService) LinkIngredient(homemadeID uint, req *LinkIngredientRequest) (*models.HomemadeIngredientItem, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var homemade models.HomemadeIngredient
	if err := s.db.First(&homemade, homemadeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("homemade ingredient not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var item models.HomemadeIngredientItem
	err := s.db.Where("homemade_id = ? AND product_id = ?", homemadeID, req.ProductID).First(&item).Error
	if err == nil {
		item.Quantity = req.Quantity
		item.Unit = sellingUnitOrDefault(req.Unit)
		item.QuantityML = req.Quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update linked ingredient: %w", err)
		}
		return &item, nil
	}

	item = models.HomemadeIngredientItem{
		HomemadeID: homemadeID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Unit:       sellingUnitOrDefault(req.Unit),
		QuantityML: req.Quantity,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to link ingredient: %w", err)
	}
	return &item, nil
}

func (s *HomemadeService) UnlinkItem(itemID uint) error {
	var item models.HomemadeIngredientItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("ingredient item not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if err := s.db.Unscoped().Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to remove ingredient item: %w", err)
	}
	return nil
}

// nextSecondaryCode finds the next free SEC code, stepping past collisions
// left by deleted rows. After too many collisions it falls back to a
// timestamp-based code.
func nextSecondaryCode(tx *gorm.DB) string {
	var maxID uint
	tx.Model(&models.HomemadeIngredient{}).Unscoped().Select("COALESCE(MAX(id), 0)").Scan(&maxID)

	for counter := 1; counter <= 1000; counter++ {
		code := utils.FormatSecondaryCode(int(maxID) + counter)
		var existing models.HomemadeIngredient
		if err := tx.Unscoped().Where("unique_code = ?", code).First(&existing).Error; err != nil {
			return code
		}
	}
	return fmt.Sprintf("SEC-%d", time.Now().Unix())
}
