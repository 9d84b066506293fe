// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/costing"
	"github.com/barbuddy/barbuddy-backend/internal/models"
	"github.com/barbuddy/barbuddy-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	UniqueItemNumber    string  `json:"unique_item_number,omitempty"`
	Supplier            string  `json:"supplier,omitempty"`
	Description         string  `json:"description" validate:"required,min=2,max=255"`
	Category            string  `json:"category,omitempty"`
	SubCategory         string  `json:"sub_category,omitempty"`
	ItemLevel           string  `json:"item_level,omitempty"`
	MlInBottle          float64 `json:"ml_in_bottle,omitempty" validate:"omitempty,min=0"`
	ABV                 float64 `json:"abv,omitempty" validate:"omitempty,min=0,max=100"`
	SellingUnit         string  `json:"selling_unit,omitempty"`
	CostPerUnit         float64 `json:"cost_per_unit" validate:"min=0"`
	SupplierProductCode string  `json:"supplier_product_code,omitempty"`
	PurchaseType        string  `json:"purchase_type,omitempty"`
	BottlesPerCase      int     `json:"bottles_per_case,omitempty" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	UniqueItemNumber    *string  `json:"unique_item_number,omitempty"`
	Supplier            *string  `json:"supplier,omitempty"`
	Description         *string  `json:"description,omitempty" validate:"omitempty,min=2,max=255"`
	Category            *string  `json:"category,omitempty"`
	SubCategory         *string  `json:"sub_category,omitempty"`
	ItemLevel           *string  `json:"item_level,omitempty"`
	MlInBottle          *float64 `json:"ml_in_bottle,omitempty" validate:"omitempty,min=0"`
	ABV                 *float64 `json:"abv,omitempty" validate:"omitempty,min=0,max=100"`
	SellingUnit         *string  `json:"selling_unit,omitempty"`
	CostPerUnit         *float64 `json:"cost_per_unit,omitempty" validate:"omitempty,min=0"`
	SupplierProductCode *string  `json:"supplier_product_code,omitempty"`
	PurchaseType        *string  `json:"purchase_type,omitempty"`
	BottlesPerCase      *int     `json:"bottles_per_case,omitempty" validate:"omitempty,min=0"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SubCategory string
	ItemLevel   string
	Supplier    string
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	uniqueItemNumber := strings.TrimSpace(req.UniqueItemNumber)
	if uniqueItemNumber != "" {
		var existing models.Product
		if err := s.db.Where("unique_item_number = ?", uniqueItemNumber).First(&existing).Error; err == nil {
			return nil, errors.New("unique item number already exists")
		}
	} else {
		uniqueItemNumber = utils.GenerateUniqueItemNumber()
	}

	product := &models.Product{
		UniqueItemNumber:    uniqueItemNumber,
		Supplier:            req.Supplier,
		Code:                s.nextProductCode(s.db),
		Description:         req.Description,
		Category:            req.Category,
		SubCategory:         req.SubCategory,
		ItemLevel:           itemLevelOrDefault(req.ItemLevel),
		MlInBottle:          req.MlInBottle,
		ABV:                 req.ABV,
		SellingUnit:         sellingUnitOrDefault(req.SellingUnit),
		CostPerUnit:         req.CostPerUnit,
		SupplierProductCode: req.SupplierProductCode,
		PurchaseType:        purchaseTypeOrDefault(req.PurchaseType),
		BottlesPerCase:      req.BottlesPerCase,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id uint, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.UniqueItemNumber != nil && *req.UniqueItemNumber != product.UniqueItemNumber {
		var existing models.Product
		if err := s.db.Where("unique_item_number = ? AND id <> ?", *req.UniqueItemNumber, id).First(&existing).Error; err == nil {
			return nil, errors.New("unique item number already exists")
		}
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.UniqueItemNumber != nil {
		updates["unique_item_number"] = *req.UniqueItemNumber
	}
	if req.Supplier != nil {
		updates["supplier"] = *req.Supplier
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.SubCategory != nil {
		updates["sub_category"] = *req.SubCategory
	}
	if req.ItemLevel != nil {
		updates["item_level"] = itemLevelOrDefault(*req.ItemLevel)
	}
	if req.MlInBottle != nil {
		updates["ml_in_bottle"] = *req.MlInBottle
	}
	if req.ABV != nil {
		updates["abv"] = *req.ABV
	}
	if req.SellingUnit != nil {
		updates["selling_unit"] = sellingUnitOrDefault(*req.SellingUnit)
	}
	if req.CostPerUnit != nil {
		updates["cost_per_unit"] = *req.CostPerUnit
	}
	if req.SupplierProductCode != nil {
		updates["supplier_product_code"] = *req.SupplierProductCode
	}
	if req.PurchaseType != nil {
		updates["purchase_type"] = purchaseTypeOrDefault(*req.PurchaseType)
	}
	if req.BottlesPerCase != nil {
		updates["bottles_per_case"] = *req.BottlesPerCase
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.First(&product, id)
	return &product, nil
}

func (s *ProductService) DeleteProduct(id uint) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.SubCategory != "" {
		query = query.Where("sub_category = ?", params.SubCategory)
	}
	if params.ItemLevel != "" {
		query = query.Where("item_level = ?", params.ItemLevel)
	}
	if params.Supplier != "" {
		query = query.Where("supplier = ?", params.Supplier)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(description) LIKE ? OR LOWER(supplier) LIKE ? OR LOWER(code) LIKE ? OR LOWER(unique_item_number) LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "description", "supplier", "cost_per_unit", "code"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// MasterItem is one row of the combined catalog: primary products plus
// homemade ingredients, listed together the way the bar browses stock.
type MasterItem struct {
	ID               uint    `json:"id"`
	Source           string  `json:"source"`
	UniqueItemNumber string  `json:"unique_item_number"`
	Code             string  `json:"code,omitempty"`
	Description      string  `json:"description"`
	Supplier         string  `json:"supplier,omitempty"`
	Category         string  `json:"category,omitempty"`
	SubCategory      string  `json:"sub_category,omitempty"`
	SellingUnit      string  `json:"selling_unit"`
	CostPerUnit      float64 `json:"cost_per_unit"`
	CaseCost         float64 `json:"case_cost"`
}

func (s *ProductService) MasterList() ([]MasterItem, error) {
	var products []models.Product
	if err := s.db.Order("code").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var homemades []models.HomemadeIngredient
	if err := s.db.Preload("Items.Product").Order("name").Find(&homemades).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch homemade ingredients: %w", err)
	}

	items := make([]MasterItem, 0, len(products)+len(homemades))
	for _, p := range products {
		num := p.UniqueItemNumber
		if num == "" {
			num = "N/A"
		}
		items = append(items, MasterItem{
			ID:               p.ID,
			Source:           "product",
			UniqueItemNumber: num,
			Code:             p.Code,
			Description:      p.Description,
			Supplier:         p.Supplier,
			Category:         p.Category,
			SubCategory:      p.SubCategory,
			SellingUnit:      string(p.SellingUnit),
			CostPerUnit:      p.CostPerUnit,
			CaseCost:         p.CaseCost(),
		})
	}
	resolver := costing.NewResolver(s.db)
	for i := range homemades {
		h := &homemades[i]
		num := h.UniqueCode
		if num == "" {
			num = "N/A"
		}
		items = append(items, MasterItem{
			ID:               h.ID,
			Source:           "homemade",
			UniqueItemNumber: num,
			Description:      h.Name,
			SubCategory:      "Syrups & Purees",
			SellingUnit:      string(h.Unit),
			CostPerUnit:      resolver.HomemadeCostPerUnit(h),
		})
	}
	return items, nil
}

func (s *ProductService) DeleteAllProducts() (int64, error) {
	result := s.db.Where("1 = 1").Delete(&models.Product{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete products: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *ProductService) DeleteSelectedProducts(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, errors.New("no product ids provided")
	}
	result := s.db.Delete(&models.Product{}, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete products: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *ProductService) SetImagePath(id uint, path string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.db.Model(&product).Update("image_path", path).Error; err != nil {
		return nil, fmt.Errorf("failed to update image path: %w", err)
	}
	return &product, nil
}

// nextProductCode derives the next sequential internal code from the most
// recently created product.
func (s *ProductService) nextProductCode(tx *gorm.DB) string {
	var latest models.Product
	next := 1
	if err := tx.Unscoped().Order("id DESC").First(&latest).Error; err == nil {
		if strings.HasPrefix(latest.Code, "BB") {
			if n, err := strconv.Atoi(latest.Code[2:]); err == nil {
				next = n + 1
			}
		}
	}
	return utils.FormatProductCode(next)
}

func itemLevelOrDefault(level string) models.ItemLevel {
	if strings.EqualFold(level, string(models.ItemLevelSecondary)) {
		return models.ItemLevelSecondary
	}
	return models.ItemLevelPrimary
}

func sellingUnitOrDefault(unit string) models.SellingUnit {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "grams":
		return models.SellingUnitGrams
	case "pieces":
		return models.SellingUnitPieces
	case "ml", "":
		return models.SellingUnitML
	default:
		// Container units (bottle, each, case) all cost per container.
		return models.SellingUnitBottle
	}
}

func purchaseTypeOrDefault(purchaseType string) models.PurchaseType {
	if strings.EqualFold(purchaseType, string(models.PurchaseTypeCase)) {
		return models.PurchaseTypeCase
	}
	return models.PurchaseTypeEach
}
