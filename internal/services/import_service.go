// internal/services/import_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/barbuddy/barbuddy-backend/internal/models"
)

type ImportService struct {
	db *gorm.DB
}

// ImportResult reports how many spreadsheet rows became products and how
// many were skipped.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

var requiredImportColumns = []string{"DESCRIPTION", "SUPPLIER", "CATEGORY", "COST/UNIT (AED)"}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// ImportProducts loads an xlsx workbook and creates one product per usable
// row of the first sheet. Rows without a description are skipped; missing
// optional cells fall back to catalog defaults. Codes and item numbers are
// taken from the sheet when unique, generated otherwise.
func (s *ImportService) ImportProducts(r io.Reader) (*ImportResult, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel file: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet is empty")
	}

	// Header lookup is case- and whitespace-insensitive.
	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToUpper(strings.TrimSpace(header))] = i
	}

	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{}
	var baseCount int64
	s.db.Model(&models.Product{}).Count(&baseCount)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows[1:] {
			product, ok := s.rowToProduct(tx, row, columns, int(baseCount)+result.Created+1)
			if !ok {
				result.Skipped++
				continue
			}
			if err := tx.Create(product).Error; err != nil {
				result.Skipped++
				continue
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save imported products: %w", err)
	}

	return result, nil
}

func (s *ImportService) rowToProduct(tx *gorm.DB, row []string, columns map[string]int, seq int) (*models.Product, bool) {
	description := cellValue(row, columns, "DESCRIPTION", "")
	if description == "" {
		return nil, false
	}

	supplier := cellValue(row, columns, "SUPPLIER", "N/A")
	if supplier == "" {
		supplier = "N/A"
	}
	category := cellValue(row, columns, "CATEGORY", "Other")
	if category == "" {
		category = "Other"
	}
	subCategory := cellValue(row, columns, "SUB CATEGORY", "Other")
	if subCategory == "" {
		subCategory = "Other"
	}

	itemLevel := itemLevelOrDefault(cellValue(row, columns, "ITEM LEVEL", "Primary"))
	unit := cellValue(row, columns, "UNIT", "each")

	costPerUnit, err := strconv.ParseFloat(cellValue(row, columns, "COST/UNIT (AED)", "0"), 64)
	if err != nil {
		costPerUnit = 0
	}

	var mlInBottle float64
	if raw := cellValue(row, columns, "QUANTITY", ""); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			mlInBottle = v
		}
	}

	// Sheet-provided identifiers are honored only when still free.
	uniqueItemNumber := cellValue(row, columns, "UNIQUE ITEM #", "")
	if uniqueItemNumber != "" {
		var existing models.Product
		if err := tx.Where("unique_item_number = ?", uniqueItemNumber).First(&existing).Error; err == nil {
			uniqueItemNumber = ""
		}
	}
	if uniqueItemNumber == "" {
		uniqueItemNumber = fmt.Sprintf("ITEM-%06d", seq)
	}

	code := cellValue(row, columns, "CODE", "")
	if code != "" {
		var existing models.Product
		if err := tx.Where("code = ?", code).First(&existing).Error; err == nil {
			code = ""
		}
	}
	if code == "" {
		code = fmt.Sprintf("BB%03d", seq)
	}

	return &models.Product{
		UniqueItemNumber: uniqueItemNumber,
		Supplier:         supplier,
		Code:             code,
		Description:      description,
		Category:         category,
		SubCategory:      subCategory,
		ItemLevel:        itemLevel,
		MlInBottle:       mlInBottle,
		SellingUnit:      sellingUnitOrDefault(unit),
		CostPerUnit:      costPerUnit,
	}, true
}

func cellValue(row []string, columns map[string]int, name, fallback string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return fallback
	}
	value := strings.TrimSpace(row[idx])
	if value == "" {
		return fallback
	}
	return value
}
