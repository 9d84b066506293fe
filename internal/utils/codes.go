// internal/utils/codes.go
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueItemNumber produces an opaque catalog identifier such as
// ITEM-3FA85F64.
func GenerateUniqueItemNumber() string {
	return "ITEM-" + strings.ToUpper(uuid.New().String()[:8])
}

// FormatProductCode renders the sequential internal product code (BB001,
// BB002, ...).
func FormatProductCode(seq int) string {
	return fmt.Sprintf("BB%03d", seq)
}

// FormatSecondaryCode renders the sequential code for secondary-level items.
func FormatSecondaryCode(seq int) string {
	return fmt.Sprintf("SEC-%04d", seq)
}

// FormatRecipeCode renders the sequential recipe code.
func FormatRecipeCode(seq int) string {
	return fmt.Sprintf("REC-%04d", seq)
}
