package audit

import (
	"fmt"
	"strings"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// Category names a fixed set of checks.
type Category string

const (
	Performance Category = "performance"
	Security    Category = "security"
)

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{Performance, Security}
}

// ParseCategory parses a category name. "all" or "" selects every category.
func ParseCategory(s string) ([]Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return Categories(), nil
	case string(Performance):
		return []Category{Performance}, nil
	case string(Security):
		return []Category{Security}, nil
	}
	return nil, fmt.Errorf("%w: %q (must be all, performance, or security)", sharederrors.ErrUnknownCategory, s)
}

// Title returns a display label for the category.
func (c Category) Title() string {
	switch c {
	case Performance:
		return "Performance"
	case Security:
		return "Security"
	}
	return string(c)
}
