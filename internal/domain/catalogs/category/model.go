// Package category provides the hierarchical material category catalog.
package category

import (
	"voltstock/internal/core/entity"
)

// Category groups materials for reporting and navigation.
type Category struct {
	entity.Catalog

	// Description is an optional note
	Description *string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a new Category.
func NewCategory(code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(code, name),
	}
}
