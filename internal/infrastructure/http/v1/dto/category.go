package dto

import (
	"voltstock/internal/core/entity"
	"voltstock/internal/domain/catalogs/category"
)

// CreateCategoryRequest for creating a category.
type CreateCategoryRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	ParentID    *string           `json:"parentId"`
	IsFolder    bool              `json:"isFolder"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts the request to a Category.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Code, r.Name)
	c.ParentID = r.ParentID
	c.IsFolder = r.IsFolder
	c.Description = r.Description
	if r.Attributes != nil {
		c.Attributes = r.Attributes
	}
	return c
}

// UpdateCategoryRequest for updating a category.
type UpdateCategoryRequest struct {
	Name        *string           `json:"name"`
	ParentID    *string           `json:"parentId"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing Category.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.ParentID != nil {
		c.ParentID = r.ParentID
	}
	if r.Description != nil {
		c.Description = r.Description
	}
	if r.Attributes != nil {
		c.Attributes = r.Attributes
	}
	c.Version = r.Version
}

// CategoryResponse for category output.
type CategoryResponse struct {
	CatalogResponse
	Description *string `json:"description,omitempty"`
}

// FromCategory converts a Category to response.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Description:     c.Description,
	}
}

// FromCategories converts a slice of categories.
func FromCategories(items []*category.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCategory(c))
	}
	return out
}
