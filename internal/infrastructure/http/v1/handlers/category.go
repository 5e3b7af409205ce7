package handlers

import (
	"voltstock/internal/domain/catalogs/category"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles category catalog endpoints.
type CategoryHandler = CatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
		Service:    service.CatalogService,
		EntityName: "category",
		MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(c *category.Category) any {
			return dto.FromCategory(c)
		},
	})
}
