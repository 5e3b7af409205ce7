package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/domain"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles material catalog endpoints.
type MaterialHandler struct {
	*CatalogHandler[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]
	service *material.Service
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	return &MaterialHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*material.Material, dto.CreateMaterialRequest, dto.UpdateMaterialRequest]{
			Service:    service.CatalogService,
			EntityName: "material",
			MapCreateDTO: func(req dto.CreateMaterialRequest) *material.Material {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateMaterialRequest, existing *material.Material) *material.Material {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO: func(m *material.Material) any {
				return dto.FromMaterial(m)
			},
		}),
		service: service,
	}
}

// LowStock handles GET /materials/low-stock - materials below their minimum.
func (h *MaterialHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindLowStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromMaterials(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
