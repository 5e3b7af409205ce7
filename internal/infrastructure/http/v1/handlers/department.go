package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// DepartmentHandler handles department catalog endpoints.
type DepartmentHandler struct {
	*CatalogHandler[*department.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest]
	service *department.Service
}

// NewDepartmentHandler creates a new department handler.
func NewDepartmentHandler(base *BaseHandler, service *department.Service) *DepartmentHandler {
	return &DepartmentHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*department.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest]{
			Service:    service.CatalogService,
			EntityName: "department",
			MapCreateDTO: func(req dto.CreateDepartmentRequest) *department.Department {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateDepartmentRequest, existing *department.Department) *department.Department {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO: func(d *department.Department) any {
				return dto.FromDepartment(d)
			},
		}),
		service: service,
	}
}

// ListProduction handles GET /departments/production - workshops only.
func (h *DepartmentHandler) ListProduction(c *gin.Context) {
	items, err := h.service.ListProduction(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromDepartments(items)})
}
