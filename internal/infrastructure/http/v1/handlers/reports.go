package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/domain/reports"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles workshop balance and warehouse reporting.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// WorkshopBalance handles GET /reports/workshop-balance - per department
// and material, how far actual issues run ahead of or behind plan.
func (h *ReportsHandler) WorkshopBalance(c *gin.Context) {
	var query dto.WorkshopBalanceQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("error", err.Error()))
		return
	}

	report, err := h.service.CalculateWorkshopBalance(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// DepartmentBalance handles GET /reports/department-balance - all
// material balances for one department.
func (h *ReportsHandler) DepartmentBalance(c *gin.Context) {
	var query dto.DepartmentBalanceQuery
	if !h.BindQuery(c, &query) {
		return
	}

	var departmentID *id.ID
	if query.DepartmentID != nil {
		parsed, err := id.Parse(*query.DepartmentID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid departmentId format"))
			return
		}
		departmentID = &parsed
	}

	if departmentID == nil && query.DepartmentName == "" {
		h.Error(c, apperror.NewValidation("departmentId or departmentName is required"))
		return
	}

	balance, err := h.service.GetDepartmentMaterialBalance(c.Request.Context(), departmentID, query.DepartmentName)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// StockReference handles GET /reports/stock-reference - the single
// material lookup shown next to the issue form.
func (h *ReportsHandler) StockReference(c *gin.Context) {
	var query dto.StockReferenceQuery
	if !h.BindQuery(c, &query) {
		return
	}

	materialID, err := id.Parse(query.MaterialID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid materialId format"))
		return
	}

	var departmentID *id.ID
	if query.DepartmentID != nil {
		parsed, err := id.Parse(*query.DepartmentID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid departmentId format"))
			return
		}
		departmentID = &parsed
	}

	reference, err := h.service.GetWorkshopStockReference(c.Request.Context(), materialID, departmentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, reference)
}

// WarehouseStats handles GET /reports/warehouse-stats - per-warehouse
// material counts, quantities and valuation.
func (h *ReportsHandler) WarehouseStats(c *gin.Context) {
	stats, err := h.service.GetWarehouseStats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warehouses": stats})
}
