package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/domain/registers/stockrecord"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// StockRecordHandler handles the read side of the movement log.
type StockRecordHandler struct {
	*BaseHandler
	service *stockrecord.Service
}

// NewStockRecordHandler creates a new movement-log handler.
func NewStockRecordHandler(base *BaseHandler, service *stockrecord.Service) *StockRecordHandler {
	return &StockRecordHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /registers/stock-records
func (h *StockRecordHandler) List(c *gin.Context) {
	var query dto.StockRecordQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByOrder handles GET /registers/stock-records/order/:id - all ledger
// lines created by one order.
func (h *StockRecordHandler) GetByOrder(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	records, err := h.service.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
