package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/domain"
	"voltstock/internal/domain/documents/inbound"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// InboundHandler handles inbound (receiving) order endpoints.
type InboundHandler struct {
	*BaseDocumentHandler[*inbound.Order, dto.CreateInboundRequest, dto.UpdateInboundRequest]
	service *inbound.Service
}

// NewInboundHandler creates a new inbound order handler.
func NewInboundHandler(base *BaseHandler, service *inbound.Service) *InboundHandler {
	return &InboundHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*inbound.Order, dto.CreateInboundRequest, dto.UpdateInboundRequest]{
			Service:    service,
			EntityName: "inbound order",
			MapCreateDTO: func(req dto.CreateInboundRequest, operator string) (*inbound.Order, error) {
				return req.ToEntity(operator)
			},
			MapUpdateDTO: func(req dto.UpdateInboundRequest, existing *inbound.Order) error {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(doc *inbound.Order) any {
				return dto.FromInboundOrder(doc)
			},
		}),
		service: service,
	}
}

// List handles GET /document/inbound
func (h *InboundHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.InboundListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := inbound.ListFilter{
		ListFilter: domain.DefaultListFilter(),
		DateFrom:   query.DateFrom,
		DateTo:     query.DateTo,
	}
	filter.Search = query.Search
	filter.Limit = query.PageSize
	filter.Offset = query.Offset()

	if query.Status != "" {
		status := entity.DocumentStatus(query.Status)
		filter.Status = &status
	}
	if query.OrderType != "" {
		orderType := inbound.OrderType(query.OrderType)
		filter.OrderType = &orderType
	}
	if query.WarehouseType != "" {
		warehouseType := entity.WarehouseType(query.WarehouseType)
		filter.WarehouseType = &warehouseType
	}
	if query.SupplierID != nil {
		supplierID, err := id.Parse(*query.SupplierID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplierId format"))
			return
		}
		filter.SupplierID = &supplierID
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromInboundOrders(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
