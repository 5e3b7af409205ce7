package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/domain"
	"voltstock/internal/domain/documents/outbound"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// OutboundHandler handles outbound order endpoints. Generic outbound
// orders only: production issues are created through the issuance
// endpoint and arrive here already confirmed.
type OutboundHandler struct {
	*BaseDocumentHandler[*outbound.Order, dto.CreateOutboundRequest, dto.UpdateOutboundRequest]
	service *outbound.Service
}

// NewOutboundHandler creates a new outbound order handler.
func NewOutboundHandler(base *BaseHandler, service *outbound.Service) *OutboundHandler {
	return &OutboundHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, BaseDocumentHandlerConfig[*outbound.Order, dto.CreateOutboundRequest, dto.UpdateOutboundRequest]{
			Service:    service,
			EntityName: "outbound order",
			MapCreateDTO: func(req dto.CreateOutboundRequest, operator string) (*outbound.Order, error) {
				return req.ToEntity(operator)
			},
			MapUpdateDTO: func(req dto.UpdateOutboundRequest, existing *outbound.Order) error {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(doc *outbound.Order) any {
				return dto.FromOutboundOrder(doc)
			},
		}),
		service: service,
	}
}

// List handles GET /document/outbound
func (h *OutboundHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.OutboundListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := outbound.ListFilter{
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
		orderType := outbound.OrderType(query.OrderType)
		filter.OrderType = &orderType
	}
	if query.WarehouseType != "" {
		warehouseType := entity.WarehouseType(query.WarehouseType)
		filter.WarehouseType = &warehouseType
	}
	if query.DepartmentID != nil {
		departmentID, err := id.Parse(*query.DepartmentID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid departmentId format"))
			return
		}
		filter.DepartmentID = &departmentID
	}
	if query.BOMID != nil {
		bomID, err := id.Parse(*query.BOMID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid bomId format"))
			return
		}
		filter.BOMID = &bomID
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromOutboundOrders(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
