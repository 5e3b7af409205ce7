package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/documents/outbound"
)

// OutboundLineRequest is one issued material.
type OutboundLineRequest struct {
	MaterialID string           `json:"materialId" binding:"required"`
	Quantity   types.Quantity   `json:"quantity" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
}

// CreateOutboundRequest for creating a generic outbound order. Production
// issues are not created here; they go through the issuance endpoint.
type CreateOutboundRequest struct {
	OrderType     string                `json:"orderType" binding:"required"`
	WarehouseType string                `json:"warehouseType" binding:"required"`
	DepartmentID  *string               `json:"departmentId"`
	Comment       string                `json:"comment"`
	Lines         []OutboundLineRequest `json:"lines" binding:"required,min=1"`
}

// ToEntity converts the request to a draft outbound order.
func (r *CreateOutboundRequest) ToEntity(operator string) (*outbound.Order, error) {
	doc := outbound.NewOrder(outbound.OrderType(r.OrderType), entity.WarehouseType(r.WarehouseType), operator)
	doc.Comment = r.Comment

	if r.DepartmentID != nil {
		departmentID, err := id.Parse(*r.DepartmentID)
		if err != nil {
			return nil, err
		}
		doc.DepartmentID = &departmentID
	}

	for _, line := range r.Lines {
		materialID, err := id.Parse(line.MaterialID)
		if err != nil {
			return nil, err
		}
		price := decimal.Zero
		if line.Price != nil {
			price = *line.Price
		}
		doc.AddLine(materialID, line.Quantity, price)
	}

	return doc, nil
}

// UpdateOutboundRequest for updating a draft outbound order.
type UpdateOutboundRequest struct {
	DepartmentID *string               `json:"departmentId"`
	Comment      *string               `json:"comment"`
	Lines        []OutboundLineRequest `json:"lines"`
	Version      int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing draft order.
func (r *UpdateOutboundRequest) ApplyTo(doc *outbound.Order) error {
	if r.DepartmentID != nil {
		departmentID, err := id.Parse(*r.DepartmentID)
		if err != nil {
			return err
		}
		doc.DepartmentID = &departmentID
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			materialID, err := id.Parse(line.MaterialID)
			if err != nil {
				return err
			}
			price := decimal.Zero
			if line.Price != nil {
				price = *line.Price
			}
			doc.AddLine(materialID, line.Quantity, price)
		}
	}

	doc.Version = r.Version
	return nil
}

// OutboundLineResponse is one line of an outbound order.
type OutboundLineResponse struct {
	LineID          string          `json:"lineId"`
	LineNo          int             `json:"lineNo"`
	MaterialID      string          `json:"materialId"`
	MaterialCode    string          `json:"materialCode"`
	MaterialName    string          `json:"materialName"`
	Quantity        types.Quantity  `json:"quantity"`
	Unit            string          `json:"unit"`
	Price           decimal.Decimal `json:"price"`
	Amount          decimal.Decimal `json:"amount"`
	BOMItemID       *string         `json:"bomItemId,omitempty"`
	PlannedQuantity types.Quantity  `json:"plannedQuantity,omitempty"`
	Variance        types.Quantity  `json:"variance,omitempty"`
}

// OutboundResponse for outbound order output.
type OutboundResponse struct {
	DocumentResponse
	OrderType          string                 `json:"orderType"`
	WarehouseType      string                 `json:"warehouseType"`
	DepartmentID       *string                `json:"departmentId,omitempty"`
	DepartmentName     string                 `json:"departmentName,omitempty"`
	BOMID              *string                `json:"bomId,omitempty"`
	ProductionQuantity types.Quantity         `json:"productionQuantity,omitempty"`
	TotalAmount        decimal.Decimal        `json:"totalAmount"`
	Lines              []OutboundLineResponse `json:"lines,omitempty"`
}

// FromOutboundOrder converts an order (with optional lines) to response.
func FromOutboundOrder(doc *outbound.Order) OutboundResponse {
	resp := OutboundResponse{
		DocumentResponse:   FromDocument(doc.Document),
		OrderType:          string(doc.OrderType),
		WarehouseType:      string(doc.WarehouseType),
		DepartmentName:     doc.DepartmentName,
		ProductionQuantity: doc.ProductionQuantity,
		TotalAmount:        doc.TotalAmount,
	}
	if doc.DepartmentID != nil {
		s := doc.DepartmentID.String()
		resp.DepartmentID = &s
	}
	if doc.BOMID != nil {
		s := doc.BOMID.String()
		resp.BOMID = &s
	}
	for _, line := range doc.Lines {
		lr := OutboundLineResponse{
			LineID:          line.LineID.String(),
			LineNo:          line.LineNo,
			MaterialID:      line.MaterialID.String(),
			MaterialCode:    line.MaterialCode,
			MaterialName:    line.MaterialName,
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			Price:           line.Price,
			Amount:          line.Amount,
			PlannedQuantity: line.PlannedQuantity,
			Variance:        line.Variance,
		}
		if line.BOMItemID != nil {
			s := line.BOMItemID.String()
			lr.BOMItemID = &s
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}

// FromOutboundOrders converts a slice of orders.
func FromOutboundOrders(items []*outbound.Order) []OutboundResponse {
	out := make([]OutboundResponse, 0, len(items))
	for _, doc := range items {
		out = append(out, FromOutboundOrder(doc))
	}
	return out
}

// OutboundListQuery narrows outbound order listings.
type OutboundListQuery struct {
	PaginationRequest
	Search        string     `form:"search"`
	Status        string     `form:"status"`
	OrderType     string     `form:"orderType"`
	WarehouseType string     `form:"warehouseType"`
	DepartmentID  *string    `form:"departmentId"`
	BOMID         *string    `form:"bomId"`
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
}
