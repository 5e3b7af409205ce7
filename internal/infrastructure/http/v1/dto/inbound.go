package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/documents/inbound"
)

// InboundLineRequest is one received material.
type InboundLineRequest struct {
	MaterialID string           `json:"materialId" binding:"required"`
	Quantity   types.Quantity   `json:"quantity" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
}

// CreateInboundRequest for creating an inbound order.
type CreateInboundRequest struct {
	OrderType     string               `json:"orderType" binding:"required"`
	WarehouseType string               `json:"warehouseType" binding:"required"`
	SupplierID    *string              `json:"supplierId"`
	Comment       string               `json:"comment"`
	Lines         []InboundLineRequest `json:"lines" binding:"required,min=1"`
}

// ToEntity converts the request to a draft inbound order.
func (r *CreateInboundRequest) ToEntity(operator string) (*inbound.Order, error) {
	doc := inbound.NewOrder(inbound.OrderType(r.OrderType), entity.WarehouseType(r.WarehouseType), operator)
	doc.Comment = r.Comment

	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return nil, err
		}
		doc.SupplierID = &supplierID
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

// UpdateInboundRequest for updating a draft inbound order. Lines replace
// the whole table part when present.
type UpdateInboundRequest struct {
	SupplierID *string              `json:"supplierId"`
	Comment    *string              `json:"comment"`
	Lines      []InboundLineRequest `json:"lines"`
	Version    int                  `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing draft order.
func (r *UpdateInboundRequest) ApplyTo(doc *inbound.Order) error {
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return err
		}
		doc.SupplierID = &supplierID
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

// InboundLineResponse is one line of an inbound order.
type InboundLineResponse struct {
	LineID       string          `json:"lineId"`
	LineNo       int             `json:"lineNo"`
	MaterialID   string          `json:"materialId"`
	MaterialCode string          `json:"materialCode"`
	MaterialName string          `json:"materialName"`
	Quantity     types.Quantity  `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// InboundResponse for inbound order output.
type InboundResponse struct {
	DocumentResponse
	OrderType     string                `json:"orderType"`
	WarehouseType string                `json:"warehouseType"`
	SupplierID    *string               `json:"supplierId,omitempty"`
	SupplierName  string                `json:"supplierName,omitempty"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Lines         []InboundLineResponse `json:"lines,omitempty"`
}

// FromInboundOrder converts an order (with optional lines) to response.
func FromInboundOrder(doc *inbound.Order) InboundResponse {
	resp := InboundResponse{
		DocumentResponse: FromDocument(doc.Document),
		OrderType:        string(doc.OrderType),
		WarehouseType:    string(doc.WarehouseType),
		SupplierName:     doc.SupplierName,
		TotalAmount:      doc.TotalAmount,
	}
	if doc.SupplierID != nil {
		s := doc.SupplierID.String()
		resp.SupplierID = &s
	}
	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, InboundLineResponse{
			LineID:       line.LineID.String(),
			LineNo:       line.LineNo,
			MaterialID:   line.MaterialID.String(),
			MaterialCode: line.MaterialCode,
			MaterialName: line.MaterialName,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Price:        line.Price,
			Amount:       line.Amount,
		})
	}
	return resp
}

// FromInboundOrders converts a slice of orders.
func FromInboundOrders(items []*inbound.Order) []InboundResponse {
	out := make([]InboundResponse, 0, len(items))
	for _, doc := range items {
		out = append(out, FromInboundOrder(doc))
	}
	return out
}

// InboundListQuery narrows inbound order listings.
type InboundListQuery struct {
	PaginationRequest
	Search        string     `form:"search"`
	Status        string     `form:"status"`
	OrderType     string     `form:"orderType"`
	WarehouseType string     `form:"warehouseType"`
	SupplierID    *string    `form:"supplierId"`
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ConfirmResponse reports the state after confirmation.
type ConfirmResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
