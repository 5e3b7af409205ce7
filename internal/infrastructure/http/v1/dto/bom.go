package dto

import (
	"github.com/shopspring/decimal"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/bom"
)

// BOMItemRequest is one line of a bill of materials.
type BOMItemRequest struct {
	MaterialID string           `json:"materialId" binding:"required"`
	Quantity   types.Quantity   `json:"quantity" binding:"required"`
	LossRate   *decimal.Decimal `json:"lossRate"`
}

// CreateBOMRequest for creating a bill of materials.
type CreateBOMRequest struct {
	Code         string            `json:"code" binding:"required"`
	Name         string            `json:"name" binding:"required"`
	ProductID    string            `json:"productId" binding:"required"`
	BaseQuantity types.Quantity    `json:"baseQuantity" binding:"required"`
	Unit         string            `json:"unit"`
	BOMVersion   string            `json:"bomVersion"`
	Description  string            `json:"description"`
	Items        []BOMItemRequest  `json:"items" binding:"required,min=1"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts the request to a BOM header with items.
func (r *CreateBOMRequest) ToEntity() (*bom.Header, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return nil, err
	}

	h := bom.NewHeader(r.Code, r.Name, productID, r.BaseQuantity)
	h.Unit = r.Unit
	h.BOMVersion = r.BOMVersion
	h.Description = r.Description
	if r.Attributes != nil {
		h.Attributes = r.Attributes
	}

	for i, item := range r.Items {
		materialID, err := id.Parse(item.MaterialID)
		if err != nil {
			return nil, err
		}
		lossRate := decimal.Zero
		if item.LossRate != nil {
			lossRate = *item.LossRate
		}
		line := bom.NewItem(h.ID, materialID, item.Quantity, lossRate)
		line.SortOrder = i + 1
		h.Items = append(h.Items, line)
	}

	return h, nil
}

// UpdateBOMRequest for updating a draft bill of materials.
type UpdateBOMRequest struct {
	Name         *string           `json:"name"`
	BaseQuantity *types.Quantity   `json:"baseQuantity"`
	Unit         *string           `json:"unit"`
	BOMVersion   *string           `json:"bomVersion"`
	Description  *string           `json:"description"`
	Items        []BOMItemRequest  `json:"items"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing header. When Items is
// present the whole table part is replaced.
func (r *UpdateBOMRequest) ApplyTo(h *bom.Header) error {
	if r.Name != nil {
		h.Name = *r.Name
	}
	if r.BaseQuantity != nil {
		h.BaseQuantity = *r.BaseQuantity
	}
	if r.Unit != nil {
		h.Unit = *r.Unit
	}
	if r.BOMVersion != nil {
		h.BOMVersion = *r.BOMVersion
	}
	if r.Description != nil {
		h.Description = *r.Description
	}
	if r.Attributes != nil {
		h.Attributes = r.Attributes
	}

	if r.Items != nil {
		h.Items = h.Items[:0]
		for i, item := range r.Items {
			materialID, err := id.Parse(item.MaterialID)
			if err != nil {
				return err
			}
			lossRate := decimal.Zero
			if item.LossRate != nil {
				lossRate = *item.LossRate
			}
			line := bom.NewItem(h.ID, materialID, item.Quantity, lossRate)
			line.SortOrder = i + 1
			h.Items = append(h.Items, line)
		}
	}

	h.Version = r.Version
	return nil
}

// BOMItemResponse is one line with its cumulative counters.
type BOMItemResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"materialId"`
	MaterialCode   string          `json:"materialCode"`
	MaterialName   string          `json:"materialName"`
	Quantity       types.Quantity  `json:"quantity"`
	Unit           string          `json:"unit"`
	LossRate       decimal.Decimal `json:"lossRate"`
	ActualQuantity types.Quantity  `json:"actualQuantity"`
	IssuedQuantity types.Quantity  `json:"issuedQuantity"`
	Variance       types.Quantity  `json:"variance"`
	SortOrder      int             `json:"sortOrder"`
}

// BOMResponse for BOM output.
type BOMResponse struct {
	CatalogResponse
	ProductID    string            `json:"productId"`
	ProductName  string            `json:"productName"`
	BaseQuantity types.Quantity    `json:"baseQuantity"`
	Unit         string            `json:"unit"`
	BOMVersion   string            `json:"bomVersion"`
	Status       string            `json:"status"`
	Description  string            `json:"description,omitempty"`
	Items        []BOMItemResponse `json:"items,omitempty"`
}

// FromBOM converts a header (with optional items) to response.
func FromBOM(h *bom.Header) BOMResponse {
	resp := BOMResponse{
		CatalogResponse: FromCatalog(h.Catalog),
		ProductID:       h.ProductID.String(),
		ProductName:     h.ProductName,
		BaseQuantity:    h.BaseQuantity,
		Unit:            h.Unit,
		BOMVersion:      h.BOMVersion,
		Status:          string(h.Status),
		Description:     h.Description,
	}
	for _, item := range h.Items {
		resp.Items = append(resp.Items, BOMItemResponse{
			ID:             item.ID.String(),
			MaterialID:     item.MaterialID.String(),
			MaterialCode:   item.MaterialCode,
			MaterialName:   item.MaterialName,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			LossRate:       item.LossRate,
			ActualQuantity: item.ActualQuantity,
			IssuedQuantity: item.IssuedQuantity,
			Variance:       item.Variance,
			SortOrder:      item.SortOrder,
		})
	}
	return resp
}

// FromBOMs converts a slice of headers.
func FromBOMs(items []*bom.Header) []BOMResponse {
	out := make([]BOMResponse, 0, len(items))
	for _, h := range items {
		out = append(out, FromBOM(h))
	}
	return out
}

// PlanIssuanceRequest asks for an issuance worksheet scaled to a
// production quantity.
type PlanIssuanceRequest struct {
	ProductionQuantity types.Quantity `json:"productionQuantity" binding:"required"`
}
