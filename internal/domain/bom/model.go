// Package bom provides the Bill-of-Materials catalog and the issuance
// planner. A BOM maps a product's base production quantity to the materials
// it consumes; line items carry cumulative issued/variance counters that the
// issuance recorder accumulates over the BOM's life.
package bom

import (
	"context"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

// Status of a BOM header.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

// Header is a BOM definition for one product.
type Header struct {
	entity.Catalog

	// ProductID references the produced item in the material catalog
	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is denormalized for listings
	ProductName string `db:"product_name" json:"productName"`

	// BaseQuantity is the production quantity the line-item quantities
	// are defined against. Must be positive.
	BaseQuantity types.Quantity `db:"base_quantity" json:"baseQuantity"`

	// Unit of the base quantity (pcs, kg, ...)
	Unit string `db:"unit" json:"unit"`

	// BOMVersion is the revision label (e.g. "V1.0")
	BOMVersion string `db:"bom_version" json:"bomVersion"`

	// Status: draft or active
	Status Status `db:"status" json:"status"`

	// Description is an optional note
	Description string `db:"description" json:"description,omitempty"`

	// Items are the line items. Loaded on demand, not persisted through
	// the header row.
	Items []*Item `db:"-" json:"items,omitempty"`
}

// NewHeader creates a new draft BOM header.
func NewHeader(code, name string, productID id.ID, baseQuantity types.Quantity) *Header {
	return &Header{
		Catalog:      entity.NewCatalog(code, name),
		ProductID:    productID,
		BaseQuantity: baseQuantity,
		Status:       StatusDraft,
	}
}

// Validate implements entity.Validatable interface.
func (h *Header) Validate(ctx context.Context) error {
	if err := h.Catalog.Validate(ctx); err != nil {
		return err
	}

	if h.Code == "" {
		return apperror.NewValidation("bom code is required").
			WithDetail("field", "code")
	}

	if id.IsNil(h.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if h.BaseQuantity <= 0 {
		return apperror.NewValidation("base quantity must be positive").
			WithDetail("field", "baseQuantity").
			WithDetail("value", h.BaseQuantity.String())
	}

	if h.Status != StatusDraft && h.Status != StatusActive {
		return apperror.NewValidation("invalid bom status").
			WithDetail("field", "status").
			WithDetail("value", string(h.Status))
	}

	for i, item := range h.Items {
		if err := item.Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("itemIndex", i)
			}
			return err
		}
	}

	return nil
}

// IsActive reports whether the BOM can be issued against.
func (h *Header) IsActive() bool {
	return h.Status == StatusActive
}

// Item is one BOM line: a material and its planned consumption per base
// quantity. IssuedQuantity and Variance are cumulative counters updated
// only through atomic deltas in the repository.
type Item struct {
	// ID is the line primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// BOMID is the owning header
	BOMID id.ID `db:"bom_id" json:"bomId"`

	// Material dimension, code/name denormalized
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	// Quantity is the planned consumption per base quantity
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Unit of measure
	Unit string `db:"unit" json:"unit"`

	// LossRate is the process-waste percentage (5 means 5%)
	LossRate decimal.Decimal `db:"loss_rate" json:"lossRate"`

	// ActualQuantity = Quantity * (1 + LossRate/100).
	// Always derived, never accepted from input.
	ActualQuantity types.Quantity `db:"actual_quantity" json:"actualQuantity"`

	// IssuedQuantity is the cumulative quantity issued against this line
	IssuedQuantity types.Quantity `db:"issued_quantity" json:"issuedQuantity"`

	// Variance is the cumulative signed issued-minus-planned total
	Variance types.Quantity `db:"variance" json:"variance"`

	// SortOrder fixes the display position within the BOM
	SortOrder int `db:"sort_order" json:"sortOrder"`
}

// NewItem creates a BOM line with the actual quantity derived.
func NewItem(bomID, materialID id.ID, quantity types.Quantity, lossRate decimal.Decimal) *Item {
	item := &Item{
		ID:         id.New(),
		BOMID:      bomID,
		MaterialID: materialID,
		Quantity:   quantity,
		LossRate:   lossRate,
	}
	item.RecomputeActual()
	return item
}

// RecomputeActual derives ActualQuantity from Quantity and LossRate.
// Called on every create and update so the stored value can never drift
// from the formula.
func (i *Item) RecomputeActual() {
	rate := decimal.NewFromInt(1).Add(i.LossRate.Div(decimal.NewFromInt(100)))
	i.ActualQuantity = i.Quantity.MulRate(rate)
}

// Validate checks line invariants.
func (i *Item) Validate(ctx context.Context) error {
	if id.IsNil(i.MaterialID) {
		return apperror.NewValidation("bom item material is required").
			WithDetail("field", "materialId")
	}

	if i.Quantity <= 0 {
		return apperror.NewValidation("bom item quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", i.Quantity.String())
	}

	if i.LossRate.IsNegative() {
		return apperror.NewValidation("loss rate cannot be negative").
			WithDetail("field", "lossRate").
			WithDetail("value", i.LossRate.String())
	}

	return nil
}
