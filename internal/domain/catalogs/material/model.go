// Package material provides the Material catalog: every raw material,
// auxiliary consumable, and packaging item tracked by the warehouse.
package material

import (
	"context"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/types"
)

// Status of a material catalog entry.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Material represents one stocked item. StockQuantity is the single source
// of truth for current balance; it is mutated only through atomic deltas in
// the repository, never by read-modify-write.
type Material struct {
	entity.Catalog

	// Unit of measure (kg, L, m, pcs)
	Unit string `db:"unit" json:"unit"`

	// WarehouseType locates where this material is stocked
	WarehouseType entity.WarehouseType `db:"warehouse_type" json:"warehouseType"`

	// StockQuantity is the current balance
	StockQuantity types.Quantity `db:"stock_quantity" json:"stockQuantity"`

	// Price is the reference unit price
	Price decimal.Decimal `db:"price" json:"price"`

	// MinStock triggers low-stock reporting when balance falls below it
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// CategoryID is an optional category reference
	CategoryID *string `db:"category_id" json:"categoryId,omitempty"`

	// Specification is the technical spec / model designation
	Specification *string `db:"specification" json:"specification,omitempty"`

	// Status: active or inactive
	Status Status `db:"status" json:"status"`
}

// NewMaterial creates a new Material with required fields.
func NewMaterial(code, name, unit string, warehouseType entity.WarehouseType) *Material {
	return &Material{
		Catalog:       entity.NewCatalog(code, name),
		Unit:          unit,
		WarehouseType: warehouseType,
		Price:         decimal.Zero,
		Status:        StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if !entity.ValidWarehouseType(m.WarehouseType) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "warehouseType").
			WithDetail("value", string(m.WarehouseType))
	}

	if m.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if m.MinStock.IsNegative() {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	if m.Status != StatusActive && m.Status != StatusInactive {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(m.Status))
	}

	return nil
}

// IsLowStock reports whether the balance is below the configured minimum.
func (m *Material) IsLowStock() bool {
	return m.MinStock > 0 && m.StockQuantity < m.MinStock
}

// StockValue returns the current balance valued at the reference price.
func (m *Material) StockValue() decimal.Decimal {
	return m.StockQuantity.Decimal().Mul(m.Price)
}
