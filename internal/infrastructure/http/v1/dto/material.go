package dto

import (
	"github.com/shopspring/decimal"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/material"
)

// CreateMaterialRequest for creating a material.
type CreateMaterialRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	Unit          string            `json:"unit" binding:"required"`
	WarehouseType string            `json:"warehouseType" binding:"required"`
	Price         *decimal.Decimal  `json:"price"`
	MinStock      *types.Quantity   `json:"minStock"`
	CategoryID    *string           `json:"categoryId"`
	Specification *string           `json:"specification"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts the request to a Material.
func (r *CreateMaterialRequest) ToEntity() *material.Material {
	m := material.NewMaterial(r.Code, r.Name, r.Unit, entity.WarehouseType(r.WarehouseType))
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.MinStock != nil {
		m.MinStock = *r.MinStock
	}
	m.CategoryID = r.CategoryID
	m.Specification = r.Specification
	if r.Attributes != nil {
		m.Attributes = r.Attributes
	}
	return m
}

// UpdateMaterialRequest for updating a material.
type UpdateMaterialRequest struct {
	Name          *string           `json:"name"`
	Unit          *string           `json:"unit"`
	WarehouseType *string           `json:"warehouseType"`
	Price         *decimal.Decimal  `json:"price"`
	MinStock      *types.Quantity   `json:"minStock"`
	CategoryID    *string           `json:"categoryId"`
	Specification *string           `json:"specification"`
	Status        *string           `json:"status"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing Material.
func (r *UpdateMaterialRequest) ApplyTo(m *material.Material) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Unit != nil {
		m.Unit = *r.Unit
	}
	if r.WarehouseType != nil {
		m.WarehouseType = entity.WarehouseType(*r.WarehouseType)
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.MinStock != nil {
		m.MinStock = *r.MinStock
	}
	if r.CategoryID != nil {
		m.CategoryID = r.CategoryID
	}
	if r.Specification != nil {
		m.Specification = r.Specification
	}
	if r.Status != nil {
		m.Status = material.Status(*r.Status)
	}
	if r.Attributes != nil {
		m.Attributes = r.Attributes
	}
	m.Version = r.Version
}

// MaterialResponse for material output.
type MaterialResponse struct {
	CatalogResponse
	Unit          string          `json:"unit"`
	WarehouseType string          `json:"warehouseType"`
	StockQuantity types.Quantity  `json:"stockQuantity"`
	Price         decimal.Decimal `json:"price"`
	MinStock      types.Quantity  `json:"minStock"`
	CategoryID    *string         `json:"categoryId,omitempty"`
	Specification *string         `json:"specification,omitempty"`
	Status        string          `json:"status"`
	LowStock      bool            `json:"lowStock"`
}

// FromMaterial converts a Material to response.
func FromMaterial(m *material.Material) MaterialResponse {
	return MaterialResponse{
		CatalogResponse: FromCatalog(m.Catalog),
		Unit:            m.Unit,
		WarehouseType:   string(m.WarehouseType),
		StockQuantity:   m.StockQuantity,
		Price:           m.Price,
		MinStock:        m.MinStock,
		CategoryID:      m.CategoryID,
		Specification:   m.Specification,
		Status:          string(m.Status),
		LowStock:        m.IsLowStock(),
	}
}

// FromMaterials converts a slice of materials.
func FromMaterials(items []*material.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMaterial(m))
	}
	return out
}
