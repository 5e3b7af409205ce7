// Package entity provides core domain entities.
package entity

import (
	"time"

	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

// RecordType defines movement direction for the stock ledger.
type RecordType string

const (
	// RecordTypeInbound increases warehouse stock
	RecordTypeInbound RecordType = "inbound"
	// RecordTypeOutbound decreases warehouse stock
	RecordTypeOutbound RecordType = "outbound"
)

// WarehouseType identifies which warehouse a movement touches.
type WarehouseType string

const (
	// WarehouseMain - central raw-material warehouse
	WarehouseMain WarehouseType = "main"
	// WarehouseWorkshop - workshop-side buffer stock
	WarehouseWorkshop WarehouseType = "workshop"
	// WarehousePack - packaging materials
	WarehousePack WarehouseType = "pack"
	// WarehouseAuxiliary - auxiliary consumables
	WarehouseAuxiliary WarehouseType = "auxiliary"
	// WarehousePending - goods awaiting inspection or disposition
	WarehousePending WarehouseType = "pending"
)

// ValidWarehouseType reports whether t is a known warehouse type.
func ValidWarehouseType(t WarehouseType) bool {
	switch t {
	case WarehouseMain, WarehouseWorkshop, WarehousePack, WarehouseAuxiliary, WarehousePending:
		return true
	}
	return false
}

// StockRecord is one line of the append-only material ledger.
// Records are immutable: they are never updated or deleted, and each one
// snapshots the material balance before and after the movement so the
// ledger can reconstruct stock at any point in time.
type StockRecord struct {
	// LineID is unique identifier for this ledger line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// Material dimension. Code and name are denormalized so the ledger
	// stays readable even if the catalog entry is later renamed.
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	// WarehouseType locates the movement (raw or finished)
	WarehouseType WarehouseType `db:"warehouse_type" json:"warehouseType"`

	// RecordType: inbound or outbound
	RecordType RecordType `db:"record_type" json:"recordType"`

	// Quantity is always positive; direction comes from RecordType
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Balance snapshots taken inside the movement transaction
	BeforeStock types.Quantity `db:"before_stock" json:"beforeStock"`
	AfterStock  types.Quantity `db:"after_stock" json:"afterStock"`

	// Source document reference (nil for issuance without an order)
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`
	OrderNo string `db:"order_no" json:"orderNo,omitempty"`

	// Receiving workshop for issuance movements
	DepartmentID   *id.ID `db:"department_id" json:"departmentId,omitempty"`
	DepartmentName string `db:"department_name" json:"departmentName,omitempty"`

	// Operator is who performed the movement
	Operator string `db:"operator" json:"operator,omitempty"`

	// Remark is an optional note
	Remark string `db:"remark" json:"remark,omitempty"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockRecord creates a ledger line with generated LineID and timestamp.
func NewStockRecord(
	materialID id.ID,
	materialCode, materialName string,
	warehouseType WarehouseType,
	recordType RecordType,
	quantity, beforeStock, afterStock types.Quantity,
) StockRecord {
	return StockRecord{
		LineID:        id.New(),
		MaterialID:    materialID,
		MaterialCode:  materialCode,
		MaterialName:  materialName,
		WarehouseType: warehouseType,
		RecordType:    recordType,
		Quantity:      quantity,
		BeforeStock:   beforeStock,
		AfterStock:    afterStock,
		CreatedAt:     time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Inbound = positive, outbound = negative.
func (r *StockRecord) SignedQuantity() types.Quantity {
	if r.RecordType == RecordTypeOutbound {
		return r.Quantity.Neg()
	}
	return r.Quantity
}

// WithOrder attaches the source document reference.
func (r StockRecord) WithOrder(orderID id.ID, orderNo string) StockRecord {
	r.OrderID = &orderID
	r.OrderNo = orderNo
	return r
}

// WithIssuance attaches workshop issuance context.
func (r StockRecord) WithIssuance(departmentID id.ID, departmentName, operator, remark string) StockRecord {
	r.DepartmentID = &departmentID
	r.DepartmentName = departmentName
	r.Operator = operator
	r.Remark = remark
	return r
}

// StockBalance is a point-in-time balance derived from the ledger.
type StockBalance struct {
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
}
