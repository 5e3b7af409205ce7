// Package outbound provides the outbound (issue) order document.
package outbound

import (
	"context"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/posting"
)

// OrderType is the outbound movement subtype.
type OrderType string

const (
	TypeRequisition     OrderType = "requisition"
	TypeProductionIssue OrderType = "production_issue"
	TypeSale            OrderType = "sale"
	TypeOther           OrderType = "other"
)

// Order represents an outbound order: materials leaving a warehouse.
// The production_issue subtype is created already confirmed by the
// issuance recorder; all other subtypes go draft -> confirmed.
type Order struct {
	entity.Document

	// OrderType is the movement subtype
	OrderType OrderType `db:"order_type" json:"orderType"`

	// WarehouseType is the issuing warehouse
	WarehouseType entity.WarehouseType `db:"warehouse_type" json:"warehouseType"`

	// Destination department (required for production issues)
	DepartmentID   *id.ID `db:"department_id" json:"departmentId,omitempty"`
	DepartmentName string `db:"department_name" json:"departmentName,omitempty"`

	// BOMID links a production issue to its BOM (nullable)
	BOMID *id.ID `db:"bom_id" json:"bomId,omitempty"`

	// ProductionQuantity the issuance was planned against (production issues)
	ProductionQuantity types.Quantity `db:"production_quantity" json:"productionQuantity,omitempty"`

	// TotalAmount is the sum of line amounts
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`

	// Table part: issued materials
	Lines []Line `db:"-" json:"lines"`
}

// Line is one issued material.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`

	Quantity types.Quantity  `db:"quantity" json:"quantity"`
	Unit     string          `db:"unit" json:"unit"`
	Price    decimal.Decimal `db:"price" json:"price"`

	// Amount = Quantity * Price
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// BOMItemID links the line to the BOM line it was issued against
	// (production issues only)
	BOMItemID *id.ID `db:"bom_item_id" json:"bomItemId,omitempty"`

	// PlannedQuantity and Variance document the reconciliation at issue
	// time (production issues only)
	PlannedQuantity types.Quantity `db:"planned_quantity" json:"plannedQuantity,omitempty"`
	Variance        types.Quantity `db:"variance" json:"variance,omitempty"`
}

// NewOrder creates a new draft outbound order.
func NewOrder(orderType OrderType, warehouseType entity.WarehouseType, operator string) *Order {
	return &Order{
		Document:      entity.NewDocument(operator),
		OrderType:     orderType,
		WarehouseType: warehouseType,
		TotalAmount:   decimal.Zero,
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (o *Order) AddLine(materialID id.ID, quantity types.Quantity, price decimal.Decimal) {
	line := Line{
		LineID:     id.New(),
		LineNo:     len(o.Lines) + 1,
		MaterialID: materialID,
		Quantity:   quantity,
		Price:      price,
		Amount:     quantity.Decimal().Mul(price),
	}
	o.Lines = append(o.Lines, line)
	o.RecalculateTotals()
}

// RecalculateTotals updates document totals from lines.
func (o *Order) RecalculateTotals() {
	total := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].Amount = o.Lines[i].Quantity.Decimal().Mul(o.Lines[i].Price)
		total = total.Add(o.Lines[i].Amount)
	}
	o.TotalAmount = total
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if !entity.ValidWarehouseType(o.WarehouseType) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "warehouseType").
			WithDetail("value", string(o.WarehouseType))
	}

	if o.OrderType == TypeProductionIssue && o.DepartmentID == nil {
		return apperror.NewValidation("production issues require a department").
			WithDetail("field", "departmentId")
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.MaterialID) {
			return apperror.NewValidation("material is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// GetDocumentType returns the document type name.
func (o *Order) GetDocumentType() string {
	return "OutboundOrder"
}

// StockDeltas builds the ledger adjustments for confirmation: one negative
// delta and one outbound movement record per line.
func (o *Order) StockDeltas() []posting.StockDelta {
	deltas := make([]posting.StockDelta, 0, len(o.Lines))
	for _, line := range o.Lines {
		rec := entity.NewStockRecord(
			line.MaterialID,
			line.MaterialCode,
			line.MaterialName,
			o.WarehouseType,
			entity.RecordTypeOutbound,
			line.Quantity,
			0, 0,
		).WithOrder(o.ID, o.Number)
		if o.DepartmentID != nil {
			rec = rec.WithIssuance(*o.DepartmentID, o.DepartmentName, o.Operator, o.Comment)
		} else {
			rec.Operator = o.Operator
			rec.Remark = o.Comment
		}

		deltas = append(deltas, posting.StockDelta{
			MaterialID: line.MaterialID,
			Delta:      line.Quantity.Neg(),
			Record:     rec,
		})
	}
	return deltas
}
