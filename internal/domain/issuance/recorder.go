// Package issuance records actual material issues to production against a
// BOM. One call produces a confirmed production-issue outbound order, the
// ledger decrements, the movement log entries, and the BOM cumulative
// counters, all in one transaction.
package issuance

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/bom"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/documents/outbound"
	"voltstock/internal/domain/posting"
	"voltstock/pkg/logger"
	"voltstock/pkg/numerator"
)

// Request is one shop-floor issuance: which BOM, which department, how
// much of each line was actually handed over.
type Request struct {
	BOMID id.ID `json:"bomId"`

	// Department by ID or exact name; ID wins when both are set.
	DepartmentID   *id.ID `json:"departmentId,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`

	// ProductionQuantity the issue was planned against.
	ProductionQuantity types.Quantity `json:"productionQuantity"`

	// WarehouseType defaults to the main warehouse.
	WarehouseType entity.WarehouseType `json:"warehouseType,omitempty"`

	Operator string `json:"operator,omitempty"`
	Remark   string `json:"remark,omitempty"`

	Items []RequestItem `json:"items"`
}

// RequestItem is the actually issued quantity for one BOM line.
type RequestItem struct {
	BOMItemID      id.ID          `json:"bomItemId"`
	IssuedQuantity types.Quantity `json:"issuedQuantity"`
}

// Result reports the created order and the per-line reconciliation.
type Result struct {
	OrderID        id.ID        `json:"orderId"`
	OrderNo        string       `json:"orderNo"`
	BOMCode        string       `json:"bomCode"`
	DepartmentName string       `json:"departmentName"`
	Items          []ResultItem `json:"items"`
}

// ResultItem carries the variance for one issued line.
type ResultItem struct {
	BOMItemID       id.ID          `json:"bomItemId"`
	MaterialCode    string         `json:"materialCode"`
	MaterialName    string         `json:"materialName"`
	PlannedQuantity types.Quantity `json:"plannedQuantity"`
	IssuedQuantity  types.Quantity `json:"issuedQuantity"`
	Variance        types.Quantity `json:"variance"`

	// Note is a human-readable annotation, empty when issued matches plan.
	Note string `json:"note,omitempty"`
}

// Recorder executes issuances.
type Recorder struct {
	boms        bom.Repository
	materials   material.Repository
	departments department.Repository
	orders      outbound.Repository
	engine      *posting.Engine
	numerator   numerator.Generator
}

// NewRecorder creates an issuance recorder.
func NewRecorder(
	boms bom.Repository,
	materials material.Repository,
	departments department.Repository,
	orders outbound.Repository,
	engine *posting.Engine,
	gen numerator.Generator,
) *Recorder {
	return &Recorder{
		boms:        boms,
		materials:   materials,
		departments: departments,
		orders:      orders,
		engine:      engine,
		numerator:   gen,
	}
}

// IssueMaterials records an issuance. Planned quantities are recomputed
// from the BOM and the production quantity, never taken from the caller,
// so the cumulative variance identity always holds. Stock may go negative:
// the shop floor already has the material, the ledger follows reality.
func (r *Recorder) IssueMaterials(ctx context.Context, req Request) (*Result, error) {
	if err := r.validate(req); err != nil {
		return nil, err
	}

	header, err := r.boms.GetWithItems(ctx, req.BOMID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("bom", req.BOMID.String())
		}
		return nil, fmt.Errorf("load bom: %w", err)
	}
	if !header.IsActive() {
		return nil, apperror.NewInvalidState("bom is not active").
			WithDetail("bomId", header.ID.String()).
			WithDetail("status", string(header.Status))
	}

	dep, err := r.resolveDepartment(ctx, req)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[id.ID]*bom.Item, len(header.Items))
	for _, item := range header.Items {
		itemsByID[item.ID] = item
	}

	warehouse := req.WarehouseType
	if warehouse == "" {
		warehouse = entity.WarehouseMain
	}

	order := outbound.NewOrder(outbound.TypeProductionIssue, warehouse, req.Operator)
	depID := dep.ID
	order.DepartmentID = &depID
	order.DepartmentName = dep.Name
	bomID := header.ID
	order.BOMID = &bomID
	order.ProductionQuantity = req.ProductionQuantity
	order.Comment = req.Remark

	number, err := r.numerator.GetNextNumber(ctx,
		numerator.OrderConfig(outbound.NumberPrefix),
		&numerator.Options{Strategy: outbound.NumeratorStrategy},
		time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	order.Number = number

	set := posting.MovementSet{}
	result := &Result{
		OrderID:        order.ID,
		OrderNo:        order.Number,
		BOMCode:        header.Code,
		DepartmentName: dep.Name,
		Items:          make([]ResultItem, 0, len(req.Items)),
	}

	for i, reqItem := range req.Items {
		item, ok := itemsByID[reqItem.BOMItemID]
		if !ok {
			return nil, apperror.NewNotFound("bom item", reqItem.BOMItemID.String()).
				WithDetail("itemIndex", i)
		}

		planned := bom.ScaleQuantity(item.Quantity, req.ProductionQuantity, header.BaseQuantity)
		variance := reqItem.IssuedQuantity - planned

		mat, err := r.materials.GetByID(ctx, item.MaterialID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("material", item.MaterialID.String())
			}
			return nil, fmt.Errorf("resolve material: %w", err)
		}

		set.Counters = append(set.Counters, posting.CounterDelta{
			ItemID:   item.ID,
			Issued:   reqItem.IssuedQuantity,
			Variance: variance,
		})

		// Zero-issue lines still accumulate variance but move no stock.
		if reqItem.IssuedQuantity > 0 {
			line := outbound.Line{
				LineID:          id.New(),
				LineNo:          len(order.Lines) + 1,
				MaterialID:      item.MaterialID,
				MaterialCode:    mat.Code,
				MaterialName:    mat.Name,
				Quantity:        reqItem.IssuedQuantity,
				Unit:            item.Unit,
				Price:           mat.Price,
				BOMItemID:       &item.ID,
				PlannedQuantity: planned,
				Variance:        variance,
			}
			order.Lines = append(order.Lines, line)

			rec := entity.NewStockRecord(
				item.MaterialID,
				mat.Code,
				mat.Name,
				warehouse,
				entity.RecordTypeOutbound,
				reqItem.IssuedQuantity,
				0, 0,
			).WithOrder(order.ID, order.Number).
				WithIssuance(dep.ID, dep.Name, req.Operator, req.Remark)

			set.Deltas = append(set.Deltas, posting.StockDelta{
				MaterialID: item.MaterialID,
				Delta:      reqItem.IssuedQuantity.Neg(),
				Record:     rec,
			})
		}

		result.Items = append(result.Items, ResultItem{
			BOMItemID:       item.ID,
			MaterialCode:    mat.Code,
			MaterialName:    mat.Name,
			PlannedQuantity: planned,
			IssuedQuantity:  reqItem.IssuedQuantity,
			Variance:        variance,
			Note:            varianceNote(variance, item.Unit),
		})
	}

	order.RecalculateTotals()

	set.Finalize = func(ctx context.Context) error {
		order.MarkConfirmed()
		if err := r.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return r.orders.SaveLines(ctx, order.ID, order.Lines)
	}

	if err := r.engine.Apply(ctx, set, posting.Policy{AllowNegativeStock: true}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "materials issued",
		"order_no", order.Number,
		"bom", header.Code,
		"department", dep.Name,
		"lines", len(order.Lines))

	return result, nil
}

func (r *Recorder) validate(req Request) error {
	if id.IsNil(req.BOMID) {
		return apperror.NewValidation("bom is required").WithDetail("field", "bomId")
	}
	if req.ProductionQuantity <= 0 {
		return apperror.NewValidation("production quantity must be positive").
			WithDetail("field", "productionQuantity").
			WithDetail("value", req.ProductionQuantity.String())
	}
	if req.DepartmentID == nil && req.DepartmentName == "" {
		return apperror.NewValidation("department is required").
			WithDetail("field", "departmentId")
	}
	if len(req.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	hasIssue := false
	for i, item := range req.Items {
		if id.IsNil(item.BOMItemID) {
			return apperror.NewValidation("bom item is required").
				WithDetail("field", "items").
				WithDetail("itemIndex", i)
		}
		if item.IssuedQuantity < 0 {
			return apperror.NewValidation("issued quantity cannot be negative").
				WithDetail("field", "items").
				WithDetail("itemIndex", i).
				WithDetail("value", item.IssuedQuantity.String())
		}
		if item.IssuedQuantity > 0 {
			hasIssue = true
		}
	}
	if !hasIssue {
		return apperror.NewValidation("all issued quantities are zero")
	}

	return nil
}

func (r *Recorder) resolveDepartment(ctx context.Context, req Request) (*department.Department, error) {
	if req.DepartmentID != nil {
		dep, err := r.departments.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("department", req.DepartmentID.String())
			}
			return nil, fmt.Errorf("resolve department: %w", err)
		}
		return dep, nil
	}

	dep, err := r.departments.FindByName(ctx, req.DepartmentName)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("department", req.DepartmentName)
		}
		return nil, fmt.Errorf("resolve department: %w", err)
	}
	return dep, nil
}

// varianceNote renders the over/under annotation shown on issue slips.
func varianceNote(variance types.Quantity, unit string) string {
	switch {
	case variance > 0:
		return fmt.Sprintf("over plan by %s %s", variance.String(), unit)
	case variance < 0:
		return fmt.Sprintf("under plan by %s %s", variance.Abs().String(), unit)
	default:
		return ""
	}
}
