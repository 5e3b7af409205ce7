package bom

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/material"
)

// Plan is the issuance worksheet for one production run: every BOM line
// scaled to the requested production quantity.
type Plan struct {
	BOMID              id.ID          `json:"bomId"`
	BOMCode            string         `json:"bomCode"`
	BOMName            string         `json:"bomName"`
	ProductName        string         `json:"productName"`
	BaseQuantity       types.Quantity `json:"baseQuantity"`
	ProductionQuantity types.Quantity `json:"productionQuantity"`
	Items              []PlanItem     `json:"items"`
}

// PlanItem is one scaled BOM line.
type PlanItem struct {
	LineItemID   id.ID  `json:"lineItemId"`
	MaterialID   id.ID  `json:"materialId"`
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	Unit         string `json:"unit"`

	// PlannedQuantity = line quantity * (production / base)
	PlannedQuantity types.Quantity `json:"plannedQuantity"`

	// ActualQuantity is the loss-adjusted planned quantity at the same scale
	ActualQuantity types.Quantity `json:"actualQuantity"`

	// SuggestedQuantity is what the operator should issue (= ActualQuantity)
	SuggestedQuantity types.Quantity `json:"suggestedQuantity"`

	LossRate decimal.Decimal `json:"lossRate"`

	// Cumulative counters as of planning time
	IssuedQuantitySoFar types.Quantity `json:"issuedQuantitySoFar"`
	VarianceSoFar       types.Quantity `json:"varianceSoFar"`

	// CurrentStock is informational, from the material catalog
	CurrentStock types.Quantity `json:"currentStock"`
}

// Planner expands a BOM into per-material planned quantities scaled to a
// production quantity. Pure read: no side effects, safe to call repeatedly.
type Planner struct {
	repo      Repository
	materials material.Repository
}

// NewPlanner creates a new issuance planner.
func NewPlanner(repo Repository, materials material.Repository) *Planner {
	return &Planner{repo: repo, materials: materials}
}

// PlanIssuance computes the scaled plan for issuing against bomID.
func (p *Planner) PlanIssuance(ctx context.Context, bomID id.ID, productionQuantity types.Quantity) (*Plan, error) {
	if productionQuantity <= 0 {
		return nil, apperror.NewValidation("production quantity must be positive").
			WithDetail("field", "productionQuantity").
			WithDetail("value", productionQuantity.String())
	}

	header, err := p.repo.GetWithItems(ctx, bomID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("bom", bomID.String())
		}
		return nil, fmt.Errorf("load bom: %w", err)
	}

	// A zero base quantity would scale every line to infinity.
	if header.BaseQuantity <= 0 {
		return nil, apperror.NewValidation("bom base quantity must be positive").
			WithDetail("bom_id", bomID.String()).
			WithDetail("baseQuantity", header.BaseQuantity.String())
	}

	plan := &Plan{
		BOMID:              header.ID,
		BOMCode:            header.Code,
		BOMName:            header.Name,
		ProductName:        header.ProductName,
		BaseQuantity:       header.BaseQuantity,
		ProductionQuantity: productionQuantity,
		Items:              make([]PlanItem, 0, len(header.Items)),
	}

	for _, item := range header.Items {
		mat, err := p.materials.GetByID(ctx, item.MaterialID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("material", item.MaterialID.String())
			}
			return nil, fmt.Errorf("resolve material: %w", err)
		}

		planned := ScaleQuantity(item.Quantity, productionQuantity, header.BaseQuantity)
		actual := ScaleQuantity(item.ActualQuantity, productionQuantity, header.BaseQuantity)

		plan.Items = append(plan.Items, PlanItem{
			LineItemID:          item.ID,
			MaterialID:          item.MaterialID,
			MaterialCode:        mat.Code,
			MaterialName:        mat.Name,
			Unit:                item.Unit,
			PlannedQuantity:     planned,
			ActualQuantity:      actual,
			SuggestedQuantity:   actual,
			LossRate:            item.LossRate,
			IssuedQuantitySoFar: item.IssuedQuantity,
			VarianceSoFar:       item.Variance,
			CurrentStock:        mat.StockQuantity,
		})
	}

	return plan, nil
}

// ScaleQuantity computes q * numerator / denominator in decimal space,
// rounded to quantity precision. Keeps 0.5 * 10 / 1 exact instead of
// accumulating binary float error.
func ScaleQuantity(q, numerator, denominator types.Quantity) types.Quantity {
	result := q.Decimal().
		Mul(numerator.Decimal()).
		Div(denominator.Decimal())
	return types.QuantityFromDecimal(result)
}
