package bom

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/material"
)

type plannerBOMRepo struct {
	Repository

	header *Header
}

func (f *plannerBOMRepo) GetWithItems(ctx context.Context, bomID id.ID) (*Header, error) {
	if f.header == nil || f.header.ID != bomID {
		return nil, apperror.NewNotFound("bom", bomID.String())
	}
	return f.header, nil
}

type plannerMaterialRepo struct {
	material.Repository

	materials map[id.ID]*material.Material
}

func (f *plannerMaterialRepo) GetByID(ctx context.Context, matID id.ID) (*material.Material, error) {
	m, ok := f.materials[matID]
	if !ok {
		return nil, apperror.NewNotFound("material", matID.String())
	}
	return m, nil
}

func newTestPlanner(header *Header, materials ...*material.Material) *Planner {
	byID := make(map[id.ID]*material.Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}
	return NewPlanner(&plannerBOMRepo{header: header}, &plannerMaterialRepo{materials: byID})
}

func TestPlanIssuanceScaling(t *testing.T) {
	leadOxide := material.NewMaterial("MAT-0001", "Lead oxide", "kg", entity.WarehouseMain)
	leadOxide.StockQuantity = types.QuantityFromFloat(42.5)

	header := NewHeader("BOM-12V60", "12V60 assembly", id.New(), types.QuantityFromInt(1))
	header.Status = StatusActive
	item := NewItem(header.ID, leadOxide.ID, types.QuantityFromFloat(0.5), decimal.NewFromInt(3))
	item.Unit = "kg"
	item.IssuedQuantity = types.QuantityFromInt(7)
	item.Variance = types.QuantityFromFloat(0.3)
	header.Items = []*Item{item}

	planner := newTestPlanner(header, leadOxide)

	plan, err := planner.PlanIssuance(context.Background(), header.ID, types.QuantityFromInt(10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if plan.ProductionQuantity != types.QuantityFromInt(10) {
		t.Errorf("production quantity = %s", plan.ProductionQuantity)
	}
	if len(plan.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(plan.Items))
	}

	got := plan.Items[0]
	// 0.5 kg per unit, 10 units: planned 5 kg, +3% loss 5.15 kg.
	if got.PlannedQuantity != types.QuantityFromInt(5) {
		t.Errorf("planned = %s, want 5", got.PlannedQuantity)
	}
	if got.ActualQuantity != types.QuantityFromFloat(5.15) {
		t.Errorf("actual = %s, want 5.15", got.ActualQuantity)
	}
	if got.SuggestedQuantity != got.ActualQuantity {
		t.Errorf("suggested = %s, must equal actual %s", got.SuggestedQuantity, got.ActualQuantity)
	}
	if got.IssuedQuantitySoFar != types.QuantityFromInt(7) {
		t.Errorf("issued so far = %s, want 7", got.IssuedQuantitySoFar)
	}
	if got.VarianceSoFar != types.QuantityFromFloat(0.3) {
		t.Errorf("variance so far = %s, want 0.3", got.VarianceSoFar)
	}
	if got.CurrentStock != types.QuantityFromFloat(42.5) {
		t.Errorf("current stock = %s, want 42.5", got.CurrentStock)
	}
}

func TestPlanIssuanceFractionalBase(t *testing.T) {
	mat := material.NewMaterial("MAT-0002", "Electrolyte", "L", entity.WarehouseMain)

	header := NewHeader("BOM-X", "Test", id.New(), types.QuantityFromInt(4))
	header.Status = StatusActive
	header.Items = []*Item{NewItem(header.ID, mat.ID, types.QuantityFromInt(1), decimal.Zero)}

	planner := newTestPlanner(header, mat)

	plan, err := planner.PlanIssuance(context.Background(), header.ID, types.QuantityFromInt(10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	// 1 L per 4 units, 10 units: 2.5 L, exact in decimal space.
	if got := plan.Items[0].PlannedQuantity; got != types.QuantityFromFloat(2.5) {
		t.Errorf("planned = %s, want 2.5", got)
	}
}

func TestPlanIssuanceInvalidProductionQuantity(t *testing.T) {
	header := NewHeader("BOM-X", "Test", id.New(), types.QuantityFromInt(1))
	planner := newTestPlanner(header)

	for _, qty := range []types.Quantity{0, types.QuantityFromInt(-5)} {
		_, err := planner.PlanIssuance(context.Background(), header.ID, qty)
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeValidation {
			t.Errorf("quantity %s: expected validation error, got %v", qty, err)
		}
	}
}

func TestPlanIssuanceUnknownBOM(t *testing.T) {
	planner := newTestPlanner(nil)

	_, err := planner.PlanIssuance(context.Background(), id.New(), types.QuantityFromInt(1))
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlanIssuanceZeroBaseQuantity(t *testing.T) {
	header := NewHeader("BOM-X", "Test", id.New(), 0)
	planner := newTestPlanner(header)

	_, err := planner.PlanIssuance(context.Background(), header.ID, types.QuantityFromInt(1))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScaleQuantityExact(t *testing.T) {
	tests := []struct {
		name                string
		q, numerator, denom types.Quantity
		want                types.Quantity
	}{
		{"identity", types.QuantityFromFloat(0.5), types.QuantityFromInt(1), types.QuantityFromInt(1), types.QuantityFromFloat(0.5)},
		{"scale up", types.QuantityFromFloat(0.5), types.QuantityFromInt(10), types.QuantityFromInt(1), types.QuantityFromInt(5)},
		{"scale down", types.QuantityFromInt(3), types.QuantityFromInt(1), types.QuantityFromInt(2), types.QuantityFromFloat(1.5)},
		{"repeating fraction rounds", types.QuantityFromInt(1), types.QuantityFromInt(1), types.QuantityFromInt(3), types.Quantity(3333)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleQuantity(tt.q, tt.numerator, tt.denom); got != tt.want {
				t.Errorf("ScaleQuantity = %s, want %s", got, tt.want)
			}
		})
	}
}
