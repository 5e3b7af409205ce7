package reports

import (
	"context"
	"sort"
	"testing"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
)

// fakeReportRepo aggregates in memory the way the SQL implementation does:
// per (department, material), optionally narrowed, ordered by material code
// then department name.
type fakeReportRepo struct {
	rows []IssueAggregate
	// planned holds per-material sums of BOM line quantities, the way
	// the SQL implementation reads them from BOM definitions.
	planned map[id.ID]types.Quantity
	stats   []WarehouseStats
}

func (f *fakeReportRepo) AggregateIssues(ctx context.Context, filter IssueAggregateFilter) ([]IssueAggregate, error) {
	out := make([]IssueAggregate, 0, len(f.rows))
	for _, row := range f.rows {
		if filter.DepartmentID != nil && row.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.MaterialID != nil && row.MaterialID != *filter.MaterialID {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MaterialCode != out[j].MaterialCode {
			return out[i].MaterialCode < out[j].MaterialCode
		}
		return out[i].DepartmentName < out[j].DepartmentName
	})
	return out, nil
}

func (f *fakeReportRepo) AggregatePlannedByMaterial(ctx context.Context, materialID *id.ID) (map[id.ID]types.Quantity, error) {
	out := make(map[id.ID]types.Quantity)
	for matID, qty := range f.planned {
		if materialID != nil && matID != *materialID {
			continue
		}
		out[matID] = qty
	}
	return out, nil
}

func (f *fakeReportRepo) GetWarehouseStats(ctx context.Context) ([]WarehouseStats, error) {
	return f.stats, nil
}

type fakeMaterialRepo struct {
	material.Repository

	materials map[id.ID]*material.Material
}

func (f *fakeMaterialRepo) GetByID(ctx context.Context, matID id.ID) (*material.Material, error) {
	m, ok := f.materials[matID]
	if !ok {
		return nil, apperror.NewNotFound("material", matID.String())
	}
	return m, nil
}

type fakeDepartmentRepo struct {
	department.Repository

	departments map[id.ID]*department.Department
}

func (f *fakeDepartmentRepo) GetByID(ctx context.Context, depID id.ID) (*department.Department, error) {
	d, ok := f.departments[depID]
	if !ok {
		return nil, apperror.NewNotFound("department", depID.String())
	}
	return d, nil
}

func (f *fakeDepartmentRepo) FindByName(ctx context.Context, name string) (*department.Department, error) {
	for _, d := range f.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, apperror.NewNotFound("department", name)
}

// balanceFixture: two workshops issued the same material against one global
// plan, plus a second material issued by one workshop only.
type balanceFixture struct {
	service *Service

	batching *department.Department
	winding  *department.Department

	leadOxide   *material.Material
	electrolyte *material.Material

	issuedAt time.Time
}

func newBalanceFixture(t *testing.T) *balanceFixture {
	t.Helper()

	batching := department.NewDepartment("WS-BATCH", "Batching workshop", department.TypeBatching)
	winding := department.NewDepartment("WS-WIND", "Winding workshop", department.TypeWinding)

	leadOxide := material.NewMaterial("MAT-0001", "Lead oxide", "kg", entity.WarehouseMain)
	leadOxide.StockQuantity = types.QuantityFromInt(80)
	electrolyte := material.NewMaterial("MAT-0002", "Electrolyte", "L", entity.WarehouseMain)

	issuedAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	later := issuedAt.Add(48 * time.Hour)

	// The BOM definitions call for 18 kg of lead oxide and 30 L of
	// electrolyte; the per-row planned totals below are what the issue
	// documents happened to record.
	repo := &fakeReportRepo{rows: []IssueAggregate{
		{
			DepartmentID: batching.ID, DepartmentName: batching.Name,
			MaterialID: leadOxide.ID, MaterialCode: "MAT-0001", MaterialName: "Lead oxide", Unit: "kg",
			IssuedTotal:   types.QuantityFromInt(12),
			PlannedTotal:  types.QuantityFromInt(10),
			LastIssueTime: &issuedAt,
		},
		{
			DepartmentID: winding.ID, DepartmentName: winding.Name,
			MaterialID: leadOxide.ID, MaterialCode: "MAT-0001", MaterialName: "Lead oxide", Unit: "kg",
			IssuedTotal:   types.QuantityFromInt(5),
			PlannedTotal:  types.QuantityFromInt(8),
			LastIssueTime: &later,
		},
		{
			DepartmentID: batching.ID, DepartmentName: batching.Name,
			MaterialID: electrolyte.ID, MaterialCode: "MAT-0002", MaterialName: "Electrolyte", Unit: "L",
			IssuedTotal:   types.QuantityFromInt(30),
			PlannedTotal:  types.QuantityFromInt(30),
			LastIssueTime: &issuedAt,
		},
	}}
	repo.planned = map[id.ID]types.Quantity{
		leadOxide.ID:   types.QuantityFromInt(18),
		electrolyte.ID: types.QuantityFromInt(30),
	}

	materials := &fakeMaterialRepo{materials: map[id.ID]*material.Material{
		leadOxide.ID:   leadOxide,
		electrolyte.ID: electrolyte,
	}}
	departments := &fakeDepartmentRepo{departments: map[id.ID]*department.Department{
		batching.ID: batching,
		winding.ID:  winding,
	}}

	return &balanceFixture{
		service:     NewService(repo, materials, departments),
		batching:    batching,
		winding:     winding,
		leadOxide:   leadOxide,
		electrolyte: electrolyte,
		issuedAt:    issuedAt,
	}
}

func TestWorkshopBalanceGlobalPlanAttribution(t *testing.T) {
	f := newBalanceFixture(t)

	report, err := f.service.CalculateWorkshopBalance(context.Background(), WorkshopBalanceFilter{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if report.TotalItems != 3 {
		t.Fatalf("expected 3 rows, got %d", report.TotalItems)
	}

	// Every lead-oxide row carries the global planned total of 18: the plan
	// belongs to the BOM run, not to whichever workshop drew first.
	for _, item := range report.Items[:2] {
		if item.PlannedTotal != types.QuantityFromInt(18) {
			t.Errorf("%s planned = %s, want global 18", item.DepartmentName, item.PlannedTotal)
		}
	}
	if got := report.Items[0].Balance; got != types.QuantityFromInt(-6) {
		t.Errorf("batching balance = %s, want 12-18 = -6", got)
	}
	if got := report.Items[1].Balance; got != types.QuantityFromInt(-13) {
		t.Errorf("winding balance = %s, want 5-18 = -13", got)
	}
}

func TestWorkshopBalanceScopedPlanAttribution(t *testing.T) {
	f := newBalanceFixture(t)

	depID := f.batching.ID
	report, err := f.service.CalculateWorkshopBalance(context.Background(), WorkshopBalanceFilter{
		DepartmentID:             &depID,
		ScopePlannedToDepartment: true,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if report.TotalItems != 2 {
		t.Fatalf("expected 2 rows, got %d", report.TotalItems)
	}
	// Scoped: planned is the department's own 10, balance 12-10 = +2.
	if got := report.Items[0].Balance; got != types.QuantityFromInt(2) {
		t.Errorf("scoped balance = %s, want 2", got)
	}
}

func TestWorkshopBalanceSortOrder(t *testing.T) {
	f := newBalanceFixture(t)

	report, err := f.service.CalculateWorkshopBalance(context.Background(), WorkshopBalanceFilter{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	codes := make([]string, len(report.Items))
	for i, item := range report.Items {
		codes[i] = item.MaterialCode
	}
	if !sort.StringsAreSorted(codes) {
		t.Errorf("items not ordered by material code: %v", codes)
	}
	// Within the same code, department name breaks the tie.
	if report.Items[0].DepartmentName > report.Items[1].DepartmentName {
		t.Errorf("tie not broken by department name: %q before %q",
			report.Items[0].DepartmentName, report.Items[1].DepartmentName)
	}
}

func TestWorkshopBalanceByDepartmentName(t *testing.T) {
	f := newBalanceFixture(t)

	report, err := f.service.CalculateWorkshopBalance(context.Background(), WorkshopBalanceFilter{
		DepartmentName: "Winding workshop",
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if report.TotalItems != 1 {
		t.Fatalf("expected 1 row, got %d", report.TotalItems)
	}
	if report.Items[0].DepartmentID != f.winding.ID {
		t.Error("wrong department resolved")
	}
}

func TestDepartmentMaterialBalance(t *testing.T) {
	f := newBalanceFixture(t)

	depID := f.batching.ID
	balance, err := f.service.GetDepartmentMaterialBalance(context.Background(), &depID, "")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	if balance.DepartmentName != "Batching workshop" {
		t.Errorf("department = %q", balance.DepartmentName)
	}
	if balance.TotalItems != 2 {
		t.Errorf("expected 2 materials, got %d", balance.TotalItems)
	}
}

func TestDepartmentMaterialBalanceUnknownDepartment(t *testing.T) {
	f := newBalanceFixture(t)

	_, err := f.service.GetDepartmentMaterialBalance(context.Background(), nil, "No such workshop")
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = f.service.GetDepartmentMaterialBalance(context.Background(), nil, "")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStockReference(t *testing.T) {
	f := newBalanceFixture(t)

	ref, err := f.service.GetWorkshopStockReference(context.Background(), f.leadOxide.ID, nil)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}

	if ref.WarehouseStock != types.QuantityFromInt(80) {
		t.Errorf("warehouse stock = %s, want 80", ref.WarehouseStock)
	}
	// Issued sums both departments, planned is counted once for the
	// material: 12+5 = 17 issued against 18 planned.
	if ref.TotalIssued != types.QuantityFromInt(17) {
		t.Errorf("total issued = %s, want 17", ref.TotalIssued)
	}
	if ref.TotalPlanned != types.QuantityFromInt(18) {
		t.Errorf("total planned = %s, want 18", ref.TotalPlanned)
	}
	if ref.WorkshopBalance != types.QuantityFromInt(-1) {
		t.Errorf("workshop balance = %s, want 17-18 = -1", ref.WorkshopBalance)
	}
	// LastIssueTime is the newest across departments.
	want := f.issuedAt.Add(48 * time.Hour)
	if ref.LastIssueTime == nil || !ref.LastIssueTime.Equal(want) {
		t.Errorf("last issue time = %v, want %v", ref.LastIssueTime, want)
	}
}

func TestStockReferenceScopedToDepartment(t *testing.T) {
	f := newBalanceFixture(t)

	depID := f.batching.ID
	ref, err := f.service.GetWorkshopStockReference(context.Background(), f.leadOxide.ID, &depID)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	// Issued is scoped to the department, planned stays global:
	// 12 - 18 = -6.
	if ref.TotalIssued != types.QuantityFromInt(12) {
		t.Errorf("total issued = %s, want 12", ref.TotalIssued)
	}
	if ref.TotalPlanned != types.QuantityFromInt(18) {
		t.Errorf("total planned = %s, want 18", ref.TotalPlanned)
	}
	if ref.WorkshopBalance != types.QuantityFromInt(-6) {
		t.Errorf("workshop balance = %s, want -6", ref.WorkshopBalance)
	}
}

func TestPlannedComesFromBOMDefinition(t *testing.T) {
	// Two issuances against the same BOM record 4 kg of planned quantity
	// each on their documents, but the BOM definition still calls for
	// 4 kg in total. The plan side must not grow with repeat issues.
	separator := material.NewMaterial("MAT-0003", "Separator film", "kg", entity.WarehouseMain)
	batching := department.NewDepartment("WS-BATCH", "Batching workshop", department.TypeBatching)
	issuedAt := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

	repo := &fakeReportRepo{
		rows: []IssueAggregate{{
			DepartmentID: batching.ID, DepartmentName: batching.Name,
			MaterialID: separator.ID, MaterialCode: "MAT-0003", MaterialName: "Separator film", Unit: "kg",
			IssuedTotal:   types.QuantityFromInt(9),
			PlannedTotal:  types.QuantityFromInt(8),
			LastIssueTime: &issuedAt,
		}},
		planned: map[id.ID]types.Quantity{
			separator.ID: types.QuantityFromInt(4),
		},
	}
	materials := &fakeMaterialRepo{materials: map[id.ID]*material.Material{separator.ID: separator}}
	departments := &fakeDepartmentRepo{departments: map[id.ID]*department.Department{batching.ID: batching}}
	service := NewService(repo, materials, departments)

	report, err := service.CalculateWorkshopBalance(context.Background(), WorkshopBalanceFilter{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if got := report.Items[0].PlannedTotal; got != types.QuantityFromInt(4) {
		t.Errorf("planned = %s, want BOM quantity 4, not document sum 8", got)
	}
	if got := report.Items[0].Balance; got != types.QuantityFromInt(5) {
		t.Errorf("balance = %s, want 9-4 = 5", got)
	}

	ref, err := service.GetWorkshopStockReference(context.Background(), separator.ID, nil)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if ref.TotalPlanned != types.QuantityFromInt(4) {
		t.Errorf("reference planned = %s, want 4", ref.TotalPlanned)
	}
	if ref.WorkshopBalance != types.QuantityFromInt(5) {
		t.Errorf("reference balance = %s, want 5", ref.WorkshopBalance)
	}
}

func TestStockReferenceUnknownMaterial(t *testing.T) {
	f := newBalanceFixture(t)

	_, err := f.service.GetWorkshopStockReference(context.Background(), id.New(), nil)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
