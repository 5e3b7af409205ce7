package issuance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/bom"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/documents/outbound"
	"voltstock/internal/domain/posting"
	"voltstock/pkg/numerator"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBOMRepo serves one header and accumulates counters in memory.
// Unused Repository methods are left to the embedded nil interface.
type fakeBOMRepo struct {
	bom.Repository

	header   *bom.Header
	issued   map[id.ID]types.Quantity
	variance map[id.ID]types.Quantity
}

func (f *fakeBOMRepo) GetWithItems(ctx context.Context, bomID id.ID) (*bom.Header, error) {
	if f.header == nil || f.header.ID != bomID {
		return nil, apperror.NewNotFound("bom", bomID.String())
	}
	return f.header, nil
}

func (f *fakeBOMRepo) AccumulateIssue(ctx context.Context, itemID id.ID, issuedDelta, varianceDelta types.Quantity) error {
	f.issued[itemID] += issuedDelta
	f.variance[itemID] += varianceDelta
	return nil
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

func (f *fakeMaterialRepo) AdjustStock(ctx context.Context, matID id.ID, delta types.Quantity, allowNegative bool) (types.Quantity, types.Quantity, error) {
	m, ok := f.materials[matID]
	if !ok {
		return 0, 0, apperror.NewNotFound("material", matID.String())
	}
	before := m.StockQuantity
	after := before + delta
	if after < 0 && !allowNegative {
		return 0, 0, apperror.NewInsufficientStock(matID.String(), delta.Abs().Float(), before.Float())
	}
	m.StockQuantity = after
	return before, after, nil
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

type fakeOrderRepo struct {
	outbound.Repository

	created   *outbound.Order
	lines     []outbound.Line
	createErr error
}

func (f *fakeOrderRepo) Create(ctx context.Context, doc *outbound.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = doc
	return nil
}

func (f *fakeOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []outbound.Line) error {
	f.lines = lines
	return nil
}

type recordSink struct {
	records []entity.StockRecord
}

func (s *recordSink) Append(ctx context.Context, records []entity.StockRecord) error {
	s.records = append(s.records, records...)
	return nil
}

// fixture wires a recorder over in-memory fakes: one active BOM with two
// lines, base quantity 1 pcs.
type fixture struct {
	recorder    *Recorder
	boms        *fakeBOMRepo
	materials   *fakeMaterialRepo
	departments *fakeDepartmentRepo
	orders      *fakeOrderRepo
	records     *recordSink

	header    *bom.Header
	workshop  *department.Department
	leadOxide *material.Material
	caseItem  *material.Material
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	leadOxide := material.NewMaterial("MAT-0001", "Lead oxide", "kg", entity.WarehouseMain)
	leadOxide.StockQuantity = types.QuantityFromInt(100)
	leadOxide.Price = decimal.NewFromInt(12)

	caseItem := material.NewMaterial("MAT-0004", "Battery case", "pcs", entity.WarehouseMain)
	caseItem.StockQuantity = types.QuantityFromInt(500)
	caseItem.Price = decimal.NewFromInt(3)

	header := bom.NewHeader("BOM-12V60", "12V60 assembly", id.New(), types.QuantityFromInt(1))
	header.Status = bom.StatusActive
	header.Unit = "pcs"

	itemA := bom.NewItem(header.ID, leadOxide.ID, types.QuantityFromFloat(0.5), decimal.NewFromInt(3))
	itemA.Unit = "kg"
	itemB := bom.NewItem(header.ID, caseItem.ID, types.QuantityFromInt(1), decimal.Zero)
	itemB.Unit = "pcs"
	header.Items = []*bom.Item{itemA, itemB}

	workshop := department.NewDepartment("WS-BATCH", "Batching workshop", department.TypeBatching)

	boms := &fakeBOMRepo{
		header:   header,
		issued:   make(map[id.ID]types.Quantity),
		variance: make(map[id.ID]types.Quantity),
	}
	materials := &fakeMaterialRepo{materials: map[id.ID]*material.Material{
		leadOxide.ID: leadOxide,
		caseItem.ID:  caseItem,
	}}
	departments := &fakeDepartmentRepo{departments: map[id.ID]*department.Department{
		workshop.ID: workshop,
	}}
	orders := &fakeOrderRepo{}
	records := &recordSink{}

	engine := posting.NewEngine(fakeTxManager{}, materials, records, boms)
	recorder := NewRecorder(boms, materials, departments, orders, engine, &numerator.Mock{})

	return &fixture{
		recorder:    recorder,
		boms:        boms,
		materials:   materials,
		departments: departments,
		orders:      orders,
		records:     records,
		header:      header,
		workshop:    workshop,
		leadOxide:   leadOxide,
		caseItem:    caseItem,
	}
}

func (f *fixture) request() Request {
	depID := f.workshop.ID
	return Request{
		BOMID:              f.header.ID,
		DepartmentID:       &depID,
		ProductionQuantity: types.QuantityFromInt(10),
		Operator:           "zhang",
		Items: []RequestItem{
			{BOMItemID: f.header.Items[0].ID, IssuedQuantity: types.QuantityFromFloat(5.2)},
			{BOMItemID: f.header.Items[1].ID, IssuedQuantity: types.QuantityFromInt(9)},
		},
	}
}

func TestIssueMaterialsVarianceIdentity(t *testing.T) {
	f := newFixture(t)

	// Planned: 0.5kg x 10 = 5kg lead oxide, 1pcs x 10 = 10 cases.
	result, err := f.recorder.IssueMaterials(context.Background(), f.request())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 result items, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.PlannedQuantity != types.QuantityFromInt(5) {
		t.Errorf("planned = %s, want 5", first.PlannedQuantity)
	}
	if first.Variance != types.QuantityFromFloat(0.2) {
		t.Errorf("variance = %s, want 0.2", first.Variance)
	}
	if !strings.HasPrefix(first.Note, "over plan by") {
		t.Errorf("note = %q, want over-plan annotation", first.Note)
	}

	second := result.Items[1]
	if second.Variance != types.QuantityFromInt(-1) {
		t.Errorf("variance = %s, want -1", second.Variance)
	}
	if !strings.HasPrefix(second.Note, "under plan by") {
		t.Errorf("note = %q, want under-plan annotation", second.Note)
	}

	// Cumulative counters follow the same identity.
	itemA, itemB := f.header.Items[0], f.header.Items[1]
	if got := f.boms.issued[itemA.ID]; got != types.QuantityFromFloat(5.2) {
		t.Errorf("issued counter = %s, want 5.2", got)
	}
	if got := f.boms.variance[itemA.ID]; got != types.QuantityFromFloat(0.2) {
		t.Errorf("variance counter = %s, want 0.2", got)
	}
	if got := f.boms.variance[itemB.ID]; got != types.QuantityFromInt(-1) {
		t.Errorf("variance counter = %s, want -1", got)
	}
}

func TestIssueMaterialsCreatesConfirmedOrder(t *testing.T) {
	f := newFixture(t)

	result, err := f.recorder.IssueMaterials(context.Background(), f.request())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	order := f.orders.created
	if order == nil {
		t.Fatal("no order created")
	}
	if order.Status != entity.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", order.Status)
	}
	if order.ConfirmedAt == nil {
		t.Error("ConfirmedAt not set")
	}
	if order.OrderType != outbound.TypeProductionIssue {
		t.Errorf("order type = %s, want production_issue", order.OrderType)
	}
	if order.DepartmentID == nil || *order.DepartmentID != f.workshop.ID {
		t.Error("department not attached to order")
	}
	if order.BOMID == nil || *order.BOMID != f.header.ID {
		t.Error("bom not attached to order")
	}
	if !strings.HasPrefix(order.Number, outbound.NumberPrefix) {
		t.Errorf("number = %q, want %s prefix", order.Number, outbound.NumberPrefix)
	}
	if result.OrderNo != order.Number {
		t.Errorf("result number %q != order number %q", result.OrderNo, order.Number)
	}

	if len(f.orders.lines) != 2 {
		t.Fatalf("expected 2 saved lines, got %d", len(f.orders.lines))
	}
	line := f.orders.lines[0]
	if line.BOMItemID == nil || *line.BOMItemID != f.header.Items[0].ID {
		t.Error("line not linked to bom item")
	}
	if line.PlannedQuantity != types.QuantityFromInt(5) {
		t.Errorf("line planned = %s, want 5", line.PlannedQuantity)
	}
}

func TestIssueMaterialsDecrementsLedger(t *testing.T) {
	f := newFixture(t)

	if _, err := f.recorder.IssueMaterials(context.Background(), f.request()); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if got := f.leadOxide.StockQuantity; got != types.QuantityFromFloat(94.8) {
		t.Errorf("lead oxide stock = %s, want 94.8", got)
	}
	if got := f.caseItem.StockQuantity; got != types.QuantityFromInt(491) {
		t.Errorf("case stock = %s, want 491", got)
	}

	if len(f.records.records) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(f.records.records))
	}
	rec := f.records.records[0]
	if rec.RecordType != entity.RecordTypeOutbound {
		t.Errorf("record type = %s, want outbound", rec.RecordType)
	}
	if rec.BeforeStock != types.QuantityFromInt(100) || rec.AfterStock != types.QuantityFromFloat(94.8) {
		t.Errorf("snapshot = %s -> %s, want 100 -> 94.8", rec.BeforeStock, rec.AfterStock)
	}
	if rec.DepartmentName != f.workshop.Name {
		t.Errorf("record department = %q, want %q", rec.DepartmentName, f.workshop.Name)
	}
	if rec.Operator != "zhang" {
		t.Errorf("record operator = %q", rec.Operator)
	}
}

func TestIssueMaterialsAllowsNegativeStock(t *testing.T) {
	f := newFixture(t)
	f.leadOxide.StockQuantity = types.QuantityFromInt(2)

	if _, err := f.recorder.IssueMaterials(context.Background(), f.request()); err != nil {
		t.Fatalf("shop-floor issue must never be blocked by book stock: %v", err)
	}

	if got := f.leadOxide.StockQuantity; got != types.QuantityFromFloat(-3.2) {
		t.Errorf("stock = %s, want -3.2", got)
	}
}

func TestIssueMaterialsZeroLineMovesNoStock(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.Items[1].IssuedQuantity = 0

	result, err := f.recorder.IssueMaterials(context.Background(), req)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The zero line still accumulates the shortfall against plan.
	itemB := f.header.Items[1]
	if got := f.boms.variance[itemB.ID]; got != types.QuantityFromInt(-10) {
		t.Errorf("variance counter = %s, want -10", got)
	}

	// But it moves no stock and produces no order line.
	if got := f.caseItem.StockQuantity; got != types.QuantityFromInt(500) {
		t.Errorf("case stock = %s, want unchanged 500", got)
	}
	if len(f.orders.lines) != 1 {
		t.Errorf("expected 1 order line, got %d", len(f.orders.lines))
	}
	if len(result.Items) != 2 {
		t.Errorf("result must still report both lines, got %d", len(result.Items))
	}
}

func TestIssueMaterialsValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing bom", func(r *Request) { r.BOMID = id.Nil() }},
		{"zero production quantity", func(r *Request) { r.ProductionQuantity = 0 }},
		{"negative production quantity", func(r *Request) { r.ProductionQuantity = types.QuantityFromInt(-1) }},
		{"missing department", func(r *Request) { r.DepartmentID = nil; r.DepartmentName = "" }},
		{"no items", func(r *Request) { r.Items = nil }},
		{"negative issued quantity", func(r *Request) { r.Items[0].IssuedQuantity = types.QuantityFromInt(-1) }},
		{"all quantities zero", func(r *Request) {
			r.Items[0].IssuedQuantity = 0
			r.Items[1].IssuedQuantity = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(&req)

			_, err := f.recorder.IssueMaterials(context.Background(), req)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestIssueMaterialsInactiveBOM(t *testing.T) {
	f := newFixture(t)
	f.header.Status = bom.StatusDraft

	_, err := f.recorder.IssueMaterials(context.Background(), f.request())
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestIssueMaterialsUnknownBOM(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.BOMID = id.New()

	_, err := f.recorder.IssueMaterials(context.Background(), req)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIssueMaterialsUnknownBOMItem(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.Items[0].BOMItemID = id.New()

	_, err := f.recorder.IssueMaterials(context.Background(), req)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	appErr, _ := apperror.AsAppError(err)
	if _, ok := appErr.Details["itemIndex"]; !ok {
		t.Error("error must name the offending item index")
	}
}

func TestIssueMaterialsDepartmentByName(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.DepartmentID = nil
	req.DepartmentName = "Batching workshop"

	result, err := f.recorder.IssueMaterials(context.Background(), req)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if result.DepartmentName != "Batching workshop" {
		t.Errorf("department = %q", result.DepartmentName)
	}
}

func TestIssueMaterialsUnknownDepartment(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.DepartmentID = nil
	req.DepartmentName = "No such workshop"

	_, err := f.recorder.IssueMaterials(context.Background(), req)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIssueMaterialsOrderCreateFailure(t *testing.T) {
	f := newFixture(t)
	f.orders.createErr = errors.New("insert failed")

	result, err := f.recorder.IssueMaterials(context.Background(), f.request())
	if result != nil {
		t.Error("no result expected on failure")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if appErr.Details["step"] != "document" {
		t.Errorf("step = %v, want document", appErr.Details["step"])
	}
}
