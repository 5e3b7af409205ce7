package outbound

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/posting"
	"voltstock/pkg/numerator"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	Repository

	orders map[id.ID]*Order
	lines  map[id.ID][]Line
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[id.ID]*Order),
		lines:  make(map[id.ID][]Line),
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, doc *Order) error {
	f.orders[doc.ID] = doc
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, docID id.ID) (*Order, error) {
	doc, ok := f.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("outbound order", docID.String())
	}
	return doc, nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, doc *Order) error {
	if _, ok := f.orders[doc.ID]; !ok {
		return apperror.NewNotFound("outbound order", doc.ID.String())
	}
	f.orders[doc.ID] = doc
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(f.orders, docID)
	return nil
}

func (f *fakeOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return f.lines[docID], nil
}

func (f *fakeOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	f.lines[docID] = lines
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
}

type recordSink struct {
	records []entity.StockRecord
}

func (s *recordSink) Append(ctx context.Context, records []entity.StockRecord) error {
	s.records = append(s.records, records...)
	return nil
}

type serviceFixture struct {
	service   *Service
	repo      *fakeOrderRepo
	records   *recordSink
	separator *material.Material
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	separator := material.NewMaterial("MAT-0003", "Separator film", "m", entity.WarehouseMain)
	separator.StockQuantity = types.QuantityFromInt(50)
	separator.Price = decimal.NewFromInt(2)

	repo := newFakeOrderRepo()
	materials := &fakeMaterialRepo{materials: map[id.ID]*material.Material{
		separator.ID: separator,
	}}
	records := &recordSink{}
	engine := posting.NewEngine(fakeTxManager{}, materials, records, nil)

	service := NewService(repo, materials, &fakeDepartmentRepo{}, engine, &numerator.Mock{}, fakeTxManager{})

	return &serviceFixture{
		service:   service,
		repo:      repo,
		records:   records,
		separator: separator,
	}
}

func (f *serviceFixture) draftOrder(t *testing.T, qty types.Quantity) *Order {
	t.Helper()
	doc := NewOrder(TypeRequisition, entity.WarehouseMain, "li")
	doc.AddLine(f.separator.ID, qty, decimal.NewFromInt(2))
	if err := f.service.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	return doc
}

func TestServiceCreateAssignsNumber(t *testing.T) {
	f := newServiceFixture(t)

	doc := f.draftOrder(t, types.QuantityFromInt(10))

	if doc.Number == "" {
		t.Error("number not assigned")
	}
	if doc.Status != entity.StatusDraft {
		t.Errorf("status = %s, want draft", doc.Status)
	}
	if doc.Lines[0].MaterialCode != "MAT-0003" {
		t.Errorf("material code not denormalized: %q", doc.Lines[0].MaterialCode)
	}
	if f.repo.orders[doc.ID] == nil {
		t.Error("order not persisted")
	}
}

func TestServiceConfirmAppliesStock(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.draftOrder(t, types.QuantityFromInt(20))

	number, err := f.service.Confirm(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if number != doc.Number {
		t.Errorf("returned number %q, want %q", number, doc.Number)
	}

	stored := f.repo.orders[doc.ID]
	if stored.Status != entity.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", stored.Status)
	}
	if stored.ConfirmedAt == nil {
		t.Error("ConfirmedAt not set")
	}

	if got := f.separator.StockQuantity; got != types.QuantityFromInt(30) {
		t.Errorf("stock = %s, want 30", got)
	}
	if len(f.records.records) != 1 {
		t.Fatalf("expected 1 movement record, got %d", len(f.records.records))
	}
	rec := f.records.records[0]
	if rec.RecordType != entity.RecordTypeOutbound {
		t.Errorf("record type = %s", rec.RecordType)
	}
	if rec.OrderNo != doc.Number {
		t.Errorf("record order no = %q, want %q", rec.OrderNo, doc.Number)
	}
}

func TestServiceConfirmInsufficientStock(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.draftOrder(t, types.QuantityFromInt(60))

	_, err := f.service.Confirm(context.Background(), doc.ID)
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if doc.Status == entity.StatusConfirmed {
		t.Error("order must stay draft on failed confirmation")
	}
}

func TestServiceConfirmTwice(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.draftOrder(t, types.QuantityFromInt(5))

	if _, err := f.service.Confirm(context.Background(), doc.ID); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	_, err := f.service.Confirm(context.Background(), doc.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}

	// Stock moved exactly once.
	if got := f.separator.StockQuantity; got != types.QuantityFromInt(45) {
		t.Errorf("stock = %s, want 45", got)
	}
}

func TestServiceConfirmUnknownOrder(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Confirm(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateConfirmedOrder(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.draftOrder(t, types.QuantityFromInt(5))

	if _, err := f.service.Confirm(context.Background(), doc.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	err := f.service.Update(context.Background(), doc)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("confirmed orders must be immutable, got %v", err)
	}
}

func TestServiceDeleteConfirmedOrder(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.draftOrder(t, types.QuantityFromInt(5))

	if _, err := f.service.Confirm(context.Background(), doc.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	err := f.service.Delete(context.Background(), doc.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("confirmed orders must not be deletable, got %v", err)
	}
	if _, ok := f.repo.orders[doc.ID]; !ok {
		t.Error("order must survive the rejected delete")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	f := newServiceFixture(t)

	doc := NewOrder(TypeRequisition, entity.WarehouseMain, "li")
	// No lines.
	err := f.service.Create(context.Background(), doc)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateUnknownMaterial(t *testing.T) {
	f := newServiceFixture(t)

	doc := NewOrder(TypeRequisition, entity.WarehouseMain, "li")
	doc.AddLine(id.New(), types.QuantityFromInt(1), decimal.NewFromInt(1))

	err := f.service.Create(context.Background(), doc)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
