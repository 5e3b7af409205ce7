package inbound

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
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
		return nil, apperror.NewNotFound("inbound order", docID.String())
	}
	return doc, nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, doc *Order) error {
	f.orders[doc.ID] = doc
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
	m.StockQuantity = before + delta
	return before, m.StockQuantity, nil
}

type recordSink struct {
	records []entity.StockRecord
}

func (s *recordSink) Append(ctx context.Context, records []entity.StockRecord) error {
	s.records = append(s.records, records...)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeOrderRepo, *recordSink, *material.Material) {
	t.Helper()

	electrolyte := material.NewMaterial("MAT-0002", "Electrolyte", "L", entity.WarehouseMain)
	electrolyte.StockQuantity = types.QuantityFromInt(10)
	electrolyte.Price = decimal.NewFromFloat(1.5)

	repo := newFakeOrderRepo()
	materials := &fakeMaterialRepo{materials: map[id.ID]*material.Material{
		electrolyte.ID: electrolyte,
	}}
	records := &recordSink{}
	engine := posting.NewEngine(fakeTxManager{}, materials, records, nil)

	service := NewService(repo, materials, engine, &numerator.Mock{}, fakeTxManager{})
	return service, repo, records, electrolyte
}

func TestInboundCreateAssignsNumber(t *testing.T) {
	service, repo, _, electrolyte := newTestService(t)

	doc := NewOrder(TypePurchase, entity.WarehouseMain, "wang")
	doc.AddLine(electrolyte.ID, types.QuantityFromInt(40), decimal.NewFromFloat(1.5))

	if err := service.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	if doc.Number == "" {
		t.Error("number not assigned")
	}
	if doc.Lines[0].MaterialName != "Electrolyte" {
		t.Errorf("material name not denormalized: %q", doc.Lines[0].MaterialName)
	}
	if len(repo.lines[doc.ID]) != 1 {
		t.Error("lines not persisted")
	}
}

func TestInboundConfirmIncreasesStock(t *testing.T) {
	service, repo, records, electrolyte := newTestService(t)

	doc := NewOrder(TypePurchase, entity.WarehouseMain, "wang")
	doc.AddLine(electrolyte.ID, types.QuantityFromInt(40), decimal.NewFromFloat(1.5))
	if err := service.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	number, err := service.Confirm(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if number != doc.Number {
		t.Errorf("returned %q, want %q", number, doc.Number)
	}

	if got := electrolyte.StockQuantity; got != types.QuantityFromInt(50) {
		t.Errorf("stock = %s, want 50", got)
	}
	if repo.orders[doc.ID].Status != entity.StatusConfirmed {
		t.Error("order not confirmed")
	}

	if len(records.records) != 1 {
		t.Fatalf("expected 1 movement record, got %d", len(records.records))
	}
	rec := records.records[0]
	if rec.RecordType != entity.RecordTypeInbound {
		t.Errorf("record type = %s, want inbound", rec.RecordType)
	}
	if rec.BeforeStock != types.QuantityFromInt(10) || rec.AfterStock != types.QuantityFromInt(50) {
		t.Errorf("snapshot = %s -> %s, want 10 -> 50", rec.BeforeStock, rec.AfterStock)
	}
}

func TestInboundConfirmTwice(t *testing.T) {
	service, _, _, electrolyte := newTestService(t)

	doc := NewOrder(TypePurchase, entity.WarehouseMain, "wang")
	doc.AddLine(electrolyte.ID, types.QuantityFromInt(5), decimal.NewFromFloat(1.5))
	if err := service.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Confirm(context.Background(), doc.ID); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	_, err := service.Confirm(context.Background(), doc.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if got := electrolyte.StockQuantity; got != types.QuantityFromInt(15) {
		t.Errorf("stock = %s, want single increment to 15", got)
	}
}

func TestInboundUpdateConfirmed(t *testing.T) {
	service, _, _, electrolyte := newTestService(t)

	doc := NewOrder(TypePurchase, entity.WarehouseMain, "wang")
	doc.AddLine(electrolyte.ID, types.QuantityFromInt(5), decimal.NewFromFloat(1.5))
	if err := service.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Confirm(context.Background(), doc.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	err := service.Update(context.Background(), doc)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("confirmed orders must be immutable, got %v", err)
	}
}
