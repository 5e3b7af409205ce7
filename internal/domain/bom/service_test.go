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

type serviceTxManager struct{}

func (serviceTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type serviceBOMRepo struct {
	Repository

	headers map[id.ID]*Header
	byCode  map[string]*Header
	refs    map[id.ID]int64
	status  map[id.ID]Status
}

func newServiceBOMRepo() *serviceBOMRepo {
	return &serviceBOMRepo{
		headers: make(map[id.ID]*Header),
		byCode:  make(map[string]*Header),
		refs:    make(map[id.ID]int64),
		status:  make(map[id.ID]Status),
	}
}

func (f *serviceBOMRepo) Create(ctx context.Context, header *Header) error {
	f.headers[header.ID] = header
	f.byCode[header.Code] = header
	return nil
}

func (f *serviceBOMRepo) GetByID(ctx context.Context, bomID id.ID) (*Header, error) {
	h, ok := f.headers[bomID]
	if !ok {
		return nil, apperror.NewNotFound("bom", bomID.String())
	}
	return h, nil
}

func (f *serviceBOMRepo) Update(ctx context.Context, header *Header) error {
	f.headers[header.ID] = header
	return nil
}

func (f *serviceBOMRepo) UpdateStatus(ctx context.Context, bomID id.ID, status Status) error {
	f.status[bomID] = status
	f.headers[bomID].Status = status
	return nil
}

func (f *serviceBOMRepo) Delete(ctx context.Context, bomID id.ID) error {
	delete(f.headers, bomID)
	return nil
}

func (f *serviceBOMRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := f.byCode[code]
	return ok, nil
}

func (f *serviceBOMRepo) CountConfirmedOrderRefs(ctx context.Context, bomID id.ID) (int64, error) {
	return f.refs[bomID], nil
}

type serviceMaterialRepo struct {
	material.Repository

	materials map[id.ID]*material.Material
}

func (f *serviceMaterialRepo) GetByID(ctx context.Context, matID id.ID) (*material.Material, error) {
	m, ok := f.materials[matID]
	if !ok {
		return nil, apperror.NewNotFound("material", matID.String())
	}
	return m, nil
}

func newTestService(t *testing.T) (*Service, *serviceBOMRepo, *material.Material, *material.Material) {
	t.Helper()

	battery := material.NewMaterial("MAT-0006", "12V60 battery", "pcs", entity.WarehouseMain)
	leadOxide := material.NewMaterial("MAT-0001", "Lead oxide", "kg", entity.WarehouseMain)

	repo := newServiceBOMRepo()
	materials := &serviceMaterialRepo{materials: map[id.ID]*material.Material{
		battery.ID:   battery,
		leadOxide.ID: leadOxide,
	}}

	return NewService(repo, materials, serviceTxManager{}), repo, battery, leadOxide
}

func draftHeader(product, component *material.Material) *Header {
	header := NewHeader("BOM-12V60", "12V60 assembly", product.ID, types.QuantityFromInt(1))
	header.Items = []*Item{
		NewItem(header.ID, component.ID, types.QuantityFromFloat(0.5), decimal.NewFromInt(3)),
	}
	return header
}

func TestServiceCreateDenormalizes(t *testing.T) {
	service, repo, battery, leadOxide := newTestService(t)

	header := draftHeader(battery, leadOxide)
	// Callers cannot smuggle in their own derived quantity.
	header.Items[0].ActualQuantity = types.QuantityFromInt(999)

	if err := service.Create(context.Background(), header); err != nil {
		t.Fatalf("create: %v", err)
	}

	if header.ProductName != "12V60 battery" {
		t.Errorf("product name = %q", header.ProductName)
	}
	if header.Unit != "pcs" {
		t.Errorf("unit = %q, want product unit", header.Unit)
	}
	item := header.Items[0]
	if item.MaterialCode != "MAT-0001" || item.Unit != "kg" {
		t.Errorf("item not denormalized: code=%q unit=%q", item.MaterialCode, item.Unit)
	}
	// 0.5 kg with 3% loss: 0.515.
	if item.ActualQuantity != types.QuantityFromFloat(0.515) {
		t.Errorf("actual = %s, want recomputed 0.515", item.ActualQuantity)
	}
	if repo.headers[header.ID] == nil {
		t.Error("header not persisted")
	}
}

func TestServiceCreateDuplicateCode(t *testing.T) {
	service, _, battery, leadOxide := newTestService(t)

	if err := service.Create(context.Background(), draftHeader(battery, leadOxide)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := service.Create(context.Background(), draftHeader(battery, leadOxide))
	if !apperror.IsDuplicate(err) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestServiceCreateWithoutItems(t *testing.T) {
	service, _, battery, _ := newTestService(t)

	header := NewHeader("BOM-EMPTY", "Empty", battery.ID, types.QuantityFromInt(1))
	err := service.Create(context.Background(), header)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateUnknownMaterial(t *testing.T) {
	service, _, battery, _ := newTestService(t)

	header := NewHeader("BOM-X", "Test", battery.ID, types.QuantityFromInt(1))
	header.Items = []*Item{NewItem(header.ID, id.New(), types.QuantityFromInt(1), decimal.Zero)}

	err := service.Create(context.Background(), header)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceActivate(t *testing.T) {
	service, repo, battery, leadOxide := newTestService(t)

	header := draftHeader(battery, leadOxide)
	if err := service.Create(context.Background(), header); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.Activate(context.Background(), header.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if repo.status[header.ID] != StatusActive {
		t.Errorf("status = %s, want active", repo.status[header.ID])
	}

	// Second activation is rejected.
	err := service.Activate(context.Background(), header.ID)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestServiceUpdateFrozenByConfirmedOrders(t *testing.T) {
	service, repo, battery, leadOxide := newTestService(t)

	header := draftHeader(battery, leadOxide)
	if err := service.Create(context.Background(), header); err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.refs[header.ID] = 2

	err := service.Update(context.Background(), header)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("bom with confirmed issues must be frozen, got %v", err)
	}

	err = service.Delete(context.Background(), header.ID)
	appErr, ok = apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInvalidState {
		t.Fatalf("bom with confirmed issues must not be deletable, got %v", err)
	}
}

func TestServiceUpdateRecomputesActual(t *testing.T) {
	service, _, battery, leadOxide := newTestService(t)

	header := draftHeader(battery, leadOxide)
	if err := service.Create(context.Background(), header); err != nil {
		t.Fatalf("create: %v", err)
	}

	header.Items[0].Quantity = types.QuantityFromInt(2)
	header.Items[0].LossRate = decimal.NewFromInt(5)
	if err := service.Update(context.Background(), header); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := header.Items[0].ActualQuantity; got != types.QuantityFromFloat(2.1) {
		t.Errorf("actual = %s, want 2.1", got)
	}
}
