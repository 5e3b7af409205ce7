package stockrecord

import (
	"context"
	"testing"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

type fakeRepo struct {
	appended   []entity.StockRecord
	lastFilter Filter
}

func (f *fakeRepo) Append(ctx context.Context, records []entity.StockRecord) error {
	f.appended = append(f.appended, records...)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter Filter) (Result, error) {
	f.lastFilter = filter
	return Result{Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (f *fakeRepo) GetByOrder(ctx context.Context, orderID id.ID) ([]entity.StockRecord, error) {
	var out []entity.StockRecord
	for _, r := range f.appended {
		if r.OrderID != nil && *r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) SumByMaterial(ctx context.Context, materialID id.ID, from, to *time.Time) (types.Quantity, error) {
	var sum types.Quantity
	for _, r := range f.appended {
		if r.MaterialID == materialID {
			sum += r.SignedQuantity()
		}
	}
	return sum, nil
}

func validRecord() entity.StockRecord {
	return entity.NewStockRecord(
		id.New(), "MAT-0001", "Lead oxide",
		entity.WarehouseMain, entity.RecordTypeOutbound,
		types.QuantityFromInt(5),
		types.QuantityFromInt(20), types.QuantityFromInt(15),
	)
}

func TestAppendValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entity.StockRecord)
		wantErr bool
	}{
		{"valid outbound", func(r *entity.StockRecord) {}, false},
		{"valid inbound", func(r *entity.StockRecord) { r.RecordType = entity.RecordTypeInbound }, false},
		{"zero quantity", func(r *entity.StockRecord) { r.Quantity = 0 }, true},
		{"negative quantity", func(r *entity.StockRecord) { r.Quantity = types.QuantityFromInt(-1) }, true},
		{"missing material", func(r *entity.StockRecord) { r.MaterialID = id.Nil() }, true},
		{"unknown record type", func(r *entity.StockRecord) { r.RecordType = "transfer" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := NewService(repo)

			rec := validRecord()
			tt.mutate(&rec)

			err := service.Append(context.Background(), []entity.StockRecord{rec})
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(repo.appended) != 0 {
					t.Error("invalid record must not reach the repository")
				}
			} else {
				if err != nil {
					t.Fatalf("append: %v", err)
				}
				if len(repo.appended) != 1 {
					t.Errorf("expected 1 record appended, got %d", len(repo.appended))
				}
			}
		})
	}
}

func TestAppendEmptyBatch(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo)

	if err := service.Append(context.Background(), nil); err != nil {
		t.Fatalf("empty batch must be a no-op, got %v", err)
	}
}

func TestListClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 50},
		{"negative", -1, 50},
		{"kept", 100, 100},
		{"capped", 10_000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := NewService(repo)

			if _, err := service.List(context.Background(), Filter{Limit: tt.limit}); err != nil {
				t.Fatalf("list: %v", err)
			}
			if repo.lastFilter.Limit != tt.want {
				t.Errorf("limit = %d, want %d", repo.lastFilter.Limit, tt.want)
			}
		})
	}
}

func TestGetByOrder(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo)

	orderID := id.New()
	rec := validRecord().WithOrder(orderID, "CK20260820000001")
	other := validRecord().WithOrder(id.New(), "CK20260820000002")

	if err := service.Append(context.Background(), []entity.StockRecord{rec, other}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := service.GetByOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("get by order: %v", err)
	}
	if len(got) != 1 || got[0].OrderNo != "CK20260820000001" {
		t.Errorf("got %d records, want the one for the order", len(got))
	}
}

func TestSignedSumReconstructsBalance(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo)

	matID := id.New()
	in := entity.NewStockRecord(matID, "MAT-0001", "Lead oxide",
		entity.WarehouseMain, entity.RecordTypeInbound,
		types.QuantityFromInt(100), 0, types.QuantityFromInt(100))
	out := entity.NewStockRecord(matID, "MAT-0001", "Lead oxide",
		entity.WarehouseMain, entity.RecordTypeOutbound,
		types.QuantityFromInt(30), types.QuantityFromInt(100), types.QuantityFromInt(70))

	if err := service.Append(context.Background(), []entity.StockRecord{in, out}); err != nil {
		t.Fatalf("append: %v", err)
	}

	sum, err := repo.SumByMaterial(context.Background(), matID, nil, nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != types.QuantityFromInt(70) {
		t.Errorf("signed sum = %s, want 70", sum)
	}
}
