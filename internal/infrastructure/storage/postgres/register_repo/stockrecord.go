// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/registers/stockrecord"
	"voltstock/internal/infrastructure/storage/postgres"
)

const stockRecordsTable = "reg_stock_records"

var stockRecordCols = []string{
	"line_id", "material_id", "material_code", "material_name",
	"warehouse_type", "record_type", "quantity",
	"before_stock", "after_stock",
	"order_id", "order_no", "department_id", "department_name",
	"operator", "remark", "created_at",
}

// StockRecordRepo implements stockrecord.Repository.
type StockRecordRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRecordRepo creates a new movement log repository.
func NewStockRecordRepo(txManager *postgres.TxManager) *StockRecordRepo {
	return &StockRecordRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append batch inserts records. Inside a transaction the COPY protocol
// is used; the log is append-only so there is no conflict handling.
func (r *StockRecordRepo) Append(ctx context.Context, records []entity.StockRecord) error {
	if len(records) == 0 {
		return nil
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, recordValues(rec))
		}
		if _, err := inserter.CopyFromSlice(ctx, stockRecordsTable, stockRecordCols, rows); err != nil {
			return fmt.Errorf("copy stock records: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(stockRecordsTable).Columns(stockRecordCols...)
	for _, rec := range records {
		q = q.Values(recordValues(rec)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock records: %w", err)
	}

	return nil
}

// List retrieves records matching the filter, newest first.
func (r *StockRecordRepo) List(ctx context.Context, filter stockrecord.Filter) (stockrecord.Result, error) {
	result := stockrecord.Result{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(stockRecordCols...).
		From(stockRecordsTable)

	q = applyRecordFilter(q, filter)

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC, line_id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Records, sql, args...); err != nil {
		return result, fmt.Errorf("list stock records: %w", err)
	}

	return result, nil
}

// GetByOrder retrieves all records created by one order.
func (r *StockRecordRepo) GetByOrder(ctx context.Context, orderID id.ID) ([]entity.StockRecord, error) {
	q := r.builder.
		Select(stockRecordCols...).
		From(stockRecordsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at, line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.StockRecord
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("get records by order: %w", err)
	}

	return records, nil
}

// SumByMaterial returns the signed movement total for a material.
func (r *StockRecordRepo) SumByMaterial(ctx context.Context, materialID id.ID, from, to *time.Time) (types.Quantity, error) {
	q := r.builder.
		Select(`COALESCE(SUM(CASE WHEN record_type = 'inbound' THEN quantity ELSE -quantity END), 0)`).
		From(stockRecordsTable).
		Where(squirrel.Eq{"material_id": materialID})

	if from != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total types.Quantity
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum by material: %w", err)
	}

	return total, nil
}

func applyRecordFilter(q squirrel.SelectBuilder, filter stockrecord.Filter) squirrel.SelectBuilder {
	if filter.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *filter.MaterialID})
	}
	if filter.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"department_id": *filter.DepartmentID})
	}
	if filter.DepartmentName != "" {
		q = q.Where(squirrel.Eq{"department_name": filter.DepartmentName})
	}
	if filter.WarehouseType != nil {
		q = q.Where(squirrel.Eq{"warehouse_type": *filter.WarehouseType})
	}
	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	return q
}

func recordValues(rec entity.StockRecord) []any {
	return []any{
		rec.LineID, rec.MaterialID, rec.MaterialCode, rec.MaterialName,
		rec.WarehouseType, rec.RecordType, rec.Quantity,
		rec.BeforeStock, rec.AfterStock,
		rec.OrderID, rec.OrderNo, rec.DepartmentID, rec.DepartmentName,
		rec.Operator, rec.Remark, rec.CreatedAt,
	}
}
