// Package bom_repo provides the PostgreSQL implementation of bom.Repository.
package bom_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain"
	"voltstock/internal/domain/bom"
	"voltstock/internal/infrastructure/storage/postgres"
	"voltstock/internal/infrastructure/storage/postgres/catalog_repo"
)

const (
	bomTable      = "cat_boms"
	bomItemsTable = "cat_bom_items"
)

var bomItemCols = []string{
	"id", "bom_id", "material_id", "material_code", "material_name",
	"quantity", "unit", "loss_rate", "actual_quantity",
	"issued_quantity", "variance", "sort_order",
}

// BOMRepo implements bom.Repository. The header rides the generic catalog
// repo; line items are managed here.
type BOMRepo struct {
	*catalog_repo.BaseCatalogRepo[*bom.Header]
	txManager *postgres.TxManager
}

// NewBOMRepo creates a new BOM repository.
func NewBOMRepo(txManager *postgres.TxManager) *BOMRepo {
	return &BOMRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo[*bom.Header](
			txManager,
			bomTable,
			postgres.ExtractDBColumns[bom.Header](),
			func() *bom.Header { return &bom.Header{} },
		),
		txManager: txManager,
	}
}

// Create inserts the header and all line items.
func (r *BOMRepo) Create(ctx context.Context, header *bom.Header) error {
	if err := r.BaseCatalogRepo.Create(ctx, header); err != nil {
		return err
	}
	return r.insertItems(ctx, header.ID, header.Items)
}

// GetWithItems retrieves the header with its line items.
func (r *BOMRepo) GetWithItems(ctx context.Context, bomID id.ID) (*bom.Header, error) {
	header, err := r.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	items, err := r.GetItems(ctx, bomID)
	if err != nil {
		return nil, err
	}
	header.Items = items

	return header, nil
}

// GetItems retrieves line items ordered by sort order.
func (r *BOMRepo) GetItems(ctx context.Context, bomID id.ID) ([]*bom.Item, error) {
	q := r.Builder().
		Select(bomItemCols...).
		From(bomItemsTable).
		Where(squirrel.Eq{"bom_id": bomID}).
		OrderBy("sort_order, material_code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*bom.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get bom items: %w", err)
	}

	return items, nil
}

// GetItemByID retrieves one line item.
func (r *BOMRepo) GetItemByID(ctx context.Context, itemID id.ID) (*bom.Item, error) {
	q := r.Builder().
		Select(bomItemCols...).
		From(bomItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item bom.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("bom item", itemID.String())
		}
		return nil, fmt.Errorf("get bom item: %w", err)
	}

	return &item, nil
}

// ListItemsByMaterial retrieves all line items consuming a material.
func (r *BOMRepo) ListItemsByMaterial(ctx context.Context, materialID id.ID) ([]*bom.Item, error) {
	q := r.Builder().
		Select(bomItemCols...).
		From(bomItemsTable).
		Where(squirrel.Eq{"material_id": materialID}).
		OrderBy("bom_id, sort_order")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*bom.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list bom items by material: %w", err)
	}

	return items, nil
}

// Update rewrites the header and replaces its line items.
func (r *BOMRepo) Update(ctx context.Context, header *bom.Header) error {
	if err := r.BaseCatalogRepo.Update(ctx, header); err != nil {
		return err
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx,
		"DELETE FROM "+bomItemsTable+" WHERE bom_id = $1", header.ID); err != nil {
		return fmt.Errorf("delete bom items: %w", err)
	}

	return r.insertItems(ctx, header.ID, header.Items)
}

// UpdateStatus changes only the header status.
func (r *BOMRepo) UpdateStatus(ctx context.Context, bomID id.ID, status bom.Status) error {
	q := r.Builder().
		Update(bomTable).
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": bomID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update bom status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("bom", bomID.String())
	}

	return nil
}

// Delete removes the header and its items.
func (r *BOMRepo) Delete(ctx context.Context, bomID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	if _, err := querier.Exec(ctx,
		"DELETE FROM "+bomItemsTable+" WHERE bom_id = $1", bomID); err != nil {
		return fmt.Errorf("delete bom items: %w", err)
	}

	result, err := querier.Exec(ctx,
		"DELETE FROM "+bomTable+" WHERE id = $1", bomID)
	if err != nil {
		return fmt.Errorf("delete bom: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("bom", bomID.String())
	}

	return nil
}

// List retrieves headers with filtering and pagination.
func (r *BOMRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*bom.Header], error) {
	return r.BaseCatalogRepo.List(ctx, filter)
}

// AccumulateIssue adds deltas to a line item's cumulative counters in one
// UPDATE so concurrent issuances never lose increments.
func (r *BOMRepo) AccumulateIssue(ctx context.Context, itemID id.ID, issuedDelta, varianceDelta types.Quantity) error {
	sql := `
		UPDATE cat_bom_items
		SET issued_quantity = issued_quantity + $2,
		    variance = variance + $3
		WHERE id = $1
	`

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, itemID, issuedDelta, varianceDelta)
	if err != nil {
		return fmt.Errorf("accumulate issue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("bom item", itemID.String())
	}

	return nil
}

// CountConfirmedOrderRefs counts confirmed outbound orders referencing the BOM.
func (r *BOMRepo) CountConfirmedOrderRefs(ctx context.Context, bomID id.ID) (int64, error) {
	sql := `
		SELECT COUNT(*)
		FROM doc_outbound_orders
		WHERE bom_id = $1 AND status = 'confirmed' AND deletion_mark = false
	`

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, bomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count order refs: %w", err)
	}

	return count, nil
}

func (r *BOMRepo) insertItems(ctx context.Context, bomID id.ID, items []*bom.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(bomItemsTable).
		Columns(bomItemCols...)

	for _, item := range items {
		q = q.Values(
			item.ID, bomID, item.MaterialID, item.MaterialCode, item.MaterialName,
			item.Quantity, item.Unit, item.LossRate, item.ActualQuantity,
			item.IssuedQuantity, item.Variance, item.SortOrder,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bom items: %w", err)
	}

	return nil
}
