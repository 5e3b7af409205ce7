package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/infrastructure/storage/postgres"
)

const materialTable = "cat_materials"

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	*BaseCatalogRepo[*material.Material]
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txManager *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*material.Material](
			txManager,
			materialTable,
			postgres.ExtractDBColumns[material.Material](),
			func() *material.Material { return &material.Material{} },
		),
	}
}

// AdjustStock applies a signed delta to the material balance in one UPDATE
// and returns the balance before and after. When allowNegative is false
// the WHERE clause refuses deltas that would take the balance below zero;
// zero rows affected then means either a missing material or insufficient
// stock, and the follow-up read tells the two apart.
func (r *MaterialRepo) AdjustStock(ctx context.Context, materialID id.ID, delta types.Quantity, allowNegative bool) (types.Quantity, types.Quantity, error) {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	sql := `
		UPDATE cat_materials
		SET stock_quantity = stock_quantity + $2,
		    version = version + 1
		WHERE id = $1
		  AND deletion_mark = false
		  AND ($3 OR stock_quantity + $2 >= 0)
		RETURNING stock_quantity - $2, stock_quantity
	`

	var before, after types.Quantity
	err := querier.QueryRow(ctx, sql, materialID, delta, allowNegative).Scan(&before, &after)
	if err == nil {
		return before, after, nil
	}
	if !pgxscan.NotFound(err) {
		return 0, 0, fmt.Errorf("adjust stock: %w", err)
	}

	// No row updated. Distinguish insufficient stock from a missing material.
	var current types.Quantity
	checkErr := querier.QueryRow(ctx,
		`SELECT stock_quantity FROM cat_materials WHERE id = $1 AND deletion_mark = false`,
		materialID).Scan(&current)
	if checkErr != nil {
		if pgxscan.NotFound(checkErr) {
			return 0, 0, apperror.NewNotFound("material", materialID.String())
		}
		return 0, 0, fmt.Errorf("adjust stock check: %w", checkErr)
	}

	return 0, 0, apperror.NewInsufficientStock(materialID.String(), delta.Abs().Float(), current.Float())
}

// FindLowStock retrieves materials with stock at or below their minimum.
func (r *MaterialRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*material.Material], error) {
	result := domain.ListResult[*material.Material]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Gt{"min_stock": 0}).
		Where(squirrel.Expr("stock_quantity <= min_stock")).
		OrderBy("code ASC")

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

	var items []*material.Material
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return result, fmt.Errorf("find low stock: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}
