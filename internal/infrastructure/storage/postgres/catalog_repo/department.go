package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/apperror"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/infrastructure/storage/postgres"
)

const departmentTable = "cat_departments"

// DepartmentRepo implements department.Repository.
type DepartmentRepo struct {
	*BaseCatalogRepo[*department.Department]
}

// NewDepartmentRepo creates a new department repository.
func NewDepartmentRepo(txManager *postgres.TxManager) *DepartmentRepo {
	return &DepartmentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*department.Department](
			txManager,
			departmentTable,
			postgres.ExtractDBColumns[department.Department](),
			func() *department.Department { return &department.Department{} },
		),
	}
}

// FindByName retrieves a department by exact name.
func (r *DepartmentRepo) FindByName(ctx context.Context, name string) (*department.Department, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("department", name)
		}
		return nil, err
	}
	return item, nil
}

// ListProduction retrieves all production workshops ordered by name.
func (r *DepartmentRepo) ListProduction(ctx context.Context) ([]*department.Department, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"production_type": department.ProductionTypes}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*department.Department
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list production departments: %w", err)
	}
	return items, nil
}
