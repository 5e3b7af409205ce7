// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/reports"
	"voltstock/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository. Balances are reconstructed
// from confirmed outbound order lines, not from a running total, so the
// report always agrees with the documents.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func productionTypeNames() []string {
	names := make([]string, len(department.ProductionTypes))
	for i, pt := range department.ProductionTypes {
		names[i] = string(pt)
	}
	return names
}

// issueAggregateQuery builds the workshop issue scan. An issue counts
// when a confirmed main-warehouse outbound order is addressed to a
// production department, regardless of the order subtype: a plain
// requisition drawn by a workshop consumes its balance the same way a
// production issue does, while an issue overridden to another warehouse
// does not touch the workshop ledger.
func issueAggregateQuery(filter reports.IssueAggregateFilter) (string, []any) {
	query := `
		SELECT
			o.department_id,
			o.department_name,
			l.material_id,
			l.material_code,
			l.material_name,
			MAX(l.unit) AS unit,
			COALESCE(SUM(l.quantity), 0) AS issued_total,
			COALESCE(SUM(l.planned_quantity), 0) AS planned_total,
			MAX(o.confirmed_at) AS last_issue_time
		FROM doc_outbound_order_lines l
		JOIN doc_outbound_orders o ON o.id = l.document_id
		JOIN cat_departments d ON d.id = o.department_id
		WHERE o.status = 'confirmed'
		  AND o.warehouse_type = 'main'
		  AND o.deletion_mark = false
		  AND d.production_type = ANY($1)
	`
	args := []any{productionTypeNames()}
	argIndex := 2

	if filter.DepartmentID != nil {
		query += fmt.Sprintf(" AND o.department_id = $%d", argIndex)
		args = append(args, *filter.DepartmentID)
		argIndex++
	}
	if filter.DepartmentName != "" {
		query += fmt.Sprintf(" AND o.department_name = $%d", argIndex)
		args = append(args, filter.DepartmentName)
		argIndex++
	}
	if filter.MaterialID != nil {
		query += fmt.Sprintf(" AND l.material_id = $%d", argIndex)
		args = append(args, *filter.MaterialID)
		argIndex++
	}

	query += `
		GROUP BY o.department_id, o.department_name, l.material_id, l.material_code, l.material_name
		ORDER BY l.material_code, o.department_name
	`

	return query, args
}

// AggregateIssues sums issued and planned quantities per
// (department, material) over confirmed main-warehouse orders addressed
// to production departments.
func (r *ReportRepo) AggregateIssues(ctx context.Context, filter reports.IssueAggregateFilter) ([]reports.IssueAggregate, error) {
	query, args := issueAggregateQuery(filter)

	var rows []reports.IssueAggregate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate issues: %w", err)
	}

	return rows, nil
}

// plannedByMaterialQuery builds the plan-side scan. The plan is the BOM
// definition itself: the sum of line item quantities over live BOMs.
// Issuance documents never feed this side, so repeat issues against the
// same BOM cannot inflate the plan.
func plannedByMaterialQuery(materialID *id.ID) (string, []any) {
	query := `
		SELECT
			i.material_id,
			COALESCE(SUM(i.quantity), 0) AS planned_total
		FROM cat_bom_items i
		JOIN cat_boms b ON b.id = i.bom_id
		WHERE b.deletion_mark = false
	`
	args := []any{}
	if materialID != nil {
		query += " AND i.material_id = $1"
		args = append(args, *materialID)
	}
	query += " GROUP BY i.material_id"

	return query, args
}

// AggregatePlannedByMaterial sums BOM line item quantities per material
// across all BOM definitions.
func (r *ReportRepo) AggregatePlannedByMaterial(ctx context.Context, materialID *id.ID) (map[id.ID]types.Quantity, error) {
	query, args := plannedByMaterialQuery(materialID)

	type plannedRow struct {
		MaterialID   id.ID          `db:"material_id"`
		PlannedTotal types.Quantity `db:"planned_total"`
	}

	var rows []plannedRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate planned: %w", err)
	}

	result := make(map[id.ID]types.Quantity, len(rows))
	for _, row := range rows {
		result[row.MaterialID] = row.PlannedTotal
	}

	return result, nil
}

// GetWarehouseStats aggregates the material ledger per warehouse type.
func (r *ReportRepo) GetWarehouseStats(ctx context.Context) ([]reports.WarehouseStats, error) {
	query := `
		SELECT
			warehouse_type,
			COUNT(*) AS material_count,
			COALESCE(SUM(stock_quantity), 0) AS total_quantity,
			COALESCE(SUM((stock_quantity::numeric / 10000) * price), 0) AS total_value,
			COUNT(*) FILTER (WHERE min_stock > 0 AND stock_quantity <= min_stock) AS low_stock_count
		FROM cat_materials
		WHERE deletion_mark = false
		GROUP BY warehouse_type
		ORDER BY warehouse_type
	`

	var stats []reports.WarehouseStats
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &stats, query); err != nil {
		return nil, fmt.Errorf("warehouse stats: %w", err)
	}

	return stats, nil
}
