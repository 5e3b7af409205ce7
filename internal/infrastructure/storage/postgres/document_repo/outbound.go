package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/id"
	"voltstock/internal/domain"
	"voltstock/internal/domain/documents/outbound"
	"voltstock/internal/infrastructure/storage/postgres"
)

const (
	outboundOrdersTable = "doc_outbound_orders"
	outboundLinesTable  = "doc_outbound_order_lines"
)

// OutboundRepo implements outbound.Repository.
type OutboundRepo struct {
	*BaseDocumentRepo[*outbound.Order]
}

// NewOutboundRepo creates a new outbound order repository.
func NewOutboundRepo(txManager *postgres.TxManager) *OutboundRepo {
	return &OutboundRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*outbound.Order](
			txManager,
			outboundOrdersTable,
			postgres.ExtractDBColumns[outbound.Order](),
			func() *outbound.Order { return &outbound.Order{} },
		),
	}
}

func (r *OutboundRepo) GetLines(ctx context.Context, docID id.ID) ([]outbound.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "material_id", "material_code", "material_name",
			"quantity", "unit", "price", "amount",
			"bom_item_id", "planned_quantity", "variance",
		).
		From(outboundLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []outbound.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *OutboundRepo) SaveLines(ctx context.Context, docID id.ID, lines []outbound.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + outboundLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(outboundLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "material_id", "material_code",
			"material_name", "quantity", "unit", "price", "amount",
			"bom_item_id", "planned_quantity", "variance",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.MaterialID, line.MaterialCode,
			line.MaterialName, line.Quantity, line.Unit, line.Price, line.Amount,
			line.BOMItemID, line.PlannedQuantity, line.Variance,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *OutboundRepo) List(ctx context.Context, filter outbound.ListFilter) (domain.ListResult[*outbound.Order], error) {
	result := domain.ListResult[*outbound.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"department_id": *filter.DepartmentID})
	}

	if filter.BOMID != nil {
		q = q.Where(squirrel.Eq{"bom_id": *filter.BOMID})
	}

	if filter.WarehouseType != nil {
		q = q.Where(squirrel.Eq{"warehouse_type": *filter.WarehouseType})
	}

	if filter.OrderType != nil {
		q = q.Where(squirrel.Eq{"order_type": *filter.OrderType})
	}

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"department_name": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

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

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
