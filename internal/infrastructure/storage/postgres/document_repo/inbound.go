package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstock/internal/core/id"
	"voltstock/internal/domain"
	"voltstock/internal/domain/documents/inbound"
	"voltstock/internal/infrastructure/storage/postgres"
)

const (
	inboundOrdersTable = "doc_inbound_orders"
	inboundLinesTable  = "doc_inbound_order_lines"
)

// InboundRepo implements inbound.Repository.
type InboundRepo struct {
	*BaseDocumentRepo[*inbound.Order]
}

// NewInboundRepo creates a new inbound order repository.
func NewInboundRepo(txManager *postgres.TxManager) *InboundRepo {
	return &InboundRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*inbound.Order](
			txManager,
			inboundOrdersTable,
			postgres.ExtractDBColumns[inbound.Order](),
			func() *inbound.Order { return &inbound.Order{} },
		),
	}
}

func (r *InboundRepo) GetLines(ctx context.Context, docID id.ID) ([]inbound.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "material_id", "material_code", "material_name",
			"quantity", "unit", "price", "amount",
		).
		From(inboundLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []inbound.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *InboundRepo) SaveLines(ctx context.Context, docID id.ID, lines []inbound.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + inboundLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(inboundLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "material_id", "material_code",
			"material_name", "quantity", "unit", "price", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.MaterialID, line.MaterialCode,
			line.MaterialName, line.Quantity, line.Unit, line.Price, line.Amount,
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

func (r *InboundRepo) List(ctx context.Context, filter inbound.ListFilter) (domain.ListResult[*inbound.Order], error) {
	result := domain.ListResult[*inbound.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
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
			squirrel.ILike{"supplier_name": searchPattern},
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
