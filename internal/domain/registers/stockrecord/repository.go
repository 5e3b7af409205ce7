// Package stockrecord provides the append-only material movement log.
package stockrecord

import (
	"context"
	"time"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

// Repository defines operations for the movement log. Records are never
// updated or deleted; there is no reverse operation.
type Repository interface {
	// Append batch inserts records (used during posting, inside the
	// caller's transaction).
	Append(ctx context.Context, records []entity.StockRecord) error

	// List retrieves records matching the filter, newest first.
	List(ctx context.Context, filter Filter) (Result, error)

	// GetByOrder retrieves all records created by one order.
	GetByOrder(ctx context.Context, orderID id.ID) ([]entity.StockRecord, error)

	// SumByMaterial returns the signed movement total for a material
	// (optionally within a time range), used to cross-check the ledger.
	SumByMaterial(ctx context.Context, materialID id.ID, from, to *time.Time) (types.Quantity, error)
}

// Filter narrows movement-log queries.
type Filter struct {
	MaterialID     *id.ID
	DepartmentID   *id.ID
	DepartmentName string
	WarehouseType  *entity.WarehouseType
	RecordType     *entity.RecordType
	FromDate       *time.Time
	ToDate         *time.Time
	Limit          int
	Offset         int
}

// Result is a paged movement-log slice.
type Result struct {
	Records    []entity.StockRecord `json:"records"`
	TotalCount int64                `json:"totalCount"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}
