package reports

import (
	"context"

	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

// Repository defines report data access. Implementations aggregate over
// confirmed outbound order lines, BOM definitions and the material ledger.
type Repository interface {
	// AggregateIssues sums issued and planned quantities per
	// (department, material) over confirmed main-warehouse orders
	// addressed to production departments, ordered by material code
	// then department name.
	AggregateIssues(ctx context.Context, filter IssueAggregateFilter) ([]IssueAggregate, error)

	// AggregatePlannedByMaterial sums BOM line item quantities per
	// material across BOM definitions. Used for global plan attribution.
	AggregatePlannedByMaterial(ctx context.Context, materialID *id.ID) (map[id.ID]types.Quantity, error)

	// GetWarehouseStats aggregates the ledger per warehouse type.
	GetWarehouseStats(ctx context.Context) ([]WarehouseStats, error)
}
