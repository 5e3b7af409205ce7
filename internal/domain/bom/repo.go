package bom

import (
	"context"

	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain"
)

// Repository defines the interface for BOM persistence.
type Repository interface {
	// Create inserts the header and all line items.
	Create(ctx context.Context, header *Header) error

	// GetByID retrieves the header without items.
	GetByID(ctx context.Context, id id.ID) (*Header, error)

	// GetByCode retrieves the header without items.
	GetByCode(ctx context.Context, code string) (*Header, error)

	// GetWithItems retrieves the header with line items ordered by SortOrder.
	GetWithItems(ctx context.Context, id id.ID) (*Header, error)

	// GetItems retrieves line items for a BOM ordered by SortOrder.
	GetItems(ctx context.Context, bomID id.ID) ([]*Item, error)

	// GetItemByID retrieves one line item.
	GetItemByID(ctx context.Context, itemID id.ID) (*Item, error)

	// ListItemsByMaterial retrieves all line items (across BOMs) consuming
	// a material. Used by the balance calculator's planned-quantity sums.
	ListItemsByMaterial(ctx context.Context, materialID id.ID) ([]*Item, error)

	// Update rewrites the header and replaces its line items.
	Update(ctx context.Context, header *Header) error

	// UpdateStatus changes only the header status.
	UpdateStatus(ctx context.Context, id id.ID, status Status) error

	// Delete removes the header and its items.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves headers with filtering and pagination.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Header], error)

	// ExistsByCode checks code uniqueness.
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// AccumulateIssue atomically adds deltas to a line item's cumulative
	// counters: issued_quantity += issuedDelta, variance += varianceDelta.
	// Expressed as a single SQL update so concurrent issuances never lose
	// increments.
	AccumulateIssue(ctx context.Context, itemID id.ID, issuedDelta, varianceDelta types.Quantity) error

	// CountConfirmedOrderRefs counts confirmed outbound orders referencing
	// the BOM. A nonzero count freezes the BOM definition.
	CountConfirmedOrderRefs(ctx context.Context, bomID id.ID) (int64, error)
}
