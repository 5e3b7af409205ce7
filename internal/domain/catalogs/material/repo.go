package material

import (
	"context"

	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain"
)

// Repository defines the interface for Material persistence.
type Repository interface {
	domain.CatalogRepository[*Material]

	// AdjustStock atomically applies a signed delta to the material balance
	// and returns the balance before and after the change. This is the only
	// way stock is mutated; callers never write an absolute value.
	//
	// When allowNegative is false and the delta would take the balance below
	// zero, the update is rejected and apperror.CodeInsufficientStock is
	// returned with the current balance in details.
	AdjustStock(ctx context.Context, materialID id.ID, delta types.Quantity, allowNegative bool) (before, after types.Quantity, err error)

	// GetForUpdate retrieves material with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Material, error)

	// FindLowStock retrieves materials with stock below their minimum.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Material], error)
}
