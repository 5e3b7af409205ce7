package department

import (
	"context"

	"voltstock/internal/domain"
)

// Repository defines the interface for Department persistence.
type Repository interface {
	domain.CatalogRepository[*Department]

	// FindByName retrieves a department by exact name.
	// Stock records reference departments by denormalized name, so reports
	// need this lookup.
	FindByName(ctx context.Context, name string) (*Department, error)

	// ListProduction retrieves all production workshops.
	ListProduction(ctx context.Context) ([]*Department, error)
}
