// Package inbound provides the inbound order repository contract.
package inbound

import (
	"context"
	"time"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/domain"
)

// Repository defines operations for inbound orders.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Order) error
	GetByID(ctx context.Context, docID id.ID) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	Update(ctx context.Context, doc *Order) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Order, error)
}

// ListFilter for filtering inbound orders.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	SupplierID    *id.ID
	WarehouseType *entity.WarehouseType
	OrderType     *OrderType
	Status        *entity.DocumentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}
