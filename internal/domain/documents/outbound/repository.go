// Package outbound provides the outbound order repository contract.
package outbound

import (
	"context"
	"time"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/domain"
)

// Repository defines operations for outbound orders.
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

// ListFilter for filtering outbound orders.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	DepartmentID  *id.ID
	BOMID         *id.ID
	WarehouseType *entity.WarehouseType
	OrderType     *OrderType
	Status        *entity.DocumentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}
