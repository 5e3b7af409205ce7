// Package stockrecord provides the append-only material movement log.
package stockrecord

import (
	"context"
	"fmt"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/pkg/logger"
)

// Service provides read access and validated appends for the movement log.
// Transactions are managed by the caller (posting engine).
type Service struct {
	repo Repository
}

// NewService creates a new movement-log service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append validates and inserts movement records.
func (s *Service) Append(ctx context.Context, records []entity.StockRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i, r := range records {
		if r.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("record %d: quantity must be positive", i))
		}
		if id.IsNil(r.MaterialID) {
			return apperror.NewValidation(fmt.Sprintf("record %d: material_id is required", i))
		}
		if r.RecordType != entity.RecordTypeInbound && r.RecordType != entity.RecordTypeOutbound {
			return apperror.NewValidation(fmt.Sprintf("record %d: invalid record type", i))
		}
	}

	if err := s.repo.Append(ctx, records); err != nil {
		return fmt.Errorf("append stock records: %w", err)
	}

	logger.Info(ctx, "appended stock records",
		"count", len(records),
		"material_id", records[0].MaterialID.String(),
	)

	return nil
}

// List retrieves records matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) (Result, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// GetByOrder retrieves all records created by one order.
func (s *Service) GetByOrder(ctx context.Context, orderID id.ID) ([]entity.StockRecord, error) {
	return s.repo.GetByOrder(ctx, orderID)
}
