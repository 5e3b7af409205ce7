package bom

import (
	"context"
	"fmt"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/pkg/logger"
)

// Service provides business logic for the BOM catalog.
type Service struct {
	repo      Repository
	materials material.Repository
	txManager tx.Manager
}

// NewService creates a new BOM service.
func NewService(repo Repository, materials material.Repository, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		txManager: txm,
	}
}

// Create validates and persists a new BOM with its line items.
// Line-item material codes/names and the product name are denormalized
// from the material catalog; actual quantities are derived from the
// loss-rate formula regardless of what the caller sent.
func (s *Service) Create(ctx context.Context, header *Header) error {
	if err := header.Validate(ctx); err != nil {
		return err
	}
	if len(header.Items) == 0 {
		return apperror.NewValidation("bom requires at least one line item").
			WithDetail("field", "items")
	}

	exists, err := s.repo.ExistsByCode(ctx, header.Code)
	if err != nil {
		return fmt.Errorf("check bom code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("bom", "code", header.Code)
	}

	if err := s.resolveReferences(ctx, header); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, header); err != nil {
			return fmt.Errorf("create bom: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bom created",
		"bom_id", header.ID.String(),
		"code", header.Code,
		"items", len(header.Items),
	)
	return nil
}

// Update rewrites a BOM definition. Blocked once the BOM is referenced by
// a confirmed order; only status transitions remain possible after that.
func (s *Service) Update(ctx context.Context, header *Header) error {
	if err := header.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, header.ID)
	if err != nil {
		return s.notFoundOr(err, header.ID)
	}

	refs, err := s.repo.CountConfirmedOrderRefs(ctx, header.ID)
	if err != nil {
		return fmt.Errorf("count bom references: %w", err)
	}
	if refs > 0 {
		return apperror.NewInvalidState("bom is referenced by confirmed orders and cannot be modified").
			WithDetail("bom_id", header.ID.String()).
			WithDetail("confirmed_orders", refs)
	}

	if header.Code != existing.Code {
		exists, err := s.repo.ExistsByCode(ctx, header.Code)
		if err != nil {
			return fmt.Errorf("check bom code: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("bom", "code", header.Code)
		}
	}

	if err := s.resolveReferences(ctx, header); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, header); err != nil {
			return fmt.Errorf("update bom: %w", err)
		}
		return nil
	})
}

// Activate transitions a draft BOM to active.
func (s *Service) Activate(ctx context.Context, bomID id.ID) error {
	header, err := s.repo.GetByID(ctx, bomID)
	if err != nil {
		return s.notFoundOr(err, bomID)
	}

	if header.Status == StatusActive {
		return apperror.NewInvalidState("bom is already active").
			WithDetail("bom_id", bomID.String())
	}

	return s.repo.UpdateStatus(ctx, bomID, StatusActive)
}

// Delete removes a BOM. Blocked when referenced by confirmed orders.
func (s *Service) Delete(ctx context.Context, bomID id.ID) error {
	if _, err := s.repo.GetByID(ctx, bomID); err != nil {
		return s.notFoundOr(err, bomID)
	}

	refs, err := s.repo.CountConfirmedOrderRefs(ctx, bomID)
	if err != nil {
		return fmt.Errorf("count bom references: %w", err)
	}
	if refs > 0 {
		return apperror.NewInvalidState("bom is referenced by confirmed orders and cannot be deleted").
			WithDetail("bom_id", bomID.String()).
			WithDetail("confirmed_orders", refs)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, bomID)
	})
}

// GetWithItems retrieves a BOM with its line items.
func (s *Service) GetWithItems(ctx context.Context, bomID id.ID) (*Header, error) {
	header, err := s.repo.GetWithItems(ctx, bomID)
	if err != nil {
		return nil, s.notFoundOr(err, bomID)
	}
	return header, nil
}

// List retrieves BOM headers with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Header], error) {
	return s.repo.List(ctx, filter)
}

// resolveReferences denormalizes product and material names and recomputes
// derived quantities.
func (s *Service) resolveReferences(ctx context.Context, header *Header) error {
	product, err := s.materials.GetByID(ctx, header.ProductID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("material", header.ProductID.String())
		}
		return fmt.Errorf("resolve product: %w", err)
	}
	header.ProductName = product.Name
	if header.Unit == "" {
		header.Unit = product.Unit
	}

	for idx, item := range header.Items {
		mat, err := s.materials.GetByID(ctx, item.MaterialID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("material", item.MaterialID.String())
			}
			return fmt.Errorf("resolve material: %w", err)
		}
		item.BOMID = header.ID
		item.MaterialCode = mat.Code
		item.MaterialName = mat.Name
		if item.Unit == "" {
			item.Unit = mat.Unit
		}
		if item.SortOrder == 0 {
			item.SortOrder = idx + 1
		}
		if id.IsNil(item.ID) {
			item.ID = id.New()
		}
		item.RecomputeActual()
	}
	return nil
}

func (s *Service) notFoundOr(err error, bomID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("bom", bomID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("bom_id", bomID.String())
}
