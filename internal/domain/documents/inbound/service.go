// Package inbound provides the inbound order service.
package inbound

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/posting"
	"voltstock/pkg/logger"
	"voltstock/pkg/numerator"
)

// Service provides business operations for inbound orders.
type Service struct {
	repo      Repository
	materials material.Repository
	engine    *posting.Engine
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates a new inbound order service.
func NewService(
	repo Repository,
	materials material.Repository,
	engine *posting.Engine,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		engine:    engine,
		numerator: gen,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// Create creates a new draft inbound order.
func (s *Service) Create(ctx context.Context, doc *Order) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.resolveMaterials(ctx, doc); err != nil {
		return err
	}
	doc.RecalculateTotals()

	if doc.Number == "" {
		cfg := numerator.OrderConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "inbound order created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves an inbound order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Order, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, s.notFoundOr(err, docID)
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates a draft inbound order. Confirmed orders are immutable.
func (s *Service) Update(ctx context.Context, doc *Order) error {
	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.resolveMaterials(ctx, doc); err != nil {
		return err
	}
	doc.RecalculateTotals()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a draft order.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return s.notFoundOr(err, docID)
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.repo.Delete(ctx, docID)
}

// Confirm transitions the order draft -> confirmed and applies all stock
// effects as one atomic unit: ledger increments, movement records, status
// flip. Inbound is always additive, so negative-stock policy is irrelevant.
func (s *Service) Confirm(ctx context.Context, docID id.ID) (string, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}

	if err := doc.CanConfirm(ctx); err != nil {
		return "", err
	}

	set := posting.MovementSet{
		Deltas: doc.StockDeltas(),
		Finalize: func(ctx context.Context) error {
			doc.MarkConfirmed()
			return s.repo.Update(ctx, doc)
		},
	}

	if err := s.engine.Apply(ctx, set, posting.Policy{AllowNegativeStock: true}); err != nil {
		return "", err
	}

	logger.Info(ctx, "inbound order confirmed",
		"id", doc.ID,
		"number", doc.Number,
		"lines", len(doc.Lines))

	return doc.Number, nil
}

// List retrieves inbound orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}

// resolveMaterials denormalizes material code/name/unit into lines.
func (s *Service) resolveMaterials(ctx context.Context, doc *Order) error {
	for i := range doc.Lines {
		mat, err := s.materials.GetByID(ctx, doc.Lines[i].MaterialID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("material", doc.Lines[i].MaterialID.String())
			}
			return fmt.Errorf("resolve material: %w", err)
		}
		doc.Lines[i].MaterialCode = mat.Code
		doc.Lines[i].MaterialName = mat.Name
		if doc.Lines[i].Unit == "" {
			doc.Lines[i].Unit = mat.Unit
		}
	}
	return nil
}

func (s *Service) notFoundOr(err error, docID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("inbound order", docID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("order_id", docID.String())
}
