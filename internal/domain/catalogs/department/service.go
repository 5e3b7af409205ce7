package department

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/pkg/numerator"
)

// Service provides business logic for the Department catalog.
type Service struct {
	*domain.CatalogService[*Department]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Department service.
func NewService(repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Department]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		EntityName: "department",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, d *Department) error {
	if d.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DEP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		d.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, d.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("department", "code", d.Code)
	}
	return nil
}

// FindByName retrieves a department by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Department, error) {
	if name == "" {
		return nil, apperror.NewValidation("department name is required").
			WithDetail("field", "name")
	}
	return s.repo.FindByName(ctx, name)
}

// ListProduction retrieves all production workshops.
func (s *Service) ListProduction(ctx context.Context) ([]*Department, error) {
	return s.repo.ListProduction(ctx)
}
