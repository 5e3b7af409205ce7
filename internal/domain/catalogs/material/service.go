package material

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/pkg/numerator"
)

// Service provides business logic for the Material catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Material]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Material service.
func NewService(repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		EntityName: "material",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, m *Material) error {
	if m.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, m.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("material", "code", m.Code)
	}
	return nil
}

// FindLowStock retrieves materials with stock below their minimum.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Material], error) {
	return s.repo.FindLowStock(ctx, filter)
}

// GetForUpdate retrieves a material with a row lock, for use inside transactions.
func (s *Service) GetForUpdate(ctx context.Context, materialID id.ID) (*Material, error) {
	return s.repo.GetForUpdate(ctx, materialID)
}
