package supplier

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/pkg/numerator"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, sup *Supplier) error {
	if sup.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SUP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sup.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, sup.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("supplier", "code", sup.Code)
	}
	return nil
}
