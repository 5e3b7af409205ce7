package category

import (
	"context"
	"fmt"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/tx"
	"voltstock/internal/domain"
	"voltstock/pkg/numerator"
)

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Category service.
func NewService(repo Repository, txm tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  gen,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, c *Category) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("category", "code", c.Code)
	}
	return nil
}
