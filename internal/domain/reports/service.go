package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
)

// Service provides report generation operations.
type Service struct {
	repo        Repository
	materials   material.Repository
	departments department.Repository
}

// NewService creates a new reports service.
func NewService(repo Repository, materials material.Repository, departments department.Repository) *Service {
	return &Service{
		repo:        repo,
		materials:   materials,
		departments: departments,
	}
}

// CalculateWorkshopBalance builds the workshop balance report. For every
// (department, material) pair with confirmed issues the balance is issued
// minus planned. Planned comes from BOM definitions and is attributed
// globally per material, unless the filter scopes the plan to the
// department's own issue documents.
func (s *Service) CalculateWorkshopBalance(ctx context.Context, filter WorkshopBalanceFilter) (*WorkshopBalanceReport, error) {
	if err := s.resolveFilterDepartment(ctx, &filter); err != nil {
		return nil, err
	}

	rows, err := s.repo.AggregateIssues(ctx, IssueAggregateFilter{
		DepartmentID: filter.DepartmentID,
		MaterialID:   filter.MaterialID,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate issues: %w", err)
	}

	var globalPlanned map[id.ID]types.Quantity
	if !filter.ScopePlannedToDepartment {
		globalPlanned, err = s.repo.AggregatePlannedByMaterial(ctx, filter.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("aggregate planned: %w", err)
		}
	}

	items := make([]WorkshopBalanceItem, 0, len(rows))
	for _, row := range rows {
		planned := row.PlannedTotal
		if globalPlanned != nil {
			planned = globalPlanned[row.MaterialID]
		}

		items = append(items, WorkshopBalanceItem{
			DepartmentID:   row.DepartmentID,
			DepartmentName: row.DepartmentName,
			MaterialID:     row.MaterialID,
			MaterialCode:   row.MaterialCode,
			MaterialName:   row.MaterialName,
			Unit:           row.Unit,
			IssuedTotal:    row.IssuedTotal,
			PlannedTotal:   planned,
			Balance:        row.IssuedTotal - planned,
			LastIssueTime:  row.LastIssueTime,
		})
	}

	sortByMaterialCode(items)

	return &WorkshopBalanceReport{
		GeneratedAt: time.Now().UTC(),
		Items:       items,
		TotalItems:  len(items),
	}, nil
}

// GetDepartmentMaterialBalance lists all material balances for one
// department, ordered by material code.
func (s *Service) GetDepartmentMaterialBalance(ctx context.Context, departmentID *id.ID, departmentName string) (*DepartmentBalance, error) {
	dep, err := s.resolveDepartment(ctx, departmentID, departmentName)
	if err != nil {
		return nil, err
	}

	depID := dep.ID
	report, err := s.CalculateWorkshopBalance(ctx, WorkshopBalanceFilter{DepartmentID: &depID})
	if err != nil {
		return nil, err
	}

	return &DepartmentBalance{
		DepartmentID:   dep.ID,
		DepartmentName: dep.Name,
		Items:          report.Items,
		TotalItems:     report.TotalItems,
	}, nil
}

// GetWorkshopStockReference returns the single-material reference shown
// next to the issue form: current warehouse stock plus the workshop-side
// totals. Issued sums the confirmed issue rows, optionally scoped to one
// department; planned is the material's quantity across BOM definitions,
// counted once no matter how many departments drew the material. The
// balance is issued minus planned.
func (s *Service) GetWorkshopStockReference(ctx context.Context, materialID id.ID, departmentID *id.ID) (*StockReference, error) {
	mat, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("material", materialID.String())
		}
		return nil, fmt.Errorf("get material: %w", err)
	}

	rows, err := s.repo.AggregateIssues(ctx, IssueAggregateFilter{
		MaterialID:   &materialID,
		DepartmentID: departmentID,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate issues: %w", err)
	}

	planned, err := s.repo.AggregatePlannedByMaterial(ctx, &materialID)
	if err != nil {
		return nil, fmt.Errorf("aggregate planned: %w", err)
	}

	ref := &StockReference{
		MaterialID:     mat.ID,
		MaterialCode:   mat.Code,
		MaterialName:   mat.Name,
		Unit:           mat.Unit,
		WarehouseStock: mat.StockQuantity,
		TotalPlanned:   planned[materialID],
	}
	for _, row := range rows {
		ref.TotalIssued += row.IssuedTotal
		if row.LastIssueTime != nil &&
			(ref.LastIssueTime == nil || row.LastIssueTime.After(*ref.LastIssueTime)) {
			ref.LastIssueTime = row.LastIssueTime
		}
	}
	ref.WorkshopBalance = ref.TotalIssued - ref.TotalPlanned

	return ref, nil
}

// GetWarehouseStats aggregates the ledger per warehouse type.
func (s *Service) GetWarehouseStats(ctx context.Context) ([]WarehouseStats, error) {
	stats, err := s.repo.GetWarehouseStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse stats: %w", err)
	}
	return stats, nil
}

func (s *Service) resolveFilterDepartment(ctx context.Context, filter *WorkshopBalanceFilter) error {
	if filter.DepartmentID != nil || filter.DepartmentName == "" {
		return nil
	}
	dep, err := s.resolveDepartment(ctx, nil, filter.DepartmentName)
	if err != nil {
		return err
	}
	depID := dep.ID
	filter.DepartmentID = &depID
	return nil
}

func (s *Service) resolveDepartment(ctx context.Context, departmentID *id.ID, name string) (*department.Department, error) {
	if departmentID != nil {
		dep, err := s.departments.GetByID(ctx, *departmentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("department", departmentID.String())
			}
			return nil, fmt.Errorf("get department: %w", err)
		}
		return dep, nil
	}

	if name == "" {
		return nil, apperror.NewValidation("department is required").
			WithDetail("field", "departmentId")
	}

	dep, err := s.departments.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("department", name)
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return dep, nil
}

func sortByMaterialCode(items []WorkshopBalanceItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MaterialCode != items[j].MaterialCode {
			return items[i].MaterialCode < items[j].MaterialCode
		}
		return items[i].DepartmentName < items[j].DepartmentName
	})
}
