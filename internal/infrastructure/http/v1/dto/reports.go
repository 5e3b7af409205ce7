package dto

import (
	"voltstock/internal/core/id"
	"voltstock/internal/domain/reports"
)

// WorkshopBalanceQuery narrows the workshop balance report.
type WorkshopBalanceQuery struct {
	DepartmentID             *string `form:"departmentId"`
	DepartmentName           string  `form:"departmentName"`
	MaterialID               *string `form:"materialId"`
	ScopePlannedToDepartment bool    `form:"scopePlannedToDepartment"`
}

// ToFilter converts the query to a report filter.
func (q *WorkshopBalanceQuery) ToFilter() (reports.WorkshopBalanceFilter, error) {
	filter := reports.WorkshopBalanceFilter{
		DepartmentName:           q.DepartmentName,
		ScopePlannedToDepartment: q.ScopePlannedToDepartment,
	}

	if q.DepartmentID != nil {
		departmentID, err := id.Parse(*q.DepartmentID)
		if err != nil {
			return filter, err
		}
		filter.DepartmentID = &departmentID
	}
	if q.MaterialID != nil {
		materialID, err := id.Parse(*q.MaterialID)
		if err != nil {
			return filter, err
		}
		filter.MaterialID = &materialID
	}

	return filter, nil
}

// StockReferenceQuery identifies the material (and optional department)
// for the issue-form stock lookup.
type StockReferenceQuery struct {
	MaterialID   string  `form:"materialId" binding:"required"`
	DepartmentID *string `form:"departmentId"`
}

// DepartmentBalanceQuery identifies the department by ID or exact name.
type DepartmentBalanceQuery struct {
	DepartmentID   *string `form:"departmentId"`
	DepartmentName string  `form:"departmentName"`
}
