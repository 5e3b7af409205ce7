// Package reports provides workshop balance and warehouse reporting.
package reports

import (
	"time"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/types"
)

// --- Workshop Balance Report ---

// WorkshopBalanceFilter defines filters for the workshop balance report.
type WorkshopBalanceFilter struct {
	// Optional narrowing
	DepartmentID   *id.ID
	DepartmentName string
	MaterialID     *id.ID

	// ScopePlannedToDepartment restricts the planned-quantity sum to the
	// filtered department's own issues. Off by default: planned is
	// attributed globally per material, matching how BOM plans are kept.
	ScopePlannedToDepartment bool
}

// WorkshopBalanceItem is one row: how much of a material a department is
// holding beyond (positive) or short of (negative) plan.
type WorkshopBalanceItem struct {
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`

	MaterialID   id.ID  `json:"materialId"`
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	Unit         string `json:"unit"`

	IssuedTotal  types.Quantity `json:"issuedTotal"`
	PlannedTotal types.Quantity `json:"plannedTotal"`

	// Balance = IssuedTotal - PlannedTotal
	Balance types.Quantity `json:"balance"`

	LastIssueTime *time.Time `json:"lastIssueTime,omitempty"`
}

// WorkshopBalanceReport is the full report.
type WorkshopBalanceReport struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Items       []WorkshopBalanceItem `json:"items"`
	TotalItems  int                   `json:"totalItems"`
}

// --- Workshop Stock Reference ---

// StockReference is the quick single-material lookup shown next to the
// issue form: book stock plus the workshop-side balance.
type StockReference struct {
	MaterialID   id.ID  `json:"materialId"`
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	Unit         string `json:"unit"`

	// WarehouseStock is the current ledger quantity.
	WarehouseStock types.Quantity `json:"warehouseStock"`

	// TotalIssued sums confirmed issues of the material, scoped to the
	// department when one is given, otherwise across all production
	// departments.
	TotalIssued types.Quantity `json:"totalIssued"`

	// TotalPlanned is the material's quantity summed over BOM
	// definitions, counted once for the material.
	TotalPlanned types.Quantity `json:"totalPlanned"`

	// WorkshopBalance = TotalIssued - TotalPlanned
	WorkshopBalance types.Quantity `json:"workshopBalance"`

	LastIssueTime *time.Time `json:"lastIssueTime,omitempty"`
}

// --- Department Material Balance ---

// DepartmentBalance lists all material balances for one department,
// ordered by material code.
type DepartmentBalance struct {
	DepartmentID   id.ID                 `json:"departmentId"`
	DepartmentName string                `json:"departmentName"`
	Items          []WorkshopBalanceItem `json:"items"`
	TotalItems     int                   `json:"totalItems"`
}

// --- Warehouse Stats ---

// WarehouseStats aggregates the ledger per warehouse type.
type WarehouseStats struct {
	WarehouseType entity.WarehouseType `json:"warehouseType"`
	MaterialCount int                  `json:"materialCount"`
	TotalQuantity types.Quantity       `json:"totalQuantity"`
	TotalValue    types.Money          `json:"totalValue"`
	LowStockCount int                  `json:"lowStockCount"`
}

// --- Aggregation rows (repository output) ---

// IssueAggregate is one (department, material) aggregate over confirmed
// main-warehouse order lines addressed to production departments.
type IssueAggregate struct {
	DepartmentID   id.ID          `db:"department_id"`
	DepartmentName string         `db:"department_name"`
	MaterialID     id.ID          `db:"material_id"`
	MaterialCode   string         `db:"material_code"`
	MaterialName   string         `db:"material_name"`
	Unit           string         `db:"unit"`
	IssuedTotal    types.Quantity `db:"issued_total"`
	PlannedTotal   types.Quantity `db:"planned_total"`
	LastIssueTime  *time.Time     `db:"last_issue_time"`
}

// IssueAggregateFilter narrows the aggregation.
type IssueAggregateFilter struct {
	DepartmentID   *id.ID
	DepartmentName string
	MaterialID     *id.ID
}
