package dto

import (
	"time"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/domain/registers/stockrecord"
)

// StockRecordQuery narrows movement-log listings.
type StockRecordQuery struct {
	MaterialID     *string    `form:"materialId"`
	DepartmentID   *string    `form:"departmentId"`
	DepartmentName string     `form:"departmentName"`
	WarehouseType  string     `form:"warehouseType"`
	RecordType     string     `form:"recordType"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit          int        `form:"limit"`
	Offset         int        `form:"offset"`
}

// ToFilter converts the query to a repository filter.
func (q *StockRecordQuery) ToFilter() (stockrecord.Filter, error) {
	filter := stockrecord.Filter{
		DepartmentName: q.DepartmentName,
		FromDate:       q.DateFrom,
		ToDate:         q.DateTo,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}

	if q.MaterialID != nil {
		materialID, err := id.Parse(*q.MaterialID)
		if err != nil {
			return filter, err
		}
		filter.MaterialID = &materialID
	}
	if q.DepartmentID != nil {
		departmentID, err := id.Parse(*q.DepartmentID)
		if err != nil {
			return filter, err
		}
		filter.DepartmentID = &departmentID
	}
	if q.WarehouseType != "" {
		wt := entity.WarehouseType(q.WarehouseType)
		filter.WarehouseType = &wt
	}
	if q.RecordType != "" {
		rt := entity.RecordType(q.RecordType)
		filter.RecordType = &rt
	}

	return filter, nil
}
