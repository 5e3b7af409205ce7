package dto

import (
	"voltstock/internal/core/entity"
	"voltstock/internal/domain/catalogs/department"
)

// CreateDepartmentRequest for creating a department.
type CreateDepartmentRequest struct {
	Code           string            `json:"code"`
	Name           string            `json:"name" binding:"required"`
	ProductionType string            `json:"productionType"`
	Manager        *string           `json:"manager"`
	Phone          *string           `json:"phone"`
	Attributes     entity.Attributes `json:"attributes"`
}

// ToEntity converts the request to a Department.
func (r *CreateDepartmentRequest) ToEntity() *department.Department {
	d := department.NewDepartment(r.Code, r.Name, department.ProductionType(r.ProductionType))
	d.Manager = r.Manager
	d.Phone = r.Phone
	if r.Attributes != nil {
		d.Attributes = r.Attributes
	}
	return d
}

// UpdateDepartmentRequest for updating a department.
type UpdateDepartmentRequest struct {
	Name           *string           `json:"name"`
	ProductionType *string           `json:"productionType"`
	Manager        *string           `json:"manager"`
	Phone          *string           `json:"phone"`
	Attributes     entity.Attributes `json:"attributes"`
	Version        int               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing Department.
func (r *UpdateDepartmentRequest) ApplyTo(d *department.Department) {
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.ProductionType != nil {
		d.ProductionType = department.ProductionType(*r.ProductionType)
	}
	if r.Manager != nil {
		d.Manager = r.Manager
	}
	if r.Phone != nil {
		d.Phone = r.Phone
	}
	if r.Attributes != nil {
		d.Attributes = r.Attributes
	}
	d.Version = r.Version
}

// DepartmentResponse for department output.
type DepartmentResponse struct {
	CatalogResponse
	ProductionType string  `json:"productionType,omitempty"`
	Manager        *string `json:"manager,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	IsProduction   bool    `json:"isProduction"`
}

// FromDepartment converts a Department to response.
func FromDepartment(d *department.Department) DepartmentResponse {
	return DepartmentResponse{
		CatalogResponse: FromCatalog(d.Catalog),
		ProductionType:  string(d.ProductionType),
		Manager:         d.Manager,
		Phone:           d.Phone,
		IsProduction:    d.IsProduction(),
	}
}

// FromDepartments converts a slice of departments.
func FromDepartments(items []*department.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, FromDepartment(d))
	}
	return out
}
