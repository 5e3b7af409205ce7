package dto

import (
	"voltstock/internal/core/entity"
	"voltstock/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest for creating a supplier.
type CreateSupplierRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Address       *string           `json:"address"`
	TaxNumber     *string           `json:"taxNumber"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts the request to a Supplier.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Address = r.Address
	s.TaxNumber = r.TaxNumber
	if r.Attributes != nil {
		s.Attributes = r.Attributes
	}
	return s
}

// UpdateSupplierRequest for updating a supplier.
type UpdateSupplierRequest struct {
	Name          *string           `json:"name"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Address       *string           `json:"address"`
	TaxNumber     *string           `json:"taxNumber"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing Supplier.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.ContactPerson != nil {
		s.ContactPerson = r.ContactPerson
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Address != nil {
		s.Address = r.Address
	}
	if r.TaxNumber != nil {
		s.TaxNumber = r.TaxNumber
	}
	if r.Attributes != nil {
		s.Attributes = r.Attributes
	}
	s.Version = r.Version
}

// SupplierResponse for supplier output.
type SupplierResponse struct {
	CatalogResponse
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	TaxNumber     *string `json:"taxNumber,omitempty"`
}

// FromSupplier converts a Supplier to response.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		CatalogResponse: FromCatalog(s.Catalog),
		ContactPerson:   s.ContactPerson,
		Phone:           s.Phone,
		Address:         s.Address,
		TaxNumber:       s.TaxNumber,
	}
}

// FromSuppliers converts a slice of suppliers.
func FromSuppliers(items []*supplier.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSupplier(s))
	}
	return out
}
