// Package supplier provides the Supplier catalog for inbound orders.
package supplier

import (
	"context"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
)

// Supplier represents a material vendor.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone is the contact number
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is the shipping/billing address
	Address *string `db:"address" json:"address,omitempty"`

	// TaxNumber is the registration number for invoicing
	TaxNumber *string `db:"tax_number" json:"taxNumber,omitempty"`
}

// NewSupplier creates a new Supplier.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.IsFolder && s.TaxNumber != nil {
		return apperror.NewValidation("folders cannot carry a tax number").
			WithDetail("field", "taxNumber")
	}

	return nil
}
