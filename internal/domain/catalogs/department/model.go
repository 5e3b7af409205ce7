// Package department provides the Department catalog. Production workshops
// receive material issuances; non-production departments (office, QA) do not.
package department

import (
	"context"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
)

// ProductionType classifies a workshop by its manufacturing stage.
// Empty means the department is not a production workshop.
type ProductionType string

const (
	TypeBatching      ProductionType = "batching"
	TypeSheeting      ProductionType = "sheeting"
	TypeWinding       ProductionType = "winding"
	TypeEncapsulation ProductionType = "encapsulation"
	TypeInjection     ProductionType = "injection"
	TypeFormation     ProductionType = "formation"
	TypePackaging     ProductionType = "packaging"
)

// ProductionTypes lists all workshop stages in process order.
var ProductionTypes = []ProductionType{
	TypeBatching,
	TypeSheeting,
	TypeWinding,
	TypeEncapsulation,
	TypeInjection,
	TypeFormation,
	TypePackaging,
}

// Department represents an organizational unit.
type Department struct {
	entity.Catalog

	// ProductionType is set for workshops, empty otherwise
	ProductionType ProductionType `db:"production_type" json:"productionType,omitempty"`

	// Manager is the responsible person
	Manager *string `db:"manager" json:"manager,omitempty"`

	// Phone is the contact number
	Phone *string `db:"phone" json:"phone,omitempty"`
}

// NewDepartment creates a new Department.
func NewDepartment(code, name string, productionType ProductionType) *Department {
	return &Department{
		Catalog:        entity.NewCatalog(code, name),
		ProductionType: productionType,
	}
}

// Validate implements entity.Validatable interface.
func (d *Department) Validate(ctx context.Context) error {
	if err := d.Catalog.Validate(ctx); err != nil {
		return err
	}

	if d.ProductionType != "" && !isValidProductionType(d.ProductionType) {
		return apperror.NewValidation("invalid production type").
			WithDetail("field", "productionType").
			WithDetail("value", string(d.ProductionType))
	}

	return nil
}

// IsProduction reports whether the department is a production workshop
// and therefore a valid target for material issuance.
func (d *Department) IsProduction() bool {
	return d.ProductionType != ""
}

func isValidProductionType(t ProductionType) bool {
	for _, pt := range ProductionTypes {
		if t == pt {
			return true
		}
	}
	return false
}
