package handlers

import (
	"voltstock/internal/domain/catalogs/supplier"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles supplier catalog endpoints.
type SupplierHandler = CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
		Service:    service.CatalogService,
		EntityName: "supplier",
		MapCreateDTO: func(req dto.CreateSupplierRequest) *supplier.Supplier {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(s *supplier.Supplier) any {
			return dto.FromSupplier(s)
		},
	})
}
