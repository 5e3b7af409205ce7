// Package main provides a CLI tool for seeding the database with demo data:
// a material catalog, production departments, suppliers, and an active BOM
// ready for issuance.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/types"
	"voltstock/internal/domain/bom"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/catalogs/supplier"
	"voltstock/internal/infrastructure/storage/postgres"
	"voltstock/internal/infrastructure/storage/postgres/bom_repo"
	"voltstock/internal/infrastructure/storage/postgres/catalog_repo"
	"voltstock/pkg/logger"
	"voltstock/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	gen := numerator.New(pool)

	materialRepo := catalog_repo.NewMaterialRepo(txManager)
	departmentRepo := catalog_repo.NewDepartmentRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	bomRepo := bom_repo.NewBOMRepo(txManager)

	materialService := material.NewService(materialRepo, txManager, gen)
	departmentService := department.NewService(departmentRepo, txManager, gen)
	supplierService := supplier.NewService(supplierRepo, txManager, gen)
	bomService := bom.NewService(bomRepo, materialRepo, txManager)

	// --- Departments ---
	departments := []*department.Department{
		department.NewDepartment("WS-BATCH", "Batching Workshop", department.TypeBatching),
		department.NewDepartment("WS-WIND", "Winding Workshop", department.TypeWinding),
		department.NewDepartment("WS-ENCAP", "Encapsulation Workshop", department.TypeEncapsulation),
		department.NewDepartment("WS-FORM", "Formation Workshop", department.TypeFormation),
		department.NewDepartment("OFFICE", "Administration", ""),
	}
	for _, d := range departments {
		if err := departmentService.Create(ctx, d); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("department exists, skipping", "code", d.Code)
				continue
			}
			log.Fatalw("failed to seed department", "code", d.Code, "error", err)
		}
		log.Infow("department created", "code", d.Code, "name", d.Name)
	}

	// --- Suppliers ---
	suppliers := []*supplier.Supplier{
		supplier.NewSupplier("SUP-001", "Northern Lead Works"),
		supplier.NewSupplier("SUP-002", "Polymer Separator Co."),
	}
	for _, s := range suppliers {
		if err := supplierService.Create(ctx, s); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("supplier exists, skipping", "code", s.Code)
				continue
			}
			log.Fatalw("failed to seed supplier", "code", s.Code, "error", err)
		}
		log.Infow("supplier created", "code", s.Code, "name", s.Name)
	}

	// --- Materials ---
	type seedMaterial struct {
		code, name, unit string
		warehouse        entity.WarehouseType
		price            string
		minStock         float64
	}
	seedMaterials := []seedMaterial{
		{"MAT-0001", "Lead Oxide Powder", "kg", entity.WarehouseMain, "2.45", 500},
		{"MAT-0002", "Electrolyte (dilute H2SO4)", "L", entity.WarehouseMain, "0.80", 1000},
		{"MAT-0003", "Separator Film AGM", "m", entity.WarehouseMain, "1.20", 2000},
		{"MAT-0004", "Battery Case 12V", "pcs", entity.WarehousePack, "5.60", 200},
		{"MAT-0005", "Terminal Post", "pcs", entity.WarehouseMain, "0.35", 1000},
		{"MAT-0006", "Battery 12V 60Ah", "pcs", entity.WarehouseMain, "0", 0},
	}
	created := make(map[string]*material.Material, len(seedMaterials))
	for _, sm := range seedMaterials {
		price, err := decimal.NewFromString(sm.price)
		if err != nil {
			log.Fatalw("invalid seed price", "code", sm.code, "error", err)
		}
		m := material.NewMaterial(sm.code, sm.name, sm.unit, sm.warehouse)
		m.Price = price
		m.MinStock = types.QuantityFromFloat(sm.minStock)
		if err := materialService.Create(ctx, m); err != nil {
			if apperror.IsDuplicate(err) {
				log.Infow("material exists, skipping", "code", sm.code)
				existing, err := materialRepo.GetByCode(ctx, sm.code)
				if err != nil {
					log.Fatalw("failed to load existing material", "code", sm.code, "error", err)
				}
				created[sm.code] = existing
				continue
			}
			log.Fatalw("failed to seed material", "code", sm.code, "error", err)
		}
		created[sm.code] = m
		log.Infow("material created", "code", m.Code, "name", m.Name)
	}

	// --- BOM: one 12V 60Ah battery ---
	header := bom.NewHeader("BOM-12V60", "Battery 12V 60Ah V1.0", created["MAT-0006"].ID, types.QuantityFromInt(1))
	header.Unit = "pcs"
	header.BOMVersion = "V1.0"

	type seedItem struct {
		materialCode string
		quantity     float64
		lossRate     string
	}
	for i, si := range []seedItem{
		{"MAT-0001", 12.5, "3"},
		{"MAT-0002", 4.2, "5"},
		{"MAT-0003", 6.0, "2"},
		{"MAT-0004", 1, "0"},
		{"MAT-0005", 2, "0"},
	} {
		lossRate, err := decimal.NewFromString(si.lossRate)
		if err != nil {
			log.Fatalw("invalid seed loss rate", "material", si.materialCode, "error", err)
		}
		item := bom.NewItem(header.ID, created[si.materialCode].ID, types.QuantityFromFloat(si.quantity), lossRate)
		item.SortOrder = i + 1
		header.Items = append(header.Items, item)
	}

	if err := bomService.Create(ctx, header); err != nil {
		if apperror.IsDuplicate(err) {
			log.Infow("bom exists, skipping", "code", header.Code)
		} else {
			log.Fatalw("failed to seed bom", "code", header.Code, "error", err)
		}
	} else {
		if err := bomService.Activate(ctx, header.ID); err != nil {
			log.Fatalw("failed to activate bom", "code", header.Code, "error", err)
		}
		log.Infow("bom created and activated", "code", header.Code, "items", len(header.Items))
	}

	log.Info("seeding completed successfully")
}
