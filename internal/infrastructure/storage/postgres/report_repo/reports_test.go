package report_repo

import (
	"strings"
	"testing"

	"voltstock/internal/core/id"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/reports"
)

func TestIssueAggregateQuery_ClassifiesByDepartment(t *testing.T) {
	sql, args := issueAggregateQuery(reports.IssueAggregateFilter{})

	// Issues are classified by destination: main-warehouse orders to
	// production departments, whatever the order subtype says.
	for _, want := range []string{
		"o.warehouse_type = 'main'",
		"JOIN cat_departments d ON d.id = o.department_id",
		"d.production_type = ANY($1)",
		"o.status = 'confirmed'",
		"o.deletion_mark = false",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "order_type") {
		t.Errorf("query must not filter on order subtype:\n%s", sql)
	}

	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	names, ok := args[0].([]string)
	if !ok {
		t.Fatalf("arg 0 = %T, want []string", args[0])
	}
	if len(names) != len(department.ProductionTypes) {
		t.Fatalf("expected %d production types, got %v", len(department.ProductionTypes), names)
	}
	for i, pt := range department.ProductionTypes {
		if names[i] != string(pt) {
			t.Errorf("production type %d = %q, want %q", i, names[i], pt)
		}
		// Non-production departments carry an empty production type and
		// must fall outside the ANY set.
		if names[i] == "" {
			t.Errorf("production type set must not admit non-production departments")
		}
	}
}

func TestIssueAggregateQuery_Filters(t *testing.T) {
	depID := id.New()
	matID := id.New()

	sql, args := issueAggregateQuery(reports.IssueAggregateFilter{
		DepartmentID: &depID,
		MaterialID:   &matID,
	})

	if !strings.Contains(sql, "o.department_id = $2") {
		t.Errorf("department filter misplaced:\n%s", sql)
	}
	if !strings.Contains(sql, "l.material_id = $3") {
		t.Errorf("material filter misplaced:\n%s", sql)
	}
	if len(args) != 3 || args[1] != depID || args[2] != matID {
		t.Errorf("args mismatch: %v", args)
	}
}

func TestPlannedByMaterialQuery_ReadsBOMDefinitions(t *testing.T) {
	sql, args := plannedByMaterialQuery(nil)

	// The plan side reads BOM line quantities, never issue documents.
	for _, want := range []string{
		"FROM cat_bom_items i",
		"JOIN cat_boms b ON b.id = i.bom_id",
		"COALESCE(SUM(i.quantity), 0)",
		"b.deletion_mark = false",
		"GROUP BY i.material_id",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("query missing %q:\n%s", want, sql)
		}
	}
	for _, forbidden := range []string{"doc_outbound", "planned_quantity"} {
		if strings.Contains(sql, forbidden) {
			t.Errorf("query must not touch %q:\n%s", forbidden, sql)
		}
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}

	matID := id.New()
	sql, args = plannedByMaterialQuery(&matID)
	if !strings.Contains(sql, "i.material_id = $1") {
		t.Errorf("material filter misplaced:\n%s", sql)
	}
	if len(args) != 1 || args[0] != matID {
		t.Errorf("args mismatch: %v", args)
	}
}
