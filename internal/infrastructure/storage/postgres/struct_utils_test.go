package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
)

type testCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Note string `db:"-" json:"note"`
}

func TestExtractDBColumns_EmbeddedBase(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "attributes", "code", "name",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "note")
}

func TestStructToMap_EmbeddedBase(t *testing.T) {
	cat := testCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "MAT00001",
		Name: "Lithium foil",
		Note: "skipped",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "MAT00001", m["code"])
	assert.Equal(t, "Lithium foil", m["name"])
	_, hasNote := m["note"]
	assert.False(t, hasNote)
}
