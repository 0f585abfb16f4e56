package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/entity"
	"orderflow/internal/core/id"
)

type taggedCatalog struct {
	entity.BaseCatalog
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Internal string `json:"internal"`
}

func TestExtractDBColumns_FlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[taggedCatalog]()

	// Embedded fields first, in declaration order; untagged fields skipped.
	require.Equal(t, []string{"id", "version", "code", "name"}, cols)
}

func TestExtractDBColumns_StableAcrossCalls(t *testing.T) {
	first := ExtractDBColumns[taggedCatalog]()
	second := ExtractDBColumns[taggedCatalog]()
	assert.Equal(t, first, second)
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := taggedCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.NotContains(t, m, "internal")
}

func TestStructToMap_PointerInput(t *testing.T) {
	cat := &taggedCatalog{Code: "PTR", Name: "Pointer"}

	m := StructToMap(cat)

	assert.Equal(t, "PTR", m["code"])
	assert.Equal(t, "Pointer", m["name"])
}
