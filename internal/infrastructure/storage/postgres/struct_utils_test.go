package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"milltrack/internal/core/entity"
	"milltrack/internal/domain/party"
)

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[party.Party]()

	// Embedded base entity columns come through.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "created_at")

	// Own columns too.
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "phone")
	assert.Contains(t, cols, "gst_number")
}

func TestStructToMap(t *testing.T) {
	p := party.New()
	p.Name = "Acme Joinery"
	p.Phone = "9876543210"

	m := StructToMap(p)
	assert.Equal(t, "Acme Joinery", m["name"])
	assert.Equal(t, "9876543210", m["phone"])
	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 1, m["version"])

	// Fields without db tags are excluded.
	_, ok := m["Items"]
	assert.False(t, ok)
}

func TestStructToMapNonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("not a struct"))
}

func TestExtractDBColumnsDocument(t *testing.T) {
	cols := ExtractDBColumns[entity.Document]()
	assert.Contains(t, cols, "number")
	assert.Contains(t, cols, "date")
	assert.Contains(t, cols, "id")
}
