package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newABSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema([]ColumnInfo{
		{Name: "id", Type: TypeInteger, PrimaryKey: true},
		{Name: "name", Type: TypeText},
	})
	require.NoError(t, err)
	return schema
}

func TestSchemaPrimaryKey(t *testing.T) {
	schema := newABSchema(t)
	assert.Equal(t, 0, schema.PrimaryKeyIndex())
	assert.Equal(t, 2, schema.Size())
}

func TestSchemaDuplicateColumnRejected(t *testing.T) {
	_, err := NewSchema([]ColumnInfo{
		{Name: "id", Type: TypeInteger, PrimaryKey: true},
		{Name: "id", Type: TypeText},
	})
	assert.Error(t, err)
}

func TestSchemaMissingPrimaryKeyRejected(t *testing.T) {
	_, err := NewSchema([]ColumnInfo{
		{Name: "id", Type: TypeInteger},
	})
	assert.Error(t, err)
}

func TestSchemaUnknownColumnLookup(t *testing.T) {
	schema := newABSchema(t)
	_, err := schema.IndexOf("missing")
	assert.Error(t, err)
	assert.True(t, schema.Contains("name"))
	assert.False(t, schema.Contains("missing"))
}
