package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ansochnev/join-server/internal/storeerr"
)

func TestTableInsertAndRoundTrip(t *testing.T) {
	schema := newABSchema(t)
	table := NewTable(schema)

	id, err := table.Insert([]Value{NewInt(1), NewText("alice")})
	require.NoError(t, err)
	assert.Equal(t, RowID(0), id)

	row := table.RowAt(id)
	n, err := row[0].AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	s, err := row[1].AsString()
	require.NoError(t, err)
	assert.Equal(t, "alice", s)
}

func TestTableInsertDuplicateKeyRejected(t *testing.T) {
	schema := newABSchema(t)
	table := NewTable(schema)

	_, err := table.Insert([]Value{NewInt(1), NewText("alice")})
	require.NoError(t, err)

	_, err = table.Insert([]Value{NewInt(1), NewText("bob")})
	require.Error(t, err)
	assert.IsType(t, &storeerr.DuplicateKey{}, err)
	assert.Equal(t, 1, table.RowCount())

	row := table.RowAt(0)
	s, _ := row[1].AsString()
	assert.Equal(t, "alice", s)
}

func TestTableInsertShapeMismatchRejected(t *testing.T) {
	schema := newABSchema(t)
	table := NewTable(schema)

	_, err := table.Insert([]Value{NewInt(1)})
	assert.Error(t, err)
	assert.Equal(t, 0, table.RowCount())
}

func TestTableTruncateIsIdempotent(t *testing.T) {
	schema := newABSchema(t)
	table := NewTable(schema)
	_, err := table.Insert([]Value{NewInt(1), NewText("alice")})
	require.NoError(t, err)

	table.Truncate()
	assert.Equal(t, 0, table.RowCount())
	table.Truncate()
	assert.Equal(t, 0, table.RowCount())

	_, err = table.Insert([]Value{NewInt(1), NewText("alice-again")})
	require.NoError(t, err, "primary key index must be cleared by truncate")
}

func TestTableMaterialiseWithAbsentRow(t *testing.T) {
	schema := newABSchema(t)
	table := NewTable(schema)
	_, err := table.Insert([]Value{NewInt(1), NewText("alice")})
	require.NoError(t, err)

	recs := table.Materialise([]RowID{0, AbsentRow})
	assert.False(t, recs[0].Values[0].IsNull())
	assert.True(t, recs[1].Values[0].IsNull())
	assert.True(t, recs[1].Values[1].IsNull())
}
