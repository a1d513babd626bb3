package store

import "github.com/ansochnev/join-server/internal/storeerr"

// Table holds a schema, an append-only row vector, and one index per
// indexed column (currently just the primary key — see design note on
// single-column PK indexing). rowId is the row's position in rows.
type Table struct {
	schema  *Schema
	rows    [][]Value
	indices []columnIndex // len == schema.Size(); nil entries are unindexed columns
}

// NewTable builds an empty table for schema, materialising an index for the
// primary-key column only.
func NewTable(schema *Schema) *Table {
	t := &Table{
		schema:  schema,
		rows:    nil,
		indices: make([]columnIndex, schema.Size()),
	}
	pk := schema.PrimaryKeyIndex()
	t.indices[pk] = newColumnIndex(schema.At(pk).Type)
	return t
}

func (t *Table) Schema() *Schema { return t.schema }

// Insert appends a new row built from values, enforcing the shape check and
// primary-key uniqueness described in the table invariants. Returns the new
// row id. On any failure, no row is appended and no index is touched.
func (t *Table) Insert(values []Value) (RowID, error) {
	if len(values) != t.schema.Size() {
		return 0, storeerr.NewSchemaError("expected %d values, got %d", t.schema.Size(), len(values))
	}
	for i, v := range values {
		col := t.schema.At(i)
		if !v.IsNull() && v.Type() != col.Type {
			return 0, storeerr.NewSchemaError("column %q expects %s, got %s", col.Name, col.Type, v.Type())
		}
	}
	pk := t.schema.PrimaryKeyIndex()
	pkVal := values[pk]
	if pkVal.IsNull() {
		return 0, storeerr.NewSchemaError("primary key column %q cannot be null", t.schema.At(pk).Name)
	}
	if t.indices[pk].contains(pkVal) {
		return 0, storeerr.NewDuplicateKey(pkVal.Key())
	}

	id := RowID(len(t.rows))
	row := make([]Value, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	for i, ix := range t.indices {
		if ix != nil {
			ix.insert(row[i], id)
		}
	}
	return id, nil
}

// Truncate empties the row vector and clears every live index atomically.
func (t *Table) Truncate() {
	t.rows = nil
	for _, ix := range t.indices {
		if ix != nil {
			ix.clear()
		}
	}
}

// RowCount returns the number of live rows.
func (t *Table) RowCount() int { return len(t.rows) }

// RowAt returns the values of rowId in insertion order.
func (t *Table) RowAt(id RowID) []Value { return t.rows[id] }

// Materialise builds a Record per id. AbsentRow yields a Record whose every
// cell is NULL of the schema's declared type, used to pad outer-join output.
func (t *Table) Materialise(ids []RowID) []Record {
	out := make([]Record, len(ids))
	for i, id := range ids {
		if id == AbsentRow {
			out[i] = NullRecord(t.schema)
			continue
		}
		vals := make([]Value, len(t.rows[id]))
		copy(vals, t.rows[id])
		out[i] = Record{Values: vals}
	}
	return out
}

// IndexFor returns the index backing column, or nil if that column is not
// indexed.
func (t *Table) IndexFor(col int) columnIndex { return t.indices[col] }
