package store

import "github.com/ansochnev/join-server/internal/storeerr"

// ColumnInfo describes one column of a schema.
type ColumnInfo struct {
	Name       string
	Type       Type
	PrimaryKey bool
}

// Schema is an ordered list of column descriptors with name lookup. Exactly
// one column must be flagged PrimaryKey; this is enforced by NewSchema.
type Schema struct {
	columns []ColumnInfo
	byName  map[string]int
	pkIndex int
}

// NewSchema builds a Schema from an ordered column list. Fails with
// SchemaError on a duplicate column name or if zero or more than one column
// is flagged primary key.
func NewSchema(columns []ColumnInfo) (*Schema, error) {
	s := &Schema{
		columns: make([]ColumnInfo, len(columns)),
		byName:  make(map[string]int, len(columns)),
		pkIndex: -1,
	}
	copy(s.columns, columns)
	for i, c := range s.columns {
		if _, dup := s.byName[c.Name]; dup {
			return nil, storeerr.NewSchemaError("duplicate column name %q", c.Name)
		}
		s.byName[c.Name] = i
		if c.PrimaryKey {
			if s.pkIndex != -1 {
				return nil, storeerr.NewSchemaError("more than one primary key column")
			}
			s.pkIndex = i
		}
	}
	if s.pkIndex == -1 {
		return nil, storeerr.NewSchemaError("no primary key column")
	}
	return s, nil
}

func (s *Schema) Size() int { return len(s.columns) }

func (s *Schema) At(i int) ColumnInfo { return s.columns[i] }

// ByName returns the column descriptor for name. Fails with SchemaError if
// the column is unknown.
func (s *Schema) ByName(name string) (ColumnInfo, error) {
	i, ok := s.byName[name]
	if !ok {
		return ColumnInfo{}, storeerr.NewSchemaError("unknown column %q", name)
	}
	return s.columns[i], nil
}

// IndexOf returns the position of name within the schema. Fails with
// SchemaError if the column is unknown.
func (s *Schema) IndexOf(name string) (int, error) {
	i, ok := s.byName[name]
	if !ok {
		return 0, storeerr.NewSchemaError("unknown column %q", name)
	}
	return i, nil
}

func (s *Schema) Contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// PrimaryKeyIndex returns the position of the primary-key column.
func (s *Schema) PrimaryKeyIndex() int { return s.pkIndex }

// Columns returns the column list in declaration order. Callers must not
// mutate the returned slice.
func (s *Schema) Columns() []ColumnInfo { return s.columns }
