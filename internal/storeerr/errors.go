// Package storeerr defines the typed error kinds surfaced by the storage
// core, mirroring how the interpreter and network layer report failures to
// clients.
package storeerr

import "fmt"

// ParseError signals malformed SQL or protocol input.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Msg }

func NewParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// SchemaError signals an unknown column, duplicate column, or missing
// primary key.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return "schema error: " + e.Msg }

func NewSchemaError(format string, args ...interface{}) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// TypeMismatch signals a value/column type disagreement, or join columns of
// differing declared types.
type TypeMismatch struct {
	Msg string
}

func (e *TypeMismatch) Error() string { return "type mismatch: " + e.Msg }

func NewTypeMismatch(format string, args ...interface{}) *TypeMismatch {
	return &TypeMismatch{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateKey signals an insert that violates primary-key uniqueness.
type DuplicateKey struct {
	Value interface{}
}

func (e *DuplicateKey) Error() string { return fmt.Sprintf("duplicate key %v", e.Value) }

func NewDuplicateKey(value interface{}) *DuplicateKey {
	return &DuplicateKey{Value: value}
}

// TableExists signals a CREATE TABLE naming an already-existing table.
type TableExists struct {
	Name string
}

func (e *TableExists) Error() string { return fmt.Sprintf("table %s already exists", e.Name) }

func NewTableExists(name string) *TableExists {
	return &TableExists{Name: name}
}

// TableMissing signals a reference to a table that does not exist.
type TableMissing struct {
	Name string
}

func (e *TableMissing) Error() string { return fmt.Sprintf("table %s does not exist", e.Name) }

func NewTableMissing(name string) *TableMissing {
	return &TableMissing{Name: name}
}

// NullAccess signals a typed getter called on a NULL cell.
type NullAccess struct {
	Column string
}

func (e *NullAccess) Error() string { return fmt.Sprintf("column %s is null", e.Column) }

func NewNullAccess(column string) *NullAccess {
	return &NullAccess{Column: column}
}
