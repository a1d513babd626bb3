package store

import (
	"fmt"

	"github.com/ansochnev/join-server/internal/storeerr"
)

// Type identifies a column's declared storage type.
type Type int

const (
	TypeInteger Type = iota
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union holding either a 64-bit integer, a text string, or
// NULL. A Value always knows its declared type, even when null.
type Value struct {
	typ    Type
	null   bool
	intVal int64
	strVal string
}

// NewNull returns a NULL value of the given declared type.
func NewNull(t Type) Value {
	return Value{typ: t, null: true}
}

// NewInt returns an INTEGER value.
func NewInt(v int64) Value {
	return Value{typ: TypeInteger, intVal: v}
}

// NewText returns a TEXT value.
func NewText(v string) Value {
	return Value{typ: TypeText, strVal: v}
}

func (v Value) Type() Type  { return v.typ }
func (v Value) IsNull() bool { return v.null }

// AsInt returns the integer payload. Fails with NullAccess on a null value
// and TypeMismatch if the declared type is not INTEGER.
func (v Value) AsInt() (int64, error) {
	if v.typ != TypeInteger {
		return 0, storeerr.NewTypeMismatch("value is %s, not INTEGER", v.typ)
	}
	if v.null {
		return 0, storeerr.NewNullAccess("<value>")
	}
	return v.intVal, nil
}

// AsString returns the string payload. Fails with NullAccess on a null value
// and TypeMismatch if the declared type is not TEXT.
func (v Value) AsString() (string, error) {
	if v.typ != TypeText {
		return "", storeerr.NewTypeMismatch("value is %s, not TEXT", v.typ)
	}
	if v.null {
		return "", storeerr.NewNullAccess("<value>")
	}
	return v.strVal, nil
}

// Key returns a comparable representation suitable for use as a map/index
// key: the declared type's zero value is never ambiguous with a real value
// because index buckets are always homogeneously typed per column.
func (v Value) Key() interface{} {
	if v.typ == TypeInteger {
		return v.intVal
	}
	return v.strVal
}

// Equal reports whether two values carry the same type, nullness, and
// payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	if v.null != o.null {
		return false
	}
	if v.null {
		return true
	}
	if v.typ == TypeInteger {
		return v.intVal == o.intVal
	}
	return v.strVal == o.strVal
}

// CSV renders the value the way result rows are written on the wire: the
// literal payload, or an empty field for NULL.
func (v Value) CSV() string {
	if v.null {
		return ""
	}
	if v.typ == TypeInteger {
		return fmt.Sprintf("%d", v.intVal)
	}
	return v.strVal
}
