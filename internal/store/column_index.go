package store

// columnIndex adapts a typed Index[T] to operate on Values, so Table can
// hold one per indexed column without the Table type itself being generic.
// Exactly one of the two concrete shapes below is built per column,
// selected by that column's declared Type at construction time.
type columnIndex interface {
	insert(v Value, id RowID)
	remove(v Value, id RowID)
	clear()
	contains(v Value) bool
	rowsFor(v Value) []RowID
	keysInOrder() []Value
}

func newColumnIndex(t Type) columnIndex {
	switch t {
	case TypeInteger:
		return &intColumnIndex{ix: NewIndex[int64]()}
	default:
		return &textColumnIndex{ix: NewIndex[string]()}
	}
}

type intColumnIndex struct {
	ix *Index[int64]
}

func (c *intColumnIndex) insert(v Value, id RowID) {
	n, _ := v.AsInt()
	c.ix.Insert(n, id)
}
func (c *intColumnIndex) remove(v Value, id RowID) {
	n, _ := v.AsInt()
	c.ix.Remove(n, id)
}
func (c *intColumnIndex) clear() { c.ix.Clear() }
func (c *intColumnIndex) contains(v Value) bool {
	n, err := v.AsInt()
	if err != nil {
		return false
	}
	return c.ix.Contains(n)
}
func (c *intColumnIndex) rowsFor(v Value) []RowID {
	n, err := v.AsInt()
	if err != nil {
		return nil
	}
	return c.ix.RowsFor(n)
}
func (c *intColumnIndex) keysInOrder() []Value {
	keys := c.ix.Keys(func(a, b int64) bool { return a < b })
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewInt(k)
	}
	return out
}

type textColumnIndex struct {
	ix *Index[string]
}

func (c *textColumnIndex) insert(v Value, id RowID) {
	s, _ := v.AsString()
	c.ix.Insert(s, id)
}
func (c *textColumnIndex) remove(v Value, id RowID) {
	s, _ := v.AsString()
	c.ix.Remove(s, id)
}
func (c *textColumnIndex) clear() { c.ix.Clear() }
func (c *textColumnIndex) contains(v Value) bool {
	s, err := v.AsString()
	if err != nil {
		return false
	}
	return c.ix.Contains(s)
}
func (c *textColumnIndex) rowsFor(v Value) []RowID {
	s, err := v.AsString()
	if err != nil {
		return nil
	}
	return c.ix.RowsFor(s)
}
func (c *textColumnIndex) keysInOrder() []Value {
	keys := c.ix.Keys(func(a, b string) bool { return a < b })
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = NewText(k)
	}
	return out
}
