// Package store implements the in-memory relational storage core: typed
// values, schemas, tables with primary-key-indexed rows, a selection/cursor
// contract, and a Store exposing create/insert/truncate/select/join
// operations under a two-level reader/writer lock discipline.
package store

import (
	"sort"
	"sync"

	"github.com/ansochnev/join-server/internal/storeerr"
)

type namedTable struct {
	table *Table
	lock  sync.RWMutex
}

// Store is the top-level keyed map from table name to table. A global
// RWMutex guards the name map itself; each table additionally carries its
// own RWMutex. Lock order is always mapLock then table.lock, to avoid
// deadlock. Insert and Truncate release mapLock as soon as the table lock is
// held; selections and joins release their locks in reverse order.
type Store struct {
	mapLock sync.RWMutex
	tables  map[string]*namedTable
}

func NewStore() *Store {
	return &Store{tables: make(map[string]*namedTable)}
}

// CreateTable installs a new, empty table under name. Fails with
// TableExists if the name is already taken.
func (s *Store) CreateTable(name string, schema *Schema) error {
	s.mapLock.Lock()
	defer s.mapLock.Unlock()
	if _, ok := s.tables[name]; ok {
		return storeerr.NewTableExists(name)
	}
	s.tables[name] = &namedTable{table: NewTable(schema)}
	return nil
}

func (s *Store) lookup(name string) (*namedTable, error) {
	nt, ok := s.tables[name]
	if !ok {
		return nil, storeerr.NewTableMissing(name)
	}
	return nt, nil
}

// Insert appends values to the named table. Acquires a shared lock on the
// name map and an exclusive lock on the table.
func (s *Store) Insert(name string, values []Value) (RowID, error) {
	s.mapLock.RLock()
	nt, err := s.lookup(name)
	if err != nil {
		s.mapLock.RUnlock()
		return 0, err
	}
	nt.lock.Lock()
	s.mapLock.RUnlock()
	defer nt.lock.Unlock()
	return nt.table.Insert(values)
}

// Truncate empties the named table. Acquires a shared lock on the name map
// and an exclusive lock on the table.
func (s *Store) Truncate(name string) error {
	s.mapLock.RLock()
	nt, err := s.lookup(name)
	if err != nil {
		s.mapLock.RUnlock()
		return err
	}
	nt.lock.Lock()
	s.mapLock.RUnlock()
	defer nt.lock.Unlock()
	nt.table.Truncate()
	return nil
}

// SelectAll returns a FullTableSelection streaming the named table's live
// rows under shared locks held until the selection's Close.
func (s *Store) SelectAll(name string) (Selection, error) {
	s.mapLock.RLock()
	nt, err := s.lookup(name)
	if err != nil {
		s.mapLock.RUnlock()
		return nil, err
	}
	nt.lock.RLock()
	unlock := func() {
		nt.lock.RUnlock()
		s.mapLock.RUnlock()
	}
	return NewFullTableSelection(nt.table, unlock), nil
}

// joinLock acquires read locks on the map and on the (up to) two named
// tables in a canonical order — by name — so that a left/right pair never
// deadlocks regardless of argument order, and a self-join acquires its
// single table's lock exactly once.
func (s *Store) joinLock(leftName, rightName string) (left, right *namedTable, unlock func(), err error) {
	s.mapLock.RLock()
	left, err = s.lookup(leftName)
	if err != nil {
		s.mapLock.RUnlock()
		return nil, nil, nil, err
	}
	right, err = s.lookup(rightName)
	if err != nil {
		s.mapLock.RUnlock()
		return nil, nil, nil, err
	}

	if leftName == rightName {
		left.lock.RLock()
		unlock = func() {
			left.lock.RUnlock()
			s.mapLock.RUnlock()
		}
		return left, right, unlock, nil
	}

	first, second := left, right
	if rightName < leftName {
		first, second = right, left
	}
	first.lock.RLock()
	second.lock.RLock()
	unlock = func() {
		second.lock.RUnlock()
		first.lock.RUnlock()
		s.mapLock.RUnlock()
	}
	return left, right, unlock, nil
}

// InnerJoin returns rows where leftTable.leftCol equals rightTable.rightCol,
// using index-accelerated lookups when both columns are indexed, else a
// nested loop. Output columns are named "<table>.<column>", left columns
// first.
func (s *Store) InnerJoin(leftTable, leftCol, rightTable, rightCol string) (Selection, error) {
	left, right, unlock, err := s.joinLock(leftTable, rightTable)
	if err != nil {
		return nil, err
	}
	defer unlock()

	li, ri, err := s.resolveJoinColumns(left.table, leftCol, right.table, rightCol)
	if err != nil {
		return nil, err
	}

	var leftIDs, rightIDs []RowID
	lix := left.table.IndexFor(li)
	rix := right.table.IndexFor(ri)
	if lix != nil && rix != nil {
		leftIDs, rightIDs = innerJoinByIndex(left.table, li, lix, right.table, ri, rix)
	} else {
		leftIDs, rightIDs = innerJoinNested(left.table, li, right.table, ri)
	}

	names := joinedColumnNames(leftTable, left.table.Schema(), rightTable, right.table.Schema())
	leftRecs := left.table.Materialise(leftIDs)
	rightRecs := right.table.Materialise(rightIDs)
	rows := make([]Record, len(leftRecs))
	for i := range rows {
		rows[i] = Splice(leftRecs[i], rightRecs[i])
	}
	return NewMaterialisedSelection(names, rows), nil
}

// FullOuterJoin returns rows present on exactly one side of the join column
// (the symmetric-difference shape; see design notes) padded with NULL cells
// on the absent side. When both join columns are indexed the rows are
// ordered by join-column value; otherwise the unmatched left rows come
// first, then the unmatched right rows, each in insertion order.
func (s *Store) FullOuterJoin(leftTable, leftCol, rightTable, rightCol string) (Selection, error) {
	left, right, unlock, err := s.joinLock(leftTable, rightTable)
	if err != nil {
		return nil, err
	}
	defer unlock()

	li, ri, err := s.resolveJoinColumns(left.table, leftCol, right.table, rightCol)
	if err != nil {
		return nil, err
	}

	var leftIDs, rightIDs []RowID
	lix := left.table.IndexFor(li)
	rix := right.table.IndexFor(ri)
	if lix != nil && rix != nil {
		leftIDs, rightIDs = outerDiffByIndex(left.table, li, lix, right.table, ri, rix)
	} else {
		leftIDs, rightIDs = outerDiffNested(left.table, li, right.table, ri)
	}

	names := joinedColumnNames(leftTable, left.table.Schema(), rightTable, right.table.Schema())
	leftRecs := left.table.Materialise(leftIDs)
	rightRecs := right.table.Materialise(rightIDs)
	rows := make([]Record, len(leftRecs))
	for i := range rows {
		rows[i] = Splice(leftRecs[i], rightRecs[i])
	}
	return NewMaterialisedSelection(names, rows), nil
}

func (s *Store) resolveJoinColumns(left *Table, leftCol string, right *Table, rightCol string) (int, int, error) {
	li, err := left.Schema().IndexOf(leftCol)
	if err != nil {
		return 0, 0, err
	}
	ri, err := right.Schema().IndexOf(rightCol)
	if err != nil {
		return 0, 0, err
	}
	if left.Schema().At(li).Type != right.Schema().At(ri).Type {
		return 0, 0, storeerr.NewTypeMismatch("join columns %s and %s have different types", leftCol, rightCol)
	}
	return li, ri, nil
}

func joinedColumnNames(leftName string, leftSchema *Schema, rightName string, rightSchema *Schema) []string {
	names := make([]string, 0, leftSchema.Size()+rightSchema.Size())
	for i := 0; i < leftSchema.Size(); i++ {
		names = append(names, leftName+"."+leftSchema.At(i).Name)
	}
	for i := 0; i < rightSchema.Size(); i++ {
		names = append(names, rightName+"."+rightSchema.At(i).Name)
	}
	return names
}

func innerJoinByIndex(leftT *Table, li int, lix columnIndex, rightT *Table, ri int, rix columnIndex) ([]RowID, []RowID) {
	leftKeys := lix.keysInOrder()
	rightKeys := rix.keysInOrder()
	smaller, smallerIsLeft := leftKeys, true
	if len(rightKeys) < len(leftKeys) {
		smaller, smallerIsLeft = rightKeys, false
	}

	var leftIDs, rightIDs []RowID
	for _, key := range smaller {
		var a, b []RowID
		if smallerIsLeft {
			a = lix.rowsFor(key)
			if !rix.contains(key) {
				continue
			}
			b = rix.rowsFor(key)
		} else {
			b = rix.rowsFor(key)
			if !lix.contains(key) {
				continue
			}
			a = lix.rowsFor(key)
		}
		for _, l := range a {
			for _, r := range b {
				leftIDs = append(leftIDs, l)
				rightIDs = append(rightIDs, r)
			}
		}
	}
	return leftIDs, rightIDs
}

func innerJoinNested(leftT *Table, li int, rightT *Table, ri int) ([]RowID, []RowID) {
	var leftIDs, rightIDs []RowID
	for l := 0; l < leftT.RowCount(); l++ {
		lv := leftT.RowAt(RowID(l))[li]
		if lv.IsNull() {
			continue
		}
		for r := 0; r < rightT.RowCount(); r++ {
			rv := rightT.RowAt(RowID(r))[ri]
			if rv.IsNull() {
				continue
			}
			if lv.Equal(rv) {
				leftIDs = append(leftIDs, RowID(l))
				rightIDs = append(rightIDs, RowID(r))
			}
		}
	}
	return leftIDs, rightIDs
}

func outerDiffByIndex(leftT *Table, li int, lix columnIndex, rightT *Table, ri int, rix columnIndex) ([]RowID, []RowID) {
	type pair struct {
		key         Value
		left, right RowID
	}
	var pairs []pair

	for _, key := range lix.keysInOrder() {
		if rix.contains(key) {
			continue
		}
		for _, id := range lix.rowsFor(key) {
			pairs = append(pairs, pair{key: key, left: id, right: AbsentRow})
		}
	}
	for _, key := range rix.keysInOrder() {
		if lix.contains(key) {
			continue
		}
		for _, id := range rix.rowsFor(key) {
			pairs = append(pairs, pair{key: key, left: AbsentRow, right: id})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return lessValue(pairs[i].key, pairs[j].key) })

	leftIDs := make([]RowID, len(pairs))
	rightIDs := make([]RowID, len(pairs))
	for i, p := range pairs {
		leftIDs[i] = p.left
		rightIDs[i] = p.right
	}
	return leftIDs, rightIDs
}

func outerDiffNested(leftT *Table, li int, rightT *Table, ri int) ([]RowID, []RowID) {
	rightHas := func(v Value) bool {
		for r := 0; r < rightT.RowCount(); r++ {
			rv := rightT.RowAt(RowID(r))[ri]
			if !rv.IsNull() && rv.Equal(v) {
				return true
			}
		}
		return false
	}
	leftHas := func(v Value) bool {
		for l := 0; l < leftT.RowCount(); l++ {
			lv := leftT.RowAt(RowID(l))[li]
			if !lv.IsNull() && lv.Equal(v) {
				return true
			}
		}
		return false
	}

	var leftIDs, rightIDs []RowID
	for l := 0; l < leftT.RowCount(); l++ {
		lv := leftT.RowAt(RowID(l))[li]
		if lv.IsNull() || rightHas(lv) {
			continue
		}
		leftIDs = append(leftIDs, RowID(l))
		rightIDs = append(rightIDs, AbsentRow)
	}
	for r := 0; r < rightT.RowCount(); r++ {
		rv := rightT.RowAt(RowID(r))[ri]
		if rv.IsNull() || leftHas(rv) {
			continue
		}
		leftIDs = append(leftIDs, AbsentRow)
		rightIDs = append(rightIDs, RowID(r))
	}
	return leftIDs, rightIDs
}

func lessValue(a, b Value) bool {
	if a.Type() == TypeInteger {
		av, _ := a.AsInt()
		bv, _ := b.AsInt()
		return av < bv
	}
	as, _ := a.AsString()
	bs, _ := b.AsString()
	return as < bs
}
