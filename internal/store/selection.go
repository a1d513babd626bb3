package store

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ansochnev/join-server/internal/storeerr"
)

// Selection is the iterator contract surfaced to clients: a cursor starting
// on the first row if any, else already at end.
type Selection interface {
	// End reports whether the cursor has advanced past the last row.
	End() bool
	// Next advances the cursor by one row.
	Next()
	// ColumnNames returns the output column names, in order.
	ColumnNames() []string
	IsNull(col int) bool
	GetLong(col int) (int64, error)
	GetString(col int) (string, error)
	// Close releases any resources (locks) held by the selection. The
	// network layer MUST invoke Close on every code path.
	Close()
}

// FullTableSelection streams a live table under a shared lock held by the
// selection itself; Close is the sole release point for that lock.
type FullTableSelection struct {
	table   *Table
	unlock  func()
	once    sync.Once
	cursor  RowID
	names   []string
}

// NewFullTableSelection builds a selection over table, assuming the caller
// has already acquired the necessary shared locks; unlock releases them and
// is invoked exactly once, on Close.
func NewFullTableSelection(table *Table, unlock func()) *FullTableSelection {
	names := make([]string, table.Schema().Size())
	for i := range names {
		names[i] = table.Schema().At(i).Name
	}
	return &FullTableSelection{table: table, unlock: unlock, cursor: 0, names: names}
}

func (s *FullTableSelection) End() bool { return int(s.cursor) >= s.table.RowCount() }

func (s *FullTableSelection) Next() { s.cursor++ }

func (s *FullTableSelection) ColumnNames() []string { return s.names }

func (s *FullTableSelection) IsNull(col int) bool {
	return s.table.RowAt(s.cursor)[col].IsNull()
}

func (s *FullTableSelection) GetLong(col int) (int64, error) {
	return s.table.RowAt(s.cursor)[col].AsInt()
}

func (s *FullTableSelection) GetString(col int) (string, error) {
	return s.table.RowAt(s.cursor)[col].AsString()
}

func (s *FullTableSelection) Close() {
	s.once.Do(func() {
		if s.unlock != nil {
			s.unlock()
		}
	})
}

// MaterialisedSelection owns a slice of Records computed by the join
// planner; it does not hold any table lock while iterated.
type MaterialisedSelection struct {
	names  []string
	rows   []Record
	cursor int
}

func NewMaterialisedSelection(names []string, rows []Record) *MaterialisedSelection {
	return &MaterialisedSelection{names: names, rows: rows}
}

func (s *MaterialisedSelection) End() bool { return s.cursor >= len(s.rows) }

func (s *MaterialisedSelection) Next() { s.cursor++ }

func (s *MaterialisedSelection) ColumnNames() []string { return s.names }

func (s *MaterialisedSelection) IsNull(col int) bool {
	return s.rows[s.cursor].Values[col].IsNull()
}

func (s *MaterialisedSelection) GetLong(col int) (int64, error) {
	return s.rows[s.cursor].Values[col].AsInt()
}

func (s *MaterialisedSelection) GetString(col int) (string, error) {
	return s.rows[s.cursor].Values[col].AsString()
}

func (s *MaterialisedSelection) Close() {}

// RowCSV renders the current row the way the network wire expects: comma
// separated values, empty field for NULL.
func RowCSV(s Selection) (string, error) {
	names := s.ColumnNames()
	out := make([]string, len(names))
	for i := range names {
		if s.IsNull(i) {
			out[i] = ""
			continue
		}
		// Column type is implied by whichever typed getter succeeds.
		if n, err := s.GetLong(i); err == nil {
			out[i] = strconv.FormatInt(n, 10)
			continue
		}
		str, err := s.GetString(i)
		if err != nil {
			return "", storeerr.NewTypeMismatch("column %d: %v", i, err)
		}
		out[i] = str
	}
	return strings.Join(out, ","), nil
}
