package obs

import (
	"fmt"
	"sort"
	"time"
)

// Table is a fixed set of rows across ordered, uniquely named columns. Row
// identifiers are assigned 0..n-1 at construction and survive Take, so a
// subset's rows can be mapped back to the table they came from.
type Table struct {
	ids   []int
	order []string
	cols  map[string]*Series
}

// NewTable builds a table from columns. All columns must have the same
// length and distinct, non-empty names.
func NewTable(columns ...*Series) (*Table, error) {
	t := &Table{cols: make(map[string]*Series, len(columns))}
	n := -1
	for _, c := range columns {
		if c.Name() == "" {
			return nil, fmt.Errorf("obs: column with empty name")
		}
		if _, dup := t.cols[c.Name()]; dup {
			return nil, fmt.Errorf("obs: duplicate column %q", c.Name())
		}
		if n == -1 {
			n = c.Len()
		} else if c.Len() != n {
			return nil, fmt.Errorf("obs: column %q has %d rows, want %d", c.Name(), c.Len(), n)
		}
		t.cols[c.Name()] = c
		t.order = append(t.order, c.Name())
	}
	if n == -1 {
		n = 0
	}
	t.ids = make([]int, n)
	for i := range t.ids {
		t.ids[i] = i
	}
	return t, nil
}

// MustNewTable is NewTable for static construction, panicking on error.
func MustNewTable(columns ...*Series) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.ids) }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Series, bool) {
	s, ok := t.cols[name]
	return s, ok
}

// IDs returns the row identifiers in row order.
func (t *Table) IDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

// IDAt returns the identifier of the row at position i.
func (t *Table) IDAt(i int) int { return t.ids[i] }

// PositionOf returns the position of the row with the given identifier.
func (t *Table) PositionOf(id int) (int, bool) {
	for i, v := range t.ids {
		if v == id {
			return i, true
		}
	}
	return 0, false
}

// Take returns a new table holding the rows at the given positions, in the
// given order, with their identifiers preserved.
func (t *Table) Take(positions []int) *Table {
	out := &Table{
		ids:   make([]int, len(positions)),
		order: t.Columns(),
		cols:  make(map[string]*Series, len(t.cols)),
	}
	for i, p := range positions {
		out.ids[i] = t.ids[p]
	}
	for name, s := range t.cols {
		out.cols[name] = s.Take(positions)
	}
	return out
}

// Record is a single observation keyed by field name. Values may be
// float64, float32, int variants, string, or time.Time.
type Record map[string]any

// FromRecord promotes a record to a one-row table. Columns are laid out in
// sorted field-name order so promotion is deterministic.
func FromRecord(r Record) (*Table, error) {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	cols := make([]*Series, 0, len(names))
	for _, name := range names {
		switch v := r[name].(type) {
		case float64:
			cols = append(cols, NewFloatSeries(name, []float64{v}))
		case float32:
			cols = append(cols, NewFloatSeries(name, []float64{float64(v)}))
		case int:
			cols = append(cols, NewFloatSeries(name, []float64{float64(v)}))
		case int64:
			cols = append(cols, NewFloatSeries(name, []float64{float64(v)}))
		case string:
			cols = append(cols, NewStringSeries(name, []string{v}))
		case time.Time:
			cols = append(cols, NewTimeSeries(name, []time.Time{v}))
		default:
			return nil, fmt.Errorf("obs: record field %q has unsupported type %T", name, r[name])
		}
	}
	return NewTable(cols...)
}
