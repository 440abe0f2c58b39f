package qc

import "fmt"

// Flag is the four-valued outcome of a quality-control check for one row.
// The numeric values are part of the output format and must not change.
type Flag uint8

const (
	Passed     Flag = 0
	Failed     Flag = 1
	Untestable Flag = 2
	Untested   Flag = 3
)

func (f Flag) String() string {
	switch f {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Untestable:
		return "untestable"
	case Untested:
		return "untested"
	default:
		return fmt.Sprintf("Flag(%d)", uint8(f))
	}
}

// FlagMatrix holds the outcome of a battery run: one column of flags per
// check, in battery declaration order, over the rows of the input table.
// Row identifiers are carried over from the table.
type FlagMatrix struct {
	ids   []int
	names []string
	cols  [][]Flag
}

func newFlagMatrix(ids []int, names []string) *FlagMatrix {
	m := &FlagMatrix{ids: ids, names: names, cols: make([][]Flag, len(names))}
	for i := range m.cols {
		col := make([]Flag, len(ids))
		for j := range col {
			col[j] = Untested
		}
		m.cols[i] = col
	}
	return m
}

// NumRows returns the number of rows.
func (m *FlagMatrix) NumRows() int { return len(m.ids) }

// Checks returns the check names in battery order.
func (m *FlagMatrix) Checks() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// IDs returns the row identifiers in row order.
func (m *FlagMatrix) IDs() []int {
	out := make([]int, len(m.ids))
	copy(out, m.ids)
	return out
}

// Column returns the flags of the named check in row order.
func (m *FlagMatrix) Column(check string) ([]Flag, bool) {
	for i, n := range m.names {
		if n == check {
			out := make([]Flag, len(m.cols[i]))
			copy(out, m.cols[i])
			return out, true
		}
	}
	return nil, false
}

// At returns the flag for the row at position row under the named check.
func (m *FlagMatrix) At(row int, check string) (Flag, bool) {
	for i, n := range m.names {
		if n == check {
			return m.cols[i][row], true
		}
	}
	return Untested, false
}

// Row extracts the flags of a single row across all checks.
func (m *FlagMatrix) Row(row int) FlagRow {
	flags := make([]Flag, len(m.names))
	for i := range m.names {
		flags[i] = m.cols[i][row]
	}
	return FlagRow{names: m.Checks(), flags: flags}
}

func (m *FlagMatrix) set(row, check int, f Flag) { m.cols[check][row] = f }

// FlagRow is the unwrapped result of running a battery over a single
// record: one flag per check, in battery order.
type FlagRow struct {
	names []string
	flags []Flag
}

// Checks returns the check names in battery order.
func (r FlagRow) Checks() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Flags returns the flags in battery order.
func (r FlagRow) Flags() []Flag {
	out := make([]Flag, len(r.flags))
	copy(out, r.flags)
	return out
}

// Get returns the flag of the named check.
func (r FlagRow) Get(check string) (Flag, bool) {
	for i, n := range r.names {
		if n == check {
			return r.flags[i], true
		}
	}
	return Untested, false
}
