package obs

import (
	"fmt"
	"strings"
)

// Group is a contiguous selection of table rows produced by a Grouper. Key
// is a human-readable rendering of the grouping value ("" for the
// whole-table group); Rows holds positions in the parent table, in the
// parent's row order.
type Group struct {
	Key  string
	Rows []int
}

// Grouper partitions a table into disjoint groups.
type Grouper interface {
	Groups(t *Table) ([]Group, error)
}

// WholeTable returns the single group covering every row of t. It is what
// the engine uses when no grouper is supplied.
func WholeTable(t *Table) Group {
	rows := make([]int, t.NumRows())
	for i := range rows {
		rows[i] = i
	}
	return Group{Rows: rows}
}

type byColumns struct {
	names []string
}

// ByColumns groups rows by the combined value of the named columns. Groups
// are emitted in first-seen row order, and rows within a group keep table
// order.
func ByColumns(names ...string) Grouper {
	return byColumns{names: names}
}

func (g byColumns) Groups(t *Table) ([]Group, error) {
	if len(g.names) == 0 {
		return nil, fmt.Errorf("obs: group by zero columns")
	}
	series := make([]*Series, len(g.names))
	for i, name := range g.names {
		s, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("obs: grouping column %q not in table", name)
		}
		series[i] = s
	}
	var groups []Group
	index := make(map[string]int)
	parts := make([]string, len(series))
	for row := 0; row < t.NumRows(); row++ {
		for i, s := range series {
			parts[i] = s.keyAt(row)
		}
		key := strings.Join(parts, "\x1f")
		gi, seen := index[key]
		if !seen {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: strings.Join(parts, "|")})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
	}
	return groups, nil
}

// IDGroup names a prebuilt group by the row identifiers it should contain.
type IDGroup struct {
	Key string
	IDs []int
}

type prebuilt struct {
	groups []IDGroup
}

// Prebuilt groups rows by externally supplied row-identifier sets. Each
// group is intersected with the table's live identifiers; identifiers the
// table does not hold are dropped, and groups left empty by the
// intersection are omitted.
func Prebuilt(groups ...IDGroup) Grouper {
	return prebuilt{groups: groups}
}

func (g prebuilt) Groups(t *Table) ([]Group, error) {
	pos := make(map[int]int, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		pos[t.IDAt(i)] = i
	}
	var out []Group
	for _, ig := range g.groups {
		var rows []int
		for _, id := range ig.IDs {
			if p, ok := pos[id]; ok {
				rows = append(rows, p)
			}
		}
		if len(rows) == 0 {
			continue
		}
		out = append(out, Group{Key: ig.Key, Rows: rows})
	}
	return out, nil
}
