package qc

import (
	"fmt"

	"marineqc/internal/obs"
)

// ReturnMethod controls how a check's outcome feeds the row mask that gates
// later checks in the battery.
type ReturnMethod string

const (
	// ReturnAll leaves the mask alone: every check sees every row.
	ReturnAll ReturnMethod = "all"
	// ReturnPassed drops rows that pass a check from later checks.
	ReturnPassed ReturnMethod = "passed"
	// ReturnFailed drops rows that fail a check from later checks.
	ReturnFailed ReturnMethod = "failed"
)

func (m ReturnMethod) valid() bool {
	switch m {
	case ReturnAll, ReturnPassed, ReturnFailed:
		return true
	}
	return false
}

// runPreprocessing executes every preprocessing entry once over the full
// table, in declaration order, and returns the outputs keyed by entry name.
// Any failure is fatal for the run.
func runPreprocessing(registry *Registry, cfg Config, t *obs.Table) (map[string]any, error) {
	out := make(map[string]any, len(cfg))
	for _, spec := range cfg {
		res, err := resolveSpec(registry, spec, t, out)
		if err != nil {
			return nil, err
		}
		value, err := res.reg.Call(res.invocationArgs(nil))
		if err != nil {
			return nil, fmt.Errorf("qc: preprocessing %q: %w", spec.Name, err)
		}
		out[spec.Name] = value
	}
	return out, nil
}

// invocationArgs assembles the Args for one group. Column-bound parameters
// are sliced to the group's rows; literal arguments pass through, except
// that series-valued arguments (preprocessed columns) are sliced the same
// way. A nil row set means the whole table, unsliced.
func (c *resolvedCheck) invocationArgs(rows []int) Args {
	args := make(Args, len(c.requests)+len(c.args))
	for name, series := range c.requests {
		if rows == nil {
			args[name] = series
		} else {
			args[name] = series.Take(rows)
		}
	}
	for name, value := range c.args {
		if series, ok := value.(*obs.Series); ok && rows != nil {
			args[name] = series.Take(rows)
			continue
		}
		args[name] = value
	}
	return args
}

// runEngine executes resolved checks over the groups of a table.
//
// A global mask starts all true. Each group copies the global mask for its
// own rows and walks the battery in declaration order, skipping the rest of
// the battery once no row in the group remains active. Checks always see
// the whole group; their flags are written back only for rows that were
// active when the check ran. Under ReturnPassed (ReturnFailed) rows whose
// flag equals Passed (Failed) are removed from the mask for the rest of the
// group's battery.
func runEngine(t *obs.Table, checks []*resolvedCheck, groups []obs.Group, method ReturnMethod) (*FlagMatrix, error) {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.name
	}
	matrix := newFlagMatrix(t.IDs(), names)

	mask := make([]bool, t.NumRows())
	for i := range mask {
		mask[i] = true
	}

	for _, group := range groups {
		groupMask := make([]bool, len(group.Rows))
		for i, row := range group.Rows {
			groupMask[i] = mask[row]
		}

		for ci, check := range checks {
			if !anyTrue(groupMask) {
				break
			}
			out, err := check.reg.Call(check.invocationArgs(group.Rows))
			if err != nil {
				return nil, fmt.Errorf("qc: check %q: %w", check.name, err)
			}
			flags, err := coerceFlags(check.name, out, len(group.Rows))
			if err != nil {
				return nil, err
			}
			for i, row := range group.Rows {
				if groupMask[i] {
					matrix.set(row, ci, flags[i])
				}
			}

			var gate Flag
			switch method {
			case ReturnPassed:
				gate = Passed
			case ReturnFailed:
				gate = Failed
			default:
				continue
			}
			for i, row := range group.Rows {
				if groupMask[i] && flags[i] == gate {
					groupMask[i] = false
					mask[row] = false
				}
			}
		}
	}
	return matrix, nil
}

func anyTrue(mask []bool) bool {
	for _, b := range mask {
		if b {
			return true
		}
	}
	return false
}

// coerceFlags normalizes a check result to one flag per group row. A
// scalar Flag broadcasts over the group; a slice must match the group
// length exactly.
func coerceFlags(check string, out any, n int) ([]Flag, error) {
	switch v := out.(type) {
	case Flag:
		flags := make([]Flag, n)
		for i := range flags {
			flags[i] = v
		}
		return flags, nil
	case []Flag:
		if len(v) != n {
			return nil, fmt.Errorf("qc: check %q returned %d flags for %d rows", check, len(v), n)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("qc: check %q returned %T, want Flag or []Flag", check, out)
	}
}
