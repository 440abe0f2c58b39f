package qc

import (
	"marineqc/internal/obs"
)

// Engine runs check batteries against a registry.
type Engine struct {
	registry *Registry
}

// New returns an engine backed by the given registry.
func New(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Default returns an engine backed by the process-wide registry.
func Default() *Engine { return New(DefaultRegistry()) }

// RunIndependent applies the battery to every row of the table as a single
// group. Checks that look at rows in isolation belong here.
func (e *Engine) RunIndependent(data *obs.Table, checks, preprocessing Config, method ReturnMethod) (*FlagMatrix, error) {
	return e.run(data, nil, checks, preprocessing, method)
}

// RunSequential applies the battery per group, for checks that interpret a
// group as an ordered sequence of reports (track and spike checks). A nil
// grouper treats the whole table as one sequence.
func (e *Engine) RunSequential(data *obs.Table, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (*FlagMatrix, error) {
	return e.run(data, groupBy, checks, preprocessing, method)
}

// RunGrouped applies the battery per group, for checks that compare each
// report against its unordered group (buddy checks). Grouped checks
// normally run over the whole table at once; pass a nil grouper for that
// default, or a grouper to partition the table first.
func (e *Engine) RunGrouped(data *obs.Table, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (*FlagMatrix, error) {
	return e.run(data, groupBy, checks, preprocessing, method)
}

// RunIndependentRecord promotes a single record to a one-row table, runs
// the battery, and unwraps the result to one flag per check.
func (e *Engine) RunIndependentRecord(rec obs.Record, checks, preprocessing Config, method ReturnMethod) (FlagRow, error) {
	return e.runRecord(rec, nil, checks, preprocessing, method)
}

// RunSequentialRecord is RunSequential for a single record.
func (e *Engine) RunSequentialRecord(rec obs.Record, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (FlagRow, error) {
	return e.runRecord(rec, groupBy, checks, preprocessing, method)
}

// RunGroupedRecord is RunGrouped for a single record.
func (e *Engine) RunGroupedRecord(rec obs.Record, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (FlagRow, error) {
	return e.runRecord(rec, groupBy, checks, preprocessing, method)
}

func (e *Engine) runRecord(rec obs.Record, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (FlagRow, error) {
	if !method.valid() {
		return FlagRow{}, ErrInvalidReturnMethod
	}
	table, err := obs.FromRecord(rec)
	if err != nil {
		return FlagRow{}, err
	}
	if table.NumRows() == 0 {
		return FlagRow{}, ErrEmptyRecord
	}
	matrix, err := e.run(table, groupBy, checks, preprocessing, method)
	if err != nil {
		return FlagRow{}, err
	}
	return matrix.Row(0), nil
}

// run validates everything before the first check executes: the return
// method, then both configurations structurally, then every entry's column
// bindings and call contract.
func (e *Engine) run(data *obs.Table, groupBy obs.Grouper, checks, preprocessing Config, method ReturnMethod) (*FlagMatrix, error) {
	if !method.valid() {
		return nil, ErrInvalidReturnMethod
	}
	if err := preprocessing.validate("preprocessing"); err != nil {
		return nil, err
	}
	if err := checks.validate("check"); err != nil {
		return nil, err
	}

	preprocessed, err := runPreprocessing(e.registry, preprocessing, data)
	if err != nil {
		return nil, err
	}

	resolved := make([]*resolvedCheck, len(checks))
	for i, spec := range checks {
		res, err := resolveSpec(e.registry, spec, data, preprocessed)
		if err != nil {
			return nil, err
		}
		resolved[i] = res
	}

	var groups []obs.Group
	if groupBy == nil {
		groups = []obs.Group{obs.WholeTable(data)}
	} else {
		groups, err = groupBy.Groups(data)
		if err != nil {
			return nil, err
		}
	}
	return runEngine(data, resolved, groups, method)
}
