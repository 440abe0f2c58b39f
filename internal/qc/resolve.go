package qc

import (
	"fmt"

	"marineqc/internal/obs"
)

// resolvedCheck is one battery entry after resolution: the registration,
// the full-table columns bound to parameters, and the literal keyword
// arguments with preprocessed references substituted. Positional inputs
// are already merged into args by parameter declaration order.
type resolvedCheck struct {
	name     string
	reg      Registration
	requests map[string]*obs.Series
	args     map[string]any
}

// resolveSpec binds one entry against the registry, the table, and the
// preprocessed values, and validates the resulting call against the
// registration's contract. Every error here surfaces before any check
// executes.
func resolveSpec(registry *Registry, spec CheckSpec, t *obs.Table, preprocessed map[string]any) (*resolvedCheck, error) {
	reg, err := registry.Lookup(spec.Func)
	if err != nil {
		return nil, err
	}

	requests := make(map[string]*obs.Series, len(spec.Names))
	for param, column := range spec.Names {
		// Functions that absorb arbitrary keywords take any name; the
		// column itself must still exist.
		if _, ok := reg.param(param); !ok && !reg.AcceptsExtra {
			return nil, &InvalidParameterError{Param: param, Func: spec.Func}
		}
		series, ok := t.Column(column)
		if !ok {
			return nil, &UnknownColumnError{Column: column, Func: spec.Func}
		}
		requests[param] = series
	}

	args := make(map[string]any, len(spec.Arguments))
	for key, value := range spec.Arguments {
		if ref, ok := value.(PreprocessedRef); ok {
			sub, ok := preprocessed[ref.Name()]
			if !ok {
				return nil, &MissingPreprocessedError{Name: ref.Name(), Func: spec.Func}
			}
			args[key] = sub
			continue
		}
		args[key] = value
	}

	if err := bindInputs(reg, spec, requests, args); err != nil {
		return nil, err
	}
	if err := validateCall(reg, spec.Func, requests, args); err != nil {
		return nil, err
	}
	return &resolvedCheck{name: spec.Name, reg: reg, requests: requests, args: args}, nil
}

// bindInputs merges positional inputs into the keyword arguments by
// parameter declaration order. Surplus inputs go to the variadic parameter
// when the registration declares one.
func bindInputs(reg Registration, spec CheckSpec, requests map[string]*obs.Series, args map[string]any) error {
	if len(spec.Inputs) > len(reg.Params) && reg.VariadicParam == "" {
		return &TooManyPositionalError{Func: spec.Func, Got: len(spec.Inputs), Want: len(reg.Params)}
	}
	for i, value := range spec.Inputs {
		if i >= len(reg.Params) {
			extra := append([]any{}, spec.Inputs[len(reg.Params):]...)
			args[reg.VariadicParam] = extra
			break
		}
		name := reg.Params[i].Name
		if _, dup := args[name]; dup {
			return &ConfigError{Reason: fmt.Sprintf("%q bound both positionally and by keyword in %q", name, spec.Func)}
		}
		if _, dup := requests[name]; dup {
			return &ConfigError{Reason: fmt.Sprintf("%q bound both positionally and by column in %q", name, spec.Func)}
		}
		args[name] = value
	}
	return nil
}
