package qc

import (
	"sort"

	"marineqc/internal/obs"
)

// validateCall checks a fully resolved call against the registration's
// declared contract: every supplied keyword must name a declared parameter
// (or a reserved adapter keyword), every value must satisfy the declared
// type, and every required parameter must be supplied. Functions that
// absorb arbitrary keywords skip keyword validation, matching keyword
// pass-through semantics.
func validateCall(reg Registration, funcName string, requests map[string]*obs.Series, args map[string]any) error {
	reserved := make(map[string]struct{}, len(reg.Reserved))
	for _, name := range reg.Reserved {
		reserved[name] = struct{}{}
	}

	supplied := make(map[string]any, len(requests)+len(args))
	for name, series := range requests {
		supplied[name] = series
	}
	for name, value := range args {
		supplied[name] = value
	}

	if !reg.AcceptsExtra {
		names := make([]string, 0, len(supplied))
		for name := range supplied {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, skip := reserved[name]; skip {
				continue
			}
			if name == reg.VariadicParam && reg.VariadicParam != "" {
				continue
			}
			param, ok := reg.param(name)
			if !ok {
				return &UnknownKeywordError{Param: name, Func: funcName}
			}
			if param.Type != nil && !param.Type.Accepts(supplied[name]) {
				return &ArgumentTypeError{
					Param: name,
					Func:  funcName,
					Want:  param.Type.String(),
					Value: supplied[name],
				}
			}
		}
	}

	for _, param := range reg.Params {
		if !param.Required {
			continue
		}
		if _, ok := supplied[param.Name]; !ok {
			return &MissingRequiredError{Param: param.Name, Func: funcName}
		}
	}
	return nil
}
