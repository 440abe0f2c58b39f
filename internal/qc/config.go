package qc

import "fmt"

// PreprocessedRef is an argument value that requests the output of a named
// preprocessing entry instead of a literal. Build one with Preprocessed.
type PreprocessedRef struct {
	name string
}

// Preprocessed marks an argument as a reference to the preprocessing entry
// with the given name. The resolver substitutes the entry's output before
// the check runs.
func Preprocessed(name string) PreprocessedRef { return PreprocessedRef{name: name} }

// Name returns the referenced preprocessing entry name.
func (r PreprocessedRef) Name() string { return r.name }

// CheckSpec describes one battery entry: which registered function to run
// and how to feed it.
//
// Names binds declared parameters to table columns; the engine slices the
// bound columns per group. Inputs are positional literal values, bound to
// the function's leading parameters in declaration order. Arguments are
// keyword literals; a PreprocessedRef value is substituted with the output
// of the named preprocessing entry.
type CheckSpec struct {
	Name      string
	Func      string
	Names     map[string]string
	Inputs    []any
	Arguments map[string]any
}

// Config is an ordered battery of checks (or preprocessing steps). Order is
// significant: it fixes result column order and mask evaluation order.
type Config []CheckSpec

func (c Config) validate(role string) error {
	seen := make(map[string]struct{}, len(c))
	for _, spec := range c {
		if spec.Name == "" {
			return &ConfigError{Reason: fmt.Sprintf("%s entry with empty name", role)}
		}
		if _, dup := seen[spec.Name]; dup {
			return &ConfigError{Reason: fmt.Sprintf("duplicate %s entry %q", role, spec.Name)}
		}
		seen[spec.Name] = struct{}{}
		if spec.Func == "" {
			return &ConfigError{Reason: fmt.Sprintf("%s entry %q does not specify a function", role, spec.Name)}
		}
	}
	return nil
}

// EntryNames returns the entry names in declaration order.
func (c Config) EntryNames() []string {
	out := make([]string, len(c))
	for i, spec := range c {
		out[i] = spec.Name
	}
	return out
}
