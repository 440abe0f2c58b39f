package qc

import (
	"fmt"

	"marineqc/internal/obs"
)

// Args carries the fully resolved arguments of one invocation: column-bound
// parameters (sliced to the current group), literal keyword arguments, and
// substituted preprocessed values.
type Args map[string]any

// Series returns the named argument as a column.
func (a Args) Series(name string) (*obs.Series, bool) {
	s, ok := a[name].(*obs.Series)
	return s, ok
}

// Float returns the named argument as a float, coercing integer literals.
func (a Args) Float(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// FloatOr returns the named argument as a float, or def when absent.
func (a Args) FloatOr(name string, def float64) float64 {
	if v, ok := a.Float(name); ok {
		return v
	}
	return def
}

// Int returns the named argument as an int, accepting whole floats.
func (a Args) Int(name string) (int, bool) {
	switch v := a[name].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int64(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// IntOr returns the named argument as an int, or def when absent.
func (a Args) IntOr(name string, def int) int {
	if v, ok := a.Int(name); ok {
		return v
	}
	return def
}

// String returns the named argument as a string.
func (a Args) String(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok
}

// Bool returns the named argument as a bool.
func (a Args) Bool(name string) (bool, bool) {
	b, ok := a[name].(bool)
	return b, ok
}

// FloatPair returns the named argument as a two-element numeric slice.
func (a Args) FloatPair(name string) (lo, hi float64, ok bool) {
	pair, ok := asFloatSlice(a[name])
	if !ok || len(pair) != 2 {
		return 0, 0, false
	}
	return pair[0], pair[1], true
}

// FloatSlice returns the named argument as a numeric slice.
func (a Args) FloatSlice(name string) ([]float64, bool) {
	return asFloatSlice(a[name])
}

func asFloatSlice(v any) ([]float64, bool) {
	switch vs := v.(type) {
	case []float64:
		out := make([]float64, len(vs))
		copy(out, vs)
		return out, true
	case []int:
		out := make([]float64, len(vs))
		for i, n := range vs {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(vs))
		for i, e := range vs {
			switch n := e.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			case int64:
				out[i] = float64(n)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

// Func is a registered callable. It receives the resolved arguments for one
// group and returns either a single Flag (broadcast over the group), a
// []Flag aligned to the group rows, or an arbitrary value for preprocessing
// functions.
type Func func(args Args) (any, error)

// Param is one declared parameter of a registered function.
type Param struct {
	Name     string
	Type     Type
	Required bool
}

// Registration is the static metadata of one registered function: its
// callable plus everything the contract validator needs.
//
// Reserved lists keyword names injected by adapters (unit conversion and
// the like); the validator accepts them without a matching Param.
// AcceptsExtra marks functions that absorb arbitrary keywords, which
// disables keyword validation entirely. VariadicParam, when set, names the
// parameter that collects surplus positional inputs as a []any.
type Registration struct {
	Name          string
	Params        []Param
	Reserved      []string
	AcceptsExtra  bool
	VariadicParam string
	Call          Func
}

func (r Registration) param(name string) (Param, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Registry maps function names to their registrations. It is populated at
// init time and read-only afterwards.
type Registry struct {
	funcs map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Registration)}
}

// Register adds a registration, rejecting duplicates and incomplete
// entries.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return fmt.Errorf("qc: registration with empty name")
	}
	if reg.Call == nil {
		return fmt.Errorf("qc: registration %q has no callable", reg.Name)
	}
	if _, dup := r.funcs[reg.Name]; dup {
		return fmt.Errorf("qc: function %q registered twice", reg.Name)
	}
	r.funcs[reg.Name] = reg
	return nil
}

// MustRegister is Register for init-time population, panicking on error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// Lookup returns the registration for a name.
func (r *Registry) Lookup(name string) (Registration, error) {
	reg, ok := r.funcs[name]
	if !ok {
		return Registration{}, &UnknownFunctionError{Name: name}
	}
	return reg, nil
}

// Names returns the registered function names, unordered.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	return out
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that check packages
// populate at init.
func DefaultRegistry() *Registry { return defaultRegistry }

// MustRegister adds a registration to the default registry.
func MustRegister(reg Registration) { defaultRegistry.MustRegister(reg) }
