package checks

import (
	"fmt"

	"marineqc/internal/obs"
	"marineqc/internal/qc"
)

// unitsKeyword is the reserved keyword every unit-aware check accepts: a
// map from parameter name to the unit the caller's values are expressed
// in. Values are converted to the check's expected unit before it runs.
const unitsKeyword = "units"

type linearUnit struct {
	// value_expected = value_given*scale + offset when converting to the
	// canonical unit of the dimension.
	dimension string
	scale     float64
	offset    float64
}

// Canonical units: kelvin for temperature, km/h for speed, degrees for
// angle, hPa for pressure.
var unitTable = map[string]linearUnit{
	"K":       {"temperature", 1, 0},
	"kelvin":  {"temperature", 1, 0},
	"degC":    {"temperature", 1, 273.15},
	"degF":    {"temperature", 5.0 / 9.0, 459.67 * 5.0 / 9.0},
	"km/h":    {"speed", 1, 0},
	"m/s":     {"speed", 3.6, 0},
	"knots":   {"speed", 1.852, 0},
	"degrees": {"angle", 1, 0},
	"hPa":     {"pressure", 1, 0},
	"Pa":      {"pressure", 0.01, 0},
	"unknown": {"unknown", 1, 0},
}

// convertTo converts a value between two units of the same dimension.
func convertTo(value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}
	f, ok := unitTable[from]
	if !ok {
		return 0, fmt.Errorf("checks: unknown unit %q", from)
	}
	t, ok := unitTable[to]
	if !ok {
		return 0, fmt.Errorf("checks: unknown unit %q", to)
	}
	if f.dimension != t.dimension {
		return 0, fmt.Errorf("checks: cannot convert %s to %s", from, to)
	}
	canonical := value*f.scale + f.offset
	return (canonical - t.offset) / t.scale, nil
}

// withUnits wraps a check so that the reserved units keyword converts the
// named arguments into the units the check expects. An expected unit of
// "unknown" means the parameter only has to be dimensionally consistent
// with its limits, so no conversion is applied.
func withUnits(expected map[string]string, fn qc.Func) qc.Func {
	return func(args qc.Args) (any, error) {
		given := unitsArg(args)
		if len(given) == 0 {
			return fn(args)
		}
		converted := make(qc.Args, len(args))
		for name, value := range args {
			converted[name] = value
		}
		for param, from := range given {
			want, ok := expected[param]
			if !ok || want == "unknown" || from == want {
				continue
			}
			value, err := convertValue(converted[param], from, want)
			if err != nil {
				return nil, fmt.Errorf("checks: parameter %q: %w", param, err)
			}
			converted[param] = value
		}
		return fn(converted)
	}
}

func unitsArg(args qc.Args) map[string]string {
	switch m := args[unitsKeyword].(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

func convertValue(value any, from, to string) (any, error) {
	switch v := value.(type) {
	case float64:
		return convertTo(v, from, to)
	case int:
		return convertTo(float64(v), from, to)
	case *obs.Series:
		in := v.Floats()
		out := make([]float64, len(in))
		for i, x := range in {
			c, err := convertTo(x, from, to)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return obs.NewFloatSeries(v.Name(), out), nil
	case []float64:
		out := make([]float64, len(v))
		for i, x := range v {
			c, err := convertTo(x, from, to)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			var x float64
			switch n := e.(type) {
			case float64:
				x = n
			case int:
				x = float64(n)
			default:
				return nil, fmt.Errorf("cannot convert %T", e)
			}
			c, err := convertTo(x, from, to)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot convert %T", value)
}
