package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marineqc/internal/qc"
)

// preprocessedSentinel is the placeholder battery files use to request a
// preprocessing entry's output instead of a literal argument. As a plain
// string value it refers to the entry named after the parameter; as a
// one-key mapping it names the entry explicitly:
//
//	arguments:
//	  climatology: __preprocessed__            # entry "climatology"
//	  standard_deviation:
//	    __preprocessed__: sst_stdev            # entry "sst_stdev"
//
// The sentinel exists only at the file boundary; in memory the reference
// is the tagged qc.Preprocessed value, so genuine string literals cannot
// collide with it.
const preprocessedSentinel = "__preprocessed__"

// Battery is a parsed battery definition: the checks to run and the
// preprocessing entries they may reference.
type Battery struct {
	Checks        qc.Config
	Preprocessing qc.Config
}

type batteryFile struct {
	Checks        []batteryEntry `yaml:"checks"`
	Preprocessing []batteryEntry `yaml:"preprocessing"`
}

type batteryEntry struct {
	Name      string            `yaml:"name"`
	Func      string            `yaml:"func"`
	Names     map[string]string `yaml:"names"`
	Inputs    []any             `yaml:"inputs"`
	Arguments map[string]any    `yaml:"arguments"`
}

// LoadBattery reads and parses a YAML battery file.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load battery: %w", err)
	}
	return ParseBattery(data)
}

// ParseBattery parses a YAML battery definition, translating the
// preprocessed-value sentinel into tagged references.
func ParseBattery(data []byte) (*Battery, error) {
	var file batteryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse battery: %w", err)
	}
	return &Battery{
		Checks:        toEngineConfig(file.Checks),
		Preprocessing: toEngineConfig(file.Preprocessing),
	}, nil
}

func toEngineConfig(entries []batteryEntry) qc.Config {
	if len(entries) == 0 {
		return nil
	}
	out := make(qc.Config, len(entries))
	for i, e := range entries {
		out[i] = qc.CheckSpec{
			Name:      e.Name,
			Func:      e.Func,
			Names:     e.Names,
			Inputs:    e.Inputs,
			Arguments: translateArguments(e.Arguments),
		}
	}
	return out
}

func translateArguments(args map[string]any) map[string]any {
	if len(args) == 0 {
		return args
	}
	out := make(map[string]any, len(args))
	for key, value := range args {
		switch v := value.(type) {
		case string:
			if v == preprocessedSentinel {
				out[key] = qc.Preprocessed(key)
				continue
			}
		case map[string]any:
			if name, ok := sentinelRef(v); ok {
				out[key] = qc.Preprocessed(name)
				continue
			}
		}
		out[key] = value
	}
	return out
}

func sentinelRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	v, ok := m[preprocessedSentinel]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
