package routine

import (
	"fmt"
	"os"

	"github.com/urmzd/relayctl/pkg/relay"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of custom routines.
type File struct {
	Routines []RoutineConfig `yaml:"routines"`
}

// RoutineConfig is one routine in a routines file.
type RoutineConfig struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Cycles      int          `yaml:"cycles"`
	Steps       []StepConfig `yaml:"steps"`
}

// StepConfig gives a pattern as binary, hex, or one of "all-on"/"all-off".
type StepConfig struct {
	Label   string `yaml:"label"`
	Binary  string `yaml:"binary"`
	Hex     string `yaml:"hex"`
	Pattern string `yaml:"pattern"`
	Hold    int    `yaml:"hold"`
}

// LoadFile reads and validates routine definitions from a YAML file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routines file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates routine definitions from YAML.
func Parse(data []byte) ([]Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse routines: %w", err)
	}

	seen := make(map[string]bool)
	defs := make([]Definition, 0, len(f.Routines))
	for _, rc := range f.Routines {
		if seen[rc.Name] {
			return nil, fmt.Errorf("%w: duplicate routine %q", ErrInvalidDefinition, rc.Name)
		}
		seen[rc.Name] = true

		def, err := rc.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (rc RoutineConfig) definition() (Definition, error) {
	def := Definition{
		Name:        rc.Name,
		Description: rc.Description,
		Cycles:      rc.Cycles,
	}
	if def.Cycles == 0 {
		def.Cycles = 1
	}

	for i, sc := range rc.Steps {
		pattern, err := sc.pattern()
		if err != nil {
			return Definition{}, fmt.Errorf("%w: routine %q step %d: %v", ErrInvalidDefinition, rc.Name, i, err)
		}
		label := sc.Label
		if label == "" {
			label = fmt.Sprintf("%d", i+1)
		}
		def.Steps = append(def.Steps, Step{Label: label, Pattern: pattern, Hold: sc.Hold})
	}

	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func (sc StepConfig) pattern() (relay.State, error) {
	set := 0
	for _, v := range []string{sc.Binary, sc.Hex, sc.Pattern} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return relay.State{}, fmt.Errorf("exactly one of binary, hex or pattern is required")
	}

	switch {
	case sc.Binary != "":
		return relay.DecodeBinary(sc.Binary)
	case sc.Hex != "":
		return relay.FromHex(sc.Hex)
	}

	switch sc.Pattern {
	case "all-on":
		return relay.AllOn(), nil
	case "all-off":
		return relay.AllOff(), nil
	default:
		return relay.State{}, fmt.Errorf("unknown pattern %q", sc.Pattern)
	}
}
