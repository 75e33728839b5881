// Package routine runs timed relay patterns in the background, one at a time.
package routine

import (
	"errors"
	"fmt"

	"github.com/urmzd/relayctl/pkg/relay"
)

// ErrUnknownRoutine indicates no routine is registered under a name.
var ErrUnknownRoutine = errors.New("unknown routine")

// ErrInvalidDefinition indicates a routine definition failed validation.
var ErrInvalidDefinition = errors.New("invalid routine definition")

// Step applies one pattern and holds it.
type Step struct {
	Label   string      // Reported in events, e.g. "A"
	Pattern relay.State // Written to the board when the step starts
	Hold    int         // Time units to hold before the next step
}

// Definition describes a routine: Steps repeated Cycles times.
type Definition struct {
	Name        string
	Description string
	Cycles      int
	Steps       []Step
}

// Validate checks the definition is runnable.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if d.Cycles < 1 {
		return fmt.Errorf("%w: routine %q: cycles must be at least 1", ErrInvalidDefinition, d.Name)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: routine %q: at least one step is required", ErrInvalidDefinition, d.Name)
	}
	for i, s := range d.Steps {
		if s.Label == "" {
			return fmt.Errorf("%w: routine %q: step %d has no label", ErrInvalidDefinition, d.Name, i)
		}
		if s.Hold < 0 {
			return fmt.Errorf("%w: routine %q: step %d has negative hold", ErrInvalidDefinition, d.Name, i)
		}
	}
	return nil
}

// Units returns the length of one full run in time units.
func (d Definition) Units() int {
	per := 0
	for _, s := range d.Steps {
		per += s.Hold
	}
	return per * d.Cycles
}

// Demonstration pattern labels
const (
	LabelA = "A"
	LabelB = "B"
)

// DemoCycles is how often the built-in routines alternate A and B.
const DemoCycles = 10

// DemoSteps is the A/B alternation: all off for 1 unit, all on for 2.
func DemoSteps() []Step {
	return []Step{
		{Label: LabelA, Pattern: relay.AllOff(), Hold: 1},
		{Label: LabelB, Pattern: relay.AllOn(), Hold: 2},
	}
}

// Builtins returns the four demonstration routines.
func Builtins() []Definition {
	defs := make([]Definition, 0, 4)
	for i := 1; i <= 4; i++ {
		defs = append(defs, Definition{
			Name:        fmt.Sprintf("routine%d", i),
			Description: fmt.Sprintf("Routine %d: all off for 1 unit, all on for 2 units, %d times", i, DemoCycles),
			Cycles:      DemoCycles,
			Steps:       DemoSteps(),
		})
	}
	return defs
}
