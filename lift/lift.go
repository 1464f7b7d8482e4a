// Package lift implements the press-to-lift gesture: a scalar that ramps up
// linearly while pressed and decays exponentially towards zero on release.
package lift

import (
	"errors"
	"fmt"
)

// Params configures a Machine.
type Params struct {
	Max   float64
	Speed float64 // Added per frame while pressed
	Decay float64 // Multiplier per frame while released, in (0, 1)
}

// Validate reports parameters that would break the [0, Max] bound.
func (p Params) Validate() error {
	var errs []error
	if p.Max < 0 {
		errs = append(errs, fmt.Errorf("max must not be negative, got %g", p.Max))
	}
	if p.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %g", p.Speed))
	}
	if p.Decay <= 0 || p.Decay >= 1 {
		errs = append(errs, fmt.Errorf("decay must be in (0,1), got %g", p.Decay))
	}
	return errors.Join(errs...)
}

// Machine holds the lift scalar. A disabled machine stays at zero.
type Machine struct {
	params  Params
	enabled bool
	value   float64
}

// New creates a machine at rest.
func New(p Params, enabled bool) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	return &Machine{params: p, enabled: enabled}, nil
}

// Step advances the machine by one frame and returns the new value.
func (m *Machine) Step(pressed bool) float64 {
	if !m.enabled {
		return 0
	}
	if pressed {
		m.value = min(m.params.Max, m.value+m.params.Speed)
	} else {
		m.value = max(0, m.value*m.params.Decay)
	}
	return m.value
}

// Value returns the current lift.
func (m *Machine) Value() float64 {
	return m.value
}

// Enabled reports whether the machine responds to input.
func (m *Machine) Enabled() bool {
	return m.enabled
}

// Params returns the machine's parameters.
func (m *Machine) Params() Params {
	return m.params
}
