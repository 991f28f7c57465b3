// Package formula computes converter passive-component requirements from
// design targets. It is a pure function layer: no I/O, no logging.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Circuit identifies a supported converter topology.
type Circuit string

const (
	PFC  Circuit = "pfc"  // Totem pole power factor correction
	Buck Circuit = "buck" // Synchronous buck
)

// Input parameter keys.
const (
	VInMin        = "v_in_min"
	VInMax        = "v_in_max"
	VOutMin       = "v_out_min"
	VOutMax       = "v_out_max"
	POutMax       = "p_out_max"
	Efficiency    = "efficiency"
	SwitchingFreq = "switching_freq"
	LineFreqMin   = "line_freq_min"
	VRippleMax    = "v_ripple_max"
	VInRipple     = "v_in_ripple"
	IOutRipple    = "i_out_ripple"
	VOvershoot    = "v_overshoot"
	VUndershoot   = "v_undershoot"
	ILoadStep     = "i_loadstep"
)

// Result keys.
const (
	RippleCurrent       = "ripple_current"
	Inductance          = "inductance"
	Capacitance         = "capacitance"
	InputCurrentPeak    = "input_current_peak"
	InductorPeakCurrent = "inductor_peak_current"
	DutyCycleMax        = "duty_cycle_max"
	OutputCapacitance   = "output_capacitance"
	OutputCapRipple     = "output_cap_ripple"
	OutputCapTransient  = "output_cap_transient"
	InputCapacitance    = "input_capacitance"
	OutputCurrent       = "output_current"
)

var (
	ErrUnknownCircuit   = errors.New("unknown circuit type")
	ErrMissingParameter = errors.New("missing parameter")
	ErrNonPhysical      = errors.New("non-physical result")
)

// ComputeError reports why a requirement computation failed.
type ComputeError struct {
	Circuit Circuit
	Key     string
	Err     error
}

func (e *ComputeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("formula %s: %v", e.Circuit, e.Err)
	}
	return fmt.Sprintf("formula %s: %s: %v", e.Circuit, e.Key, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// ParseCircuit accepts the short names ("pfc", "buck") and the display names
// ("Totem Pole PFC", "Synchronous Buck"), case-insensitively.
func ParseCircuit(s string) (Circuit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pfc", "totem pole pfc", "totem-pole-pfc":
		return PFC, nil
	case "buck", "synchronous buck", "sync-buck":
		return Buck, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownCircuit)
}

// Compute derives component requirements for circuit from params. All
// values are SI: volts, amps, watts, hertz, henries, farads.
func Compute(circuit Circuit, params map[string]float64) (map[string]float64, error) {
	var (
		out map[string]float64
		err error
	)
	switch circuit {
	case PFC:
		out, err = computePFC(params)
	case Buck:
		out, err = computeBuck(params)
	default:
		return nil, &ComputeError{Circuit: circuit, Err: ErrUnknownCircuit}
	}
	if err != nil {
		var ce *ComputeError
		if errors.As(err, &ce) {
			ce.Circuit = circuit
			return nil, ce
		}
		return nil, &ComputeError{Circuit: circuit, Err: err}
	}
	for k, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, &ComputeError{Circuit: circuit, Key: k, Err: fmt.Errorf("%w: %g", ErrNonPhysical, v)}
		}
	}
	return out, nil
}

// Validate reports the first parameter that is not a finite positive number.
func Validate(params map[string]float64) error {
	for k, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("parameter %s = %g: must be a positive number", k, v)
		}
	}
	return nil
}

// params wraps an input map so a missing key surfaces as a typed error.
type params struct {
	m       map[string]float64
	missing string
}

func (p *params) get(key string) float64 {
	v, ok := p.m[key]
	if !ok && p.missing == "" {
		p.missing = key
	}
	return v
}

func (p *params) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := p.m[k]; !ok {
			return false
		}
	}
	return true
}

func (p *params) err() error {
	if p.missing != "" {
		return &ComputeError{Key: p.missing, Err: ErrMissingParameter}
	}
	return nil
}

// div divides, flagging a zero denominator as non-physical.
func div(num, den float64, what string) (float64, error) {
	if den == 0 {
		return 0, &ComputeError{Key: what, Err: fmt.Errorf("%w: zero denominator", ErrNonPhysical)}
	}
	return num / den, nil
}
