package formula

import (
	"errors"
	"math"
	"testing"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 1e-9*math.Max(1, math.Abs(want))
}

func pfcParams() map[string]float64 {
	return map[string]float64{
		VInMin:        85,
		VInMax:        265,
		VOutMin:       380,
		VOutMax:       400,
		POutMax:       1000,
		Efficiency:    0.95,
		SwitchingFreq: 65000,
		LineFreqMin:   47,
		VRippleMax:    10,
	}
}

func buckParams() map[string]float64 {
	return map[string]float64{
		VInMin:        10,
		VInMax:        14,
		VOutMin:       3.2,
		VOutMax:       3.4,
		POutMax:       10,
		Efficiency:    0.9,
		SwitchingFreq: 500e3,
		VRippleMax:    0.01,
		VInRipple:     0.1,
		IOutRipple:    0.6,
	}
}

func TestCompute_PFC(t *testing.T) {
	got, err := Compute(PFC, pfcParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]float64{
		RippleCurrent:       0.1 * math.Sqrt2 * 1000 / (265 * 0.95),
		Inductance:          400 / (12 * 65000 * (0.1 * math.Sqrt2 * 1000 / (265 * 0.95))),
		Capacitance:         1000 / (4 * math.Pi * 47 * 10 * 400),
		InputCurrentPeak:    math.Sqrt2 * 1000 / (85 * 0.95),
		InductorPeakCurrent: math.Sqrt2*1000/(85*0.95) + 0.1*math.Sqrt2*1000/(265*0.95)/2,
	}
	for k, w := range want {
		if !approx(got[k], w) {
			t.Errorf("%s = %g, want %g", k, got[k], w)
		}
	}
	if len(got) != len(want) {
		t.Errorf("got %d results, want %d", len(got), len(want))
	}
}

func TestCompute_PFC_Magnitudes(t *testing.T) {
	got, err := Compute(PFC, pfcParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// About 913µH and 423µF for a 1kW universal-input stage.
	if l := got[Inductance]; l < 900e-6 || l > 920e-6 {
		t.Errorf("Inductance = %g, want about 913e-6", l)
	}
	if c := got[Capacitance]; c < 420e-6 || c > 426e-6 {
		t.Errorf("Capacitance = %g, want about 423e-6", c)
	}
}

func TestCompute_Buck(t *testing.T) {
	got, err := Compute(Buck, buckParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := 3.4 / 10.0
	l := (14 - 3.2) * d / (500e3 * 0.6)
	cRipple := 0.6 / (8 * 500e3 * 0.01)
	tests := []struct {
		key  string
		want float64
	}{
		{DutyCycleMax, d},
		{Inductance, l},
		{OutputCapRipple, cRipple},
		{OutputCapacitance, cRipple},
		{InputCapacitance, (10 / (0.9 * 10)) * d / (500e3 * 0.1)},
		{OutputCurrent, 10 / 3.2},
		{InductorPeakCurrent, 10/3.2 + 0.3},
	}
	for _, tt := range tests {
		if !approx(got[tt.key], tt.want) {
			t.Errorf("%s = %g, want %g", tt.key, got[tt.key], tt.want)
		}
	}
	if _, ok := got[OutputCapTransient]; ok {
		t.Error("transient bound computed without load-step parameters")
	}
}

func TestCompute_Buck_TransientRaisesOutputCap(t *testing.T) {
	params := buckParams()
	params[ILoadStep] = 2
	params[VOvershoot] = 0.1
	params[VUndershoot] = 0.1

	got, err := Compute(Buck, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := 3.4 / 10.0
	l := (14 - 3.2) * d / (500e3 * 0.6)
	under := l * 4 / (2 * 0.1 * (14 - 3.2) * d)
	over := l * 4 / (2 * 0.1 * 3.4)
	want := math.Max(under, over)

	if !approx(got[OutputCapTransient], want) {
		t.Errorf("OutputCapTransient = %g, want %g", got[OutputCapTransient], want)
	}
	if !approx(got[OutputCapacitance], want) {
		t.Errorf("OutputCapacitance = %g, want transient bound %g", got[OutputCapacitance], want)
	}
	if got[OutputCapacitance] <= got[OutputCapRipple] {
		t.Error("transient bound should dominate ripple bound for this load step")
	}
}

func TestCompute_Errors(t *testing.T) {
	missing := pfcParams()
	delete(missing, LineFreqMin)

	zeroFreq := buckParams()
	zeroFreq[SwitchingFreq] = 0

	negative := buckParams()
	negative[VInMax] = 1 // below VOutMin, inductance goes negative

	tests := []struct {
		name    string
		circuit Circuit
		params  map[string]float64
		wantErr error
		wantKey string
	}{
		{"unknown circuit", "flyback", pfcParams(), ErrUnknownCircuit, ""},
		{"missing parameter", PFC, missing, ErrMissingParameter, LineFreqMin},
		{"zero denominator", Buck, zeroFreq, ErrNonPhysical, Inductance},
		{"negative result", Buck, negative, ErrNonPhysical, Inductance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.circuit, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var ce *ComputeError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %T, want *ComputeError", err)
			}
			if ce.Circuit != tt.circuit {
				t.Errorf("Circuit = %q, want %q", ce.Circuit, tt.circuit)
			}
			if ce.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", ce.Key, tt.wantKey)
			}
		})
	}
}

func TestParseCircuit(t *testing.T) {
	tests := []struct {
		in   string
		want Circuit
	}{
		{"pfc", PFC},
		{"Totem Pole PFC", PFC},
		{" BUCK ", Buck},
		{"Synchronous Buck", Buck},
	}
	for _, tt := range tests {
		got, err := ParseCircuit(tt.in)
		if err != nil {
			t.Errorf("ParseCircuit(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCircuit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCircuit("boost"); !errors.Is(err, ErrUnknownCircuit) {
		t.Errorf("ParseCircuit(boost) err = %v, want ErrUnknownCircuit", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(pfcParams()); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := Validate(map[string]float64{VInMin: v}); err == nil {
			t.Errorf("Validate(%g) = nil, want error", v)
		}
	}
}
