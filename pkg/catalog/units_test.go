package catalog

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		q    Quantity
		want float64
	}{
		{"millihenry", "2.2mH", Inductance, 0.0022},
		{"micro sign", "100\u00b5F", Capacitance, 100e-6},
		{"greek mu", "100\u03bcF", Capacitance, 100e-6},
		{"ascii u", "4.7uH", Inductance, 4.7e-6},
		{"nanofarad", "470nF", Capacitance, 470e-9},
		{"picofarad with space", "220 pF", Capacitance, 220e-12},
		{"bare farads", "0.0001", Capacitance, 1e-4},
		{"exponent", "1e-4", Capacitance, 1e-4},
		{"volts", "450V", Voltage, 450},
		{"volts dc", "63 VDC", Voltage, 63},
		{"bare volts", "600", Voltage, 600},
		{"amps", "14.0A", Current, 14},
		{"price", "$45.00", Price, 45},
		{"price thousands", "$1,250.00", Price, 1250},
		{"price code", "12.5 USD", Price, 12.5},
		{"price code prefix", "USD 12.50", Price, 12.5},
		{"price code prefix lower", "usd 99.00", Price, 99},
		{"ohm sign", "0.45\u2126", Resistance, 0.45},
		{"greek omega", "0.45\u03a9", Resistance, 0.45},
		{"milliohm", "65mΩ", Resistance, 0.065},
		{"milliohm word", "3.3 mOhm", Resistance, 3.3e-3},
		{"range lower bound", "8.2–1500µF", Capacitance, 8.2e-6},
		{"hyphen range", "10-20A", Current, 10},
		{"range with units on both", "470nF–1µF", Capacitance, 470e-9},
		{"approximation", "~12-20", Current, 12},
		{"approx word", "approx. 5A", Current, 5},
		{"bound", ">= 600V", Voltage, 600},
		{"trailing text", "36A @ 25°C", Current, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.raw, tt.q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("ParseQuantity(%q, %s) = %g, want %g", tt.raw, tt.q, got, tt.want)
			}
		})
	}
}

func TestParseQuantity_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		q    Quantity
	}{
		{"no numeral", "high", Current},
		{"text before value", "about 5A", Current},
		{"wrong unit family", "10µF", Voltage},
		{"unknown unit", "5 furlongs", Inductance},
		{"empty", "", Voltage},
		{"decimal comma", "4,7\u00b5F", Capacitance},
		{"leading sign", "-400V", Voltage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseQuantity(tt.raw, tt.q); err == nil {
				t.Errorf("ParseQuantity(%q, %s) = nil error, want error", tt.raw, tt.q)
			}
		})
	}
}

func TestParseQuantity_DecimalComma(t *testing.T) {
	_, err := ParseQuantity("4,7\u00b5F", Capacitance)
	if !errors.Is(err, ErrDecimalComma) {
		t.Errorf("err = %v, want ErrDecimalComma", err)
	}
}

// Sub-unit prefixes must land on the same double as the SI literal, so a
// part sitting exactly on a margin boundary compares as equal.
func TestParseQuantity_ExactPrefixes(t *testing.T) {
	tests := []struct {
		raw  string
		q    Quantity
		want float64
	}{
		{"100\u00b5F", Capacitance, 1e-4},
		{"125uF", Capacitance, 1.25e-4},
		{"47nF", Capacitance, 4.7e-8},
		{"2.2mH", Inductance, 2.2e-3},
		{"820\u03bcH", Inductance, 8.2e-4},
		{"65m\u03a9", Resistance, 0.065},
		{"4.7k\u03a9", Resistance, 4700},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.raw, tt.q)
		if err != nil {
			t.Fatalf("ParseQuantity(%q): unexpected error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q, %s) = %v, want exactly %v", tt.raw, tt.q, got, tt.want)
		}
	}

	part, _ := ParseQuantity("100\u00b5F", Capacitance)
	req, _ := ParseQuantity("125\u00b5F", Capacitance)
	if part < req*(1-0.20) {
		t.Errorf("100µF (%v) below the 80%% floor of 125µF (%v)", part, req*(1-0.20))
	}
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		raw  string
		q    Quantity
		want float64
	}{
		{"400V", Voltage, 400},
		{"-400V", Voltage, -400},
		{"+12", Voltage, 12},
		{" -10A", Current, -10},
		{"\u22125A", Current, -5},
		{"100uF", Capacitance, 1e-4},
	}
	for _, tt := range tests {
		got, err := ParseRequirement(tt.raw, tt.q)
		if err != nil {
			t.Errorf("ParseRequirement(%q): unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRequirement(%q, %s) = %v, want %v", tt.raw, tt.q, got, tt.want)
		}
	}

	for _, raw := range []string{"-100uF", "-2.2mH"} {
		q := Capacitance
		if raw == "-2.2mH" {
			q = Inductance
		}
		if _, err := ParseRequirement(raw, q); !errors.Is(err, ErrNegative) {
			t.Errorf("ParseRequirement(%q) err = %v, want ErrNegative", raw, err)
		}
	}
	if _, err := ParseRequirement("-", Voltage); err == nil {
		t.Error("ParseRequirement(\"-\") = nil error, want error")
	}
}

func TestParseQuantity_NoNumeralSentinel(t *testing.T) {
	_, err := ParseQuantity("n/a", Voltage)
	if !errors.Is(err, ErrNoNumeral) {
		t.Errorf("err = %v, want ErrNoNumeral", err)
	}
}

func TestParseQuantity_ColumnUnit(t *testing.T) {
	tests := []struct {
		raw, unit string
		q         Quantity
		want      float64
	}{
		{"45", "mΩ", Resistance, 0.045},
		{"100", "µF", Capacitance, 100e-6},
		{"2.2", "mH", Inductance, 2.2e-3},
		// An explicit unit in the cell beats the column unit.
		{"1Ω", "mΩ", Resistance, 1},
		// A column unit that does not belong to the quantity is ignored.
		{"400", "V", Current, 400},
	}
	for _, tt := range tests {
		got, err := parseQuantity(tt.raw, tt.q, canonical(tt.unit))
		if err != nil {
			t.Fatalf("parseQuantity(%q, %q): unexpected error: %v", tt.raw, tt.unit, err)
		}
		if !approxEqual(got, tt.want) {
			t.Errorf("parseQuantity(%q, %s, %q) = %g, want %g", tt.raw, tt.q, tt.unit, got, tt.want)
		}
	}
}

func TestClassifySentinel(t *testing.T) {
	tests := []struct {
		raw  string
		want Sentinel
	}{
		{"", SentinelMissing},
		{"  ", SentinelMissing},
		{"N/A", SentinelMissing},
		{"varies", SentinelMissing},
		{"series dependent", SentinelMissing},
		{"Unknown", SentinelUnknown},
		{"low", SentinelLow},
		{"LOW", SentinelLow},
		{"0.5Ω", NotSentinel},
		{"High", NotSentinel},
	}
	for _, tt := range tests {
		if got := ClassifySentinel(tt.raw); got != tt.want {
			t.Errorf("ClassifySentinel(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestEfficiencyScore(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"80-95", 87.5, true},
		{"97%", 97, true},
		{"~92-96", 94, true},
		{"94-97 typical, 99 peak", 95.5, true},
		{"High", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := EfficiencyScore(tt.raw)
		if ok != tt.wantOK || (ok && !approxEqual(got, tt.want)) {
			t.Errorf("EfficiencyScore(%q) = (%g, %v), want (%g, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQuantityString(t *testing.T) {
	if got := Capacitance.String(); got != "capacitance" {
		t.Errorf("Capacitance.String() = %q", got)
	}
	if got := Quantity(99).String(); got != "quantity(99)" {
		t.Errorf("Quantity(99).String() = %q", got)
	}
}
