package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/stat"
)

// Quantity selects the unit table a raw catalog string is parsed against.
type Quantity int

const (
	Capacitance Quantity = iota
	Inductance
	Voltage
	Current
	Resistance
	Price
)

func (q Quantity) String() string {
	switch q {
	case Capacitance:
		return "capacitance"
	case Inductance:
		return "inductance"
	case Voltage:
		return "voltage"
	case Current:
		return "current"
	case Resistance:
		return "resistance"
	case Price:
		return "price"
	}
	return fmt.Sprintf("quantity(%d)", int(q))
}

// unitExponents maps a unit token to its power of ten relative to the
// canonical SI unit. Input is NFKC-normalized before lookup, which folds MICRO
// SIGN into GREEK SMALL MU and OHM SIGN into GREEK CAPITAL OMEGA, so only the
// folded forms need an entry. Volts and amps take no scale prefix.
var unitExponents = map[Quantity]map[string]int{
	Capacitance: {
		"":   0,
		"F":  0,
		"mF": -3,
		"μF": -6,
		"uF": -6,
		"nF": -9,
		"pF": -12,
	},
	Inductance: {
		"":   0,
		"H":  0,
		"mH": -3,
		"μH": -6,
		"uH": -6,
		"nH": -9,
	},
	Voltage: {
		"":    0,
		"V":   0,
		"v":   0,
		"VDC": 0,
		"Vdc": 0,
	},
	Current: {
		"":  0,
		"A": 0,
		"a": 0,
	},
	Resistance: {
		"":     0,
		"Ω":    0,
		"ohm":  0,
		"ohms": 0,
		"mΩ":   -3,
		"mohm": -3,
		"mOhm": -3,
		"kΩ":   3,
		"kohm": 3,
	},
	Price: {
		"":    0,
		"USD": 0,
	},
}

// scale applies a power of ten. Sub-unit prefixes divide by an exact power
// of ten so "100µF" lands on the double nearest 1e-4.
func scale(v float64, exp int) float64 {
	if exp < 0 {
		return v / math.Pow10(-exp)
	}
	return v * math.Pow10(exp)
}

// Sentinel classifies catalog text that stands in place of a value.
type Sentinel int

const (
	NotSentinel Sentinel = iota
	// SentinelMissing covers empty cells and "n/a", "varies", "series...".
	SentinelMissing
	// SentinelUnknown is the literal "unknown".
	SentinelUnknown
	// SentinelLow is the literal "low", used for ESR.
	SentinelLow
)

var (
	// ErrNoNumeral is returned when a value carries no parseable number.
	ErrNoNumeral = errors.New("no numeric value")
	// ErrDecimalComma is returned for "4,7µF" style values, which are
	// ambiguous between a decimal comma and a list.
	ErrDecimalComma = errors.New("comma between digits is not a thousands separator")
	// ErrNegative is returned by ParseRequirement for a signed floor quantity.
	ErrNegative = errors.New("must not be negative")
)

var (
	numeralRE   = regexp.MustCompile(`(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)
	thousandsRE = regexp.MustCompile(`(\d),(\d{3})\b`)
	decCommaRE  = regexp.MustCompile(`\d,\d`)
	scoreRE     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// valuePrefixes are stripped before the numeral: approximation and bound
// markers and currency symbols.
var valuePrefixes = []string{"approx.", "approx", "ca.", "~", "≈", "<=", ">=", "<", ">", "≤", "≥", "$", "€", "£", "usd"}

// canonical NFKC-normalizes and trims a raw cell.
func canonical(raw string) string {
	return strings.TrimSpace(norm.NFKC.String(raw))
}

// ClassifySentinel reports whether raw is one of the categorical stand-ins
// used in place of a numeric value.
func ClassifySentinel(raw string) Sentinel {
	s := strings.ToLower(canonical(raw))
	switch s {
	case "", "-", "n/a", "na", "none", "tbd", "varies", "various":
		return SentinelMissing
	case "unknown":
		return SentinelUnknown
	case "low":
		return SentinelLow
	}
	if strings.HasPrefix(s, "series") {
		return SentinelMissing
	}
	return NotSentinel
}

// ParseQuantity converts a raw catalog string into the canonical SI unit for
// q. Ranges ("8.2–1500µF") yield their lower bound and approximations
// ("~12-20") their first numeral. Sentinels are not handled here; callers
// check ClassifySentinel first.
func ParseQuantity(raw string, q Quantity) (float64, error) {
	return parseQuantity(raw, q, "")
}

// parseQuantity is ParseQuantity with a column-level unit applied to bare
// numerals, as declared by a source header such as "ESR (mΩ)".
func parseQuantity(raw string, q Quantity, columnUnit string) (float64, error) {
	exps, ok := unitExponents[q]
	if !ok {
		return 0, fmt.Errorf("no unit table for %s", q)
	}

	s := stripPrefixes(canonical(raw))
	s = thousandsRE.ReplaceAllString(s, "$1$2")
	if decCommaRE.MatchString(s) {
		return 0, fmt.Errorf("%q: %w", raw, ErrDecimalComma)
	}

	locs := numeralRE.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return 0, fmt.Errorf("%q: %w", raw, ErrNoNumeral)
	}
	if prefix := strings.TrimSpace(s[:locs[0][0]]); prefix != "" {
		return 0, fmt.Errorf("%q: unexpected text %q before value", raw, prefix)
	}

	v, err := strconv.ParseFloat(s[locs[0][0]:locs[0][1]], 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, err)
	}

	// The unit directly after the first numeral wins ("470nF–1µF"); a bare
	// lower bound borrows the unit written after the last numeral.
	var next string
	if len(locs) > 1 {
		next = s[locs[0][1]:locs[1][0]]
	} else {
		next = s[locs[0][1]:]
	}
	unit := unitToken(next)
	if unit == "" && len(locs) > 1 {
		unit = unitToken(s[locs[len(locs)-1][1]:])
	}
	if unit == "" {
		if _, known := exps[columnUnit]; known {
			unit = columnUnit
		}
	}

	exp, ok := exps[unit]
	if !ok {
		return 0, fmt.Errorf("%q: unknown %s unit %q", raw, q, unit)
	}
	return scale(v, exp), nil
}

// ParseRequirement parses a requested value as typed by a user. Voltage and
// current may carry a sign, which the headroom rule ignores; the floor
// quantities must not be negative.
func ParseRequirement(raw string, q Quantity) (float64, error) {
	s := strings.TrimSpace(raw)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "\u2212"):
		neg, s = true, strings.TrimPrefix(s, "\u2212")
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if neg && q != Voltage && q != Current {
		return 0, fmt.Errorf("%q: %s %w", raw, q, ErrNegative)
	}
	v, err := ParseQuantity(s, q)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// EfficiencyScore reduces a quality indicator to a single comparable number:
// the mean of its first two numerals ("80-95" gives 87.5), or the single
// numeral present. ok is false when the text has no numerals.
func EfficiencyScore(raw string) (score float64, ok bool) {
	matches := scoreRE.FindAllString(canonical(raw), 2)
	if len(matches) == 0 {
		return 0, false
	}
	vals := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		vals = append(vals, v)
	}
	return stat.Mean(vals, nil), true
}

func stripPrefixes(s string) string {
	for {
		trimmed := false
		lower := strings.ToLower(s)
		for _, p := range valuePrefixes {
			if strings.HasPrefix(lower, p) {
				s = strings.TrimSpace(s[len(p):])
				trimmed = true
				break
			}
		}
		if !trimmed {
			return s
		}
	}
}

// unitToken returns the first unit-like token of s, stopping at whitespace
// or a range separator.
func unitToken(s string) string {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '-', '–', '—', '~', '/', '(', ',':
			return true
		}
		return false
	})
	if end >= 0 {
		s = s[:end]
	}
	return s
}
