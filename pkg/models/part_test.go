package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in   string
		want Family
	}{
		{"mosfet", FamilyMosfet},
		{"mosfets", FamilyMosfet},
		{"inductor", FamilyInductor},
		{"inductors", FamilyInductor},
		{"capacitor", FamilyCapacitor},
		{"capacitors", FamilyCapacitor},
	}
	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if err != nil {
			t.Errorf("ParseFamily(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "resistor", "MOSFET"} {
		if _, err := ParseFamily(bad); !errors.Is(err, ErrUnknownFamily) {
			t.Errorf("ParseFamily(%q) err = %v, want ErrUnknownFamily", bad, err)
		}
	}
}

func TestFamilyPlural(t *testing.T) {
	for _, f := range Families {
		back, err := ParseFamily(f.Plural())
		if err != nil || back != f {
			t.Errorf("ParseFamily(%q) = %q, %v; want %q", f.Plural(), back, err, f)
		}
	}
}

func TestMosfetJSON(t *testing.T) {
	m := Mosfet{
		PartInfo: PartInfo{Name: "X1", Price: 2.5, PriceKnown: true},
		Voltage:  650,
		Current:  30,
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"name":"X1"`, `"voltage_v":650`, `"rds_on_ohm":null`, `"efficiency_score":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestFloat(t *testing.T) {
	a := Float(1.5)
	b := Float(1.5)
	if *a != 1.5 || a == b {
		t.Errorf("Float should return distinct pointers to the value")
	}
}
