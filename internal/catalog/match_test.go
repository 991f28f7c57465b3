package catalog

import (
	"testing"

	"github.com/HerbHall/powerparts/internal/testutil"
	"github.com/HerbHall/powerparts/pkg/models"
)

func TestMeetsHeadroom(t *testing.T) {
	tests := []struct {
		value, stress float64
		want          bool
	}{
		{480, 400, true},
		{479.9, 400, false},
		{420, 350, true},
		{400, 350, false},
		{12, -10, true}, // sign of the stress value is ignored
		{0, 0, true},
		{0, 1, false},
	}
	for _, tt := range tests {
		if got := meetsHeadroom(tt.value, tt.stress); got != tt.want {
			t.Errorf("meetsHeadroom(%g, %g) = %v, want %v", tt.value, tt.stress, got, tt.want)
		}
	}
}

func TestMeetsFloor(t *testing.T) {
	tests := []struct {
		value    *float64
		required float64
		want     bool
	}{
		{models.Float(80e-6), 100e-6, true},
		{models.Float(79e-6), 100e-6, false},
		{models.Float(1), 1, true},
		{models.Float(5), 1, true},
		{nil, 1e-6, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		if got := meetsFloor(tt.value, tt.required); got != tt.want {
			t.Errorf("meetsFloor(%v, %g) = %v, want %v", tt.value, tt.required, got, tt.want)
		}
	}
}

func TestMatchMosfets(t *testing.T) {
	parts := []models.Mosfet{
		testutil.NewMosfet("ok", 650, 30),
		testutil.NewMosfet("low-voltage", 450, 30),
		testutil.NewMosfet("low-current", 650, 10),
		testutil.NewMosfet("unknown-current", 650, 0),
		testutil.NewMosfet("exact-margin", 480, 24),
	}
	got := MatchMosfets(parts, models.Requirement{Voltage: 400, Current: 20})

	want := []string{"ok", "exact-margin"}
	if len(got) != len(want) {
		t.Fatalf("got %d parts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Name, want[i])
		}
	}
}

func TestMatchInductors(t *testing.T) {
	parts := []models.Inductor{
		testutil.NewInductor("ok", models.Float(1e-3), 15),
		testutil.NewInductor("within-floor", models.Float(0.8e-3), 15),
		testutil.NewInductor("below-floor", models.Float(0.79e-3), 15),
		testutil.NewInductor("unknown-inductance", nil, 15),
		testutil.NewInductor("low-current", models.Float(1e-3), 11),
	}
	got := MatchInductors(parts, models.Requirement{Inductance: 1e-3, Current: 10})

	if len(got) != 2 || got[0].Name != "ok" || got[1].Name != "within-floor" {
		t.Errorf("got %+v, want [ok within-floor]", got)
	}
}

func TestMatchCapacitors(t *testing.T) {
	part := testutil.NewCapacitor("B43508A5107M", models.Float(100e-6), models.Float(400), models.Float(1.1))
	noVoltage := testutil.NewCapacitor("no-voltage", models.Float(100e-6), nil, nil)
	parts := []models.Capacitor{part, noVoltage}

	// 400V does not clear 350V with 20% headroom (420V).
	if got := MatchCapacitors(parts, models.Requirement{Capacitance: 100e-6, Voltage: 350}); len(got) != 0 {
		t.Errorf("at 350V got %d parts, want 0", len(got))
	}
	// 400V clears 300V (360V).
	got := MatchCapacitors(parts, models.Requirement{Capacitance: 100e-6, Voltage: 300})
	if len(got) != 1 || got[0].Name != "B43508A5107M" {
		t.Errorf("at 300V got %+v, want [B43508A5107M]", got)
	}
}

func TestMatch_EmptyResultIsNotNil(t *testing.T) {
	if got := MatchInductors(nil, models.Requirement{Inductance: 1000, Current: 1}); got == nil {
		t.Error("MatchInductors returned nil, want empty slice")
	}
	parts := []models.Capacitor{testutil.NewCapacitor("c", models.Float(1e-6), models.Float(10), nil)}
	if got := MatchCapacitors(parts, models.Requirement{Capacitance: 1, Voltage: 1}); got == nil || len(got) != 0 {
		t.Errorf("MatchCapacitors = %v, want empty non-nil slice", got)
	}
}

func TestMatch_DoesNotModifyInput(t *testing.T) {
	parts := []models.Mosfet{
		testutil.NewMosfet("a", 100, 100),
		testutil.NewMosfet("b", 1000, 100),
	}
	_ = MatchMosfets(parts, models.Requirement{Voltage: 400, Current: 1})
	if parts[0].Name != "a" || parts[1].Name != "b" {
		t.Errorf("input reordered: %s %s", parts[0].Name, parts[1].Name)
	}
}
