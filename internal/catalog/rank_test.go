package catalog

import (
	"math"
	"slices"
	"testing"

	"github.com/HerbHall/powerparts/internal/testutil"
	"github.com/HerbHall/powerparts/pkg/models"
)

func mosfetNames(parts []models.Mosfet) []string {
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = parts[i].Name
	}
	return out
}

func TestRankMosfets(t *testing.T) {
	parts := []models.Mosfet{
		testutil.NewMosfet("pricey", 650, 30, testutil.WithPrice(20), testutil.WithEfficiency("97-99", models.Float(98))),
		testutil.NewMosfet("cheap-low-eff", 650, 30, testutil.WithPrice(5), testutil.WithEfficiency("90-92", models.Float(91))),
		testutil.NewMosfet("cheap-high-eff", 650, 30, testutil.WithPrice(5), testutil.WithEfficiency("95-97", models.Float(96))),
		testutil.NewMosfet("cheap-no-eff", 650, 30, testutil.WithPrice(5), testutil.WithEfficiency("High", nil)),
		testutil.NewMosfet("unpriced", 650, 30, testutil.WithoutPrice()),
	}
	got := mosfetNames(RankMosfets(parts, models.Requirement{}))
	want := []string{"unpriced", "cheap-high-eff", "cheap-low-eff", "cheap-no-eff", "pricey"}
	if !slices.Equal(got, want) {
		t.Errorf("RankMosfets order = %v, want %v", got, want)
	}
}

func TestRankMosfets_Stable(t *testing.T) {
	parts := []models.Mosfet{
		testutil.NewMosfet("first", 650, 30, testutil.WithPrice(3)),
		testutil.NewMosfet("second", 650, 30, testutil.WithPrice(3)),
		testutil.NewMosfet("third", 650, 30, testutil.WithPrice(3)),
	}
	got := mosfetNames(RankMosfets(parts, models.Requirement{}))
	if !slices.Equal(got, []string{"first", "second", "third"}) {
		t.Errorf("equal keys reordered: %v", got)
	}
}

func TestRankInductors(t *testing.T) {
	parts := []models.Inductor{
		testutil.NewInductor("b", models.Float(1e-3), 10, testutil.WithPrice(2), testutil.WithEfficiency("93-95", models.Float(94))),
		testutil.NewInductor("a", models.Float(1e-3), 10, testutil.WithPrice(1)),
		testutil.NewInductor("c", models.Float(1e-3), 10, testutil.WithPrice(2), testutil.WithEfficiency("95-97", models.Float(96))),
	}
	ranked := RankInductors(parts, models.Requirement{})
	got := []string{ranked[0].Name, ranked[1].Name, ranked[2].Name}
	if !slices.Equal(got, []string{"a", "c", "b"}) {
		t.Errorf("RankInductors order = %v, want [a c b]", got)
	}
}

func TestRankCapacitors(t *testing.T) {
	req := models.Requirement{Capacitance: 100e-6, Voltage: 300}
	parts := []models.Capacitor{
		testutil.NewCapacitor("far", models.Float(470e-6), models.Float(450), models.Float(0.1)),
		testutil.NewCapacitor("exact-high-esr", models.Float(100e-6), models.Float(400), models.Float(1.1)),
		testutil.NewCapacitor("exact-no-esr", models.Float(100e-6), models.Float(400), nil),
		testutil.NewCapacitor("exact-low-esr", models.Float(100e-6), models.Float(400), models.Float(0.2)),
		testutil.NewCapacitor("under", models.Float(82e-6), models.Float(400), models.Float(0.01)),
	}
	ranked := RankCapacitors(parts, req)

	got := make([]string, len(ranked))
	for i := range ranked {
		got[i] = ranked[i].Name
	}
	want := []string{"exact-low-esr", "exact-high-esr", "exact-no-esr", "under", "far"}
	if !slices.Equal(got, want) {
		t.Errorf("RankCapacitors order = %v, want %v", got, want)
	}

	for i := 1; i < len(ranked); i++ {
		if Closeness(ranked[i].Capacitance, req.Capacitance) < Closeness(ranked[i-1].Capacitance, req.Capacitance) {
			t.Errorf("closeness not ascending at %d", i)
		}
	}
}

func TestRank_IsPermutation(t *testing.T) {
	parts := []models.Mosfet{
		testutil.NewMosfet("x", 1, 1, testutil.WithPrice(9)),
		testutil.NewMosfet("y", 1, 1, testutil.WithPrice(1)),
		testutil.NewMosfet("z", 1, 1, testutil.WithPrice(5)),
	}
	in := mosfetNames(parts)
	out := mosfetNames(RankMosfets(slices.Clone(parts), models.Requirement{}))
	slices.Sort(in)
	slices.Sort(out)
	if !slices.Equal(in, out) {
		t.Errorf("ranking changed membership: %v vs %v", in, out)
	}
}

func TestCloseness(t *testing.T) {
	if got := Closeness(models.Float(150e-6), 100e-6); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Closeness(150µ, 100µ) = %g, want 0.5", got)
	}
	if got := Closeness(nil, 1); !math.IsInf(got, 1) {
		t.Errorf("Closeness(nil) = %g, want +Inf", got)
	}
	if got := Closeness(models.Float(1), 0); !math.IsInf(got, 1) {
		t.Errorf("Closeness(req 0) = %g, want +Inf", got)
	}
}
