package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/HerbHall/powerparts/pkg/models"
)

// RankMosfets orders MOSFETs by ascending price, then descending efficiency
// score. The sort is stable and done in place; the sorted slice is returned.
func RankMosfets(parts []models.Mosfet, _ models.Requirement) []models.Mosfet {
	slices.SortStableFunc(parts, func(a, b models.Mosfet) int {
		return byPriceThenEfficiency(&a.PartInfo, &b.PartInfo)
	})
	return parts
}

// RankInductors orders inductors by ascending price, then descending
// efficiency score.
func RankInductors(parts []models.Inductor, _ models.Requirement) []models.Inductor {
	slices.SortStableFunc(parts, func(a, b models.Inductor) int {
		return byPriceThenEfficiency(&a.PartInfo, &b.PartInfo)
	})
	return parts
}

// RankCapacitors orders capacitors by ascending relative distance from the
// required capacitance, then ascending ESR with unknown ESR last.
func RankCapacitors(parts []models.Capacitor, req models.Requirement) []models.Capacitor {
	slices.SortStableFunc(parts, func(a, b models.Capacitor) int {
		if c := cmp.Compare(Closeness(a.Capacitance, req.Capacitance), Closeness(b.Capacitance, req.Capacitance)); c != 0 {
			return c
		}
		return compareMissingLast(a.ESR, b.ESR)
	})
	return parts
}

// Closeness is the relative error |value - required| / required. A missing
// value or a non-positive requirement yields +Inf.
func Closeness(value *float64, required float64) float64 {
	if value == nil || required <= 0 {
		return math.Inf(1)
	}
	return math.Abs(*value-required) / required
}

func byPriceThenEfficiency(a, b *models.PartInfo) int {
	if c := cmp.Compare(a.Price, b.Price); c != 0 {
		return c
	}
	// Descending; a part without a score ranks lowest.
	return cmp.Compare(score(b.EfficiencyScore), score(a.EfficiencyScore))
}

func score(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

// compareMissingLast orders ascending with nil after every present value.
func compareMissingLast(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
