package catalog

import (
	"math"

	"github.com/HerbHall/powerparts/pkg/models"
)

// Margin policy. Floor-ruled attributes (inductance, capacitance) may fall
// short of the requirement by FloorMargin; headroom-ruled ratings (voltage,
// current) must exceed the stress value by HeadroomMargin.
const (
	FloorMargin    = 0.20
	HeadroomMargin = 0.20
)

// meetsFloor reports whether value is at least (1 - FloorMargin) of required.
// A missing value never qualifies.
func meetsFloor(value *float64, required float64) bool {
	return value != nil && *value >= required*(1-FloorMargin)
}

// meetsHeadroom reports whether value is at least (1 + HeadroomMargin) times
// the magnitude of the stress value. The absolute value absorbs sign
// conventions in the requirement.
func meetsHeadroom(value, stress float64) bool {
	return value >= math.Abs(stress)*(1+HeadroomMargin)
}

// MatchMosfets keeps the MOSFETs whose voltage and current ratings both
// clear the headroom rule. The result is never nil.
func MatchMosfets(parts []models.Mosfet, req models.Requirement) []models.Mosfet {
	result := make([]models.Mosfet, 0, len(parts))
	for i := range parts {
		if meetsHeadroom(parts[i].Voltage, req.Voltage) && meetsHeadroom(parts[i].Current, req.Current) {
			result = append(result, parts[i])
		}
	}
	return result
}

// MatchInductors keeps the inductors that meet the inductance floor and the
// current headroom rule.
func MatchInductors(parts []models.Inductor, req models.Requirement) []models.Inductor {
	result := make([]models.Inductor, 0, len(parts))
	for i := range parts {
		if meetsFloor(parts[i].Inductance, req.Inductance) && meetsHeadroom(parts[i].Current, req.Current) {
			result = append(result, parts[i])
		}
	}
	return result
}

// MatchCapacitors keeps the capacitors that meet the capacitance floor and
// whose voltage rating clears the headroom rule.
func MatchCapacitors(parts []models.Capacitor, req models.Requirement) []models.Capacitor {
	result := make([]models.Capacitor, 0, len(parts))
	for i := range parts {
		p := &parts[i]
		if meetsFloor(p.Capacitance, req.Capacitance) && p.Voltage != nil && meetsHeadroom(*p.Voltage, req.Voltage) {
			result = append(result, parts[i])
		}
	}
	return result
}
