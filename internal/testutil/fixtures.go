package testutil

import (
	"github.com/HerbHall/powerparts/pkg/models"
)

// PartOption adjusts the attributes shared by every part family.
type PartOption func(*models.PartInfo)

// NewMosfet returns a priced Mosfet with the given ratings, suitable for
// test fixtures. Override individual fields after creation as needed.
func NewMosfet(name string, voltage, current float64, opts ...PartOption) models.Mosfet {
	return models.Mosfet{
		PartInfo: newInfo(name, opts),
		Voltage:  voltage,
		Current:  current,
	}
}

// NewInductor returns a priced Inductor. A nil inductance is unknown.
func NewInductor(name string, inductance *float64, current float64, opts ...PartOption) models.Inductor {
	return models.Inductor{
		PartInfo:   newInfo(name, opts),
		Inductance: inductance,
		Current:    current,
	}
}

// NewCapacitor returns a priced Capacitor. Nil values are unknown.
func NewCapacitor(name string, capacitance, voltage, esr *float64, opts ...PartOption) models.Capacitor {
	return models.Capacitor{
		PartInfo:    newInfo(name, opts),
		Capacitance: capacitance,
		Voltage:     voltage,
		ESR:         esr,
	}
}

func newInfo(name string, opts []PartOption) models.PartInfo {
	info := models.PartInfo{
		Name:         name,
		Manufacturer: "Acme",
		Price:        1.0,
		PriceKnown:   true,
		Row:          1,
	}
	for _, opt := range opts {
		opt(&info)
	}
	return info
}

// WithPrice sets a known price.
func WithPrice(price float64) PartOption {
	return func(p *models.PartInfo) { p.Price, p.PriceKnown = price, true }
}

// WithoutPrice marks the price unknown, leaving the default price.
func WithoutPrice() PartOption {
	return func(p *models.PartInfo) { p.Price, p.PriceKnown = models.DefaultPrice, false }
}

// WithEfficiency sets the raw efficiency text and its score. A nil score
// is what the loader produces for text without numerals.
func WithEfficiency(raw string, score *float64) PartOption {
	return func(p *models.PartInfo) { p.Efficiency, p.EfficiencyScore = raw, score }
}

// WithRow sets the source row number.
func WithRow(row int) PartOption {
	return func(p *models.PartInfo) { p.Row = row }
}

// WithManufacturer sets the manufacturer.
func WithManufacturer(m string) PartOption {
	return func(p *models.PartInfo) { p.Manufacturer = m }
}
