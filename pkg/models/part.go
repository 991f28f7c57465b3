package models

import (
	"errors"
	"fmt"
)

// ErrUnknownFamily is returned for a family name that is not recognized.
var ErrUnknownFamily = errors.New("unknown part family")

// Family identifies one of the catalog part families.
type Family string

const (
	FamilyMosfet    Family = "mosfet"
	FamilyInductor  Family = "inductor"
	FamilyCapacitor Family = "capacitor"
)

// Families lists every supported family in display order.
var Families = []Family{FamilyMosfet, FamilyInductor, FamilyCapacitor}

// ParseFamily accepts singular or plural family names ("mosfet", "mosfets").
func ParseFamily(s string) (Family, error) {
	switch s {
	case "mosfet", "mosfets":
		return FamilyMosfet, nil
	case "inductor", "inductors":
		return FamilyInductor, nil
	case "capacitor", "capacitors":
		return FamilyCapacitor, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFamily)
}

// Plural returns the family name as used in dataset identifiers and routes.
func (f Family) Plural() string {
	return string(f) + "s"
}

// DefaultPrice is the price assigned to a part whose catalog row carries no
// parseable price. Zero ranks unpriced parts as the cheapest.
const DefaultPrice = 0.0

// PartInfo holds the identity and display attributes shared by every family.
// Display fields are opaque and never take part in matching or ranking.
type PartInfo struct {
	Name             string `json:"name"`
	Manufacturer     string `json:"manufacturer,omitempty"`
	Package          string `json:"package,omitempty"`
	Technology       string `json:"technology,omitempty"`
	TemperatureRange string `json:"temperature_range,omitempty"`
	Lifetime         string `json:"lifetime,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Link             string `json:"link,omitempty"`

	// Efficiency is the raw quality indicator as written in the catalog
	// ("80-95", "High", "97%"). EfficiencyScore is its numeric reduction,
	// nil when the text carries no numerals.
	Efficiency      string   `json:"efficiency,omitempty"`
	EfficiencyScore *float64 `json:"efficiency_score"`

	Price      float64 `json:"price"`
	PriceKnown bool    `json:"price_known"`

	// Row is the 1-based data row in the source dataset.
	Row int `json:"row"`
}

// Mosfet is a normalized MOSFET catalog entry. Voltage and Current are
// never missing: unknown ratings normalize to 0.
type Mosfet struct {
	PartInfo
	Voltage float64  `json:"voltage_v"`
	Current float64  `json:"current_a"`
	RDSOn   *float64 `json:"rds_on_ohm"`
}

// Inductor is a normalized inductor catalog entry.
type Inductor struct {
	PartInfo
	Inductance *float64 `json:"inductance_h"`
	Current    float64  `json:"current_a"`
	DCR        *float64 `json:"dcr_ohm"`
}

// Capacitor is a normalized capacitor catalog entry.
type Capacitor struct {
	PartInfo
	Capacitance *float64 `json:"capacitance_f"`
	Voltage     *float64 `json:"voltage_v"`
	ESR         *float64 `json:"esr_ohm"`
}

// Requirement is the numeric target for a single recommendation call.
// Only the fields relevant to the queried family are read.
type Requirement struct {
	Capacitance float64 `json:"capacitance_f,omitempty"`
	Inductance  float64 `json:"inductance_h,omitempty"`
	Voltage     float64 `json:"voltage_v,omitempty"`
	Current     float64 `json:"current_a,omitempty"`
}

// Float returns a pointer to v, for populating optional attributes.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}

// Clone returns a copy that shares no pointers with p.
func (p PartInfo) Clone() PartInfo {
	p.EfficiencyScore = cloneFloat(p.EfficiencyScore)
	return p
}

// Clone returns a copy that shares no pointers with m.
func (m Mosfet) Clone() Mosfet {
	m.PartInfo = m.PartInfo.Clone()
	m.RDSOn = cloneFloat(m.RDSOn)
	return m
}

// Clone returns a copy that shares no pointers with l.
func (l Inductor) Clone() Inductor {
	l.PartInfo = l.PartInfo.Clone()
	l.Inductance = cloneFloat(l.Inductance)
	l.DCR = cloneFloat(l.DCR)
	return l
}

// Clone returns a copy that shares no pointers with c.
func (c Capacitor) Clone() Capacitor {
	c.PartInfo = c.PartInfo.Clone()
	c.Capacitance = cloneFloat(c.Capacitance)
	c.Voltage = cloneFloat(c.Voltage)
	c.ESR = cloneFloat(c.ESR)
	return c
}
