// Package catalog provides the recommendation engine that matches normalized
// part catalogs against electrical requirements and ranks the candidates.
package catalog

import (
	"context"
	"fmt"

	"github.com/HerbHall/powerparts/internal/formula"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
	"github.com/HerbHall/powerparts/pkg/models"
)

// Loader supplies normalized catalog snapshots. pkgcatalog.Direct loads
// fresh on every call; *pkgcatalog.Cache serves immutable cached snapshots.
type Loader interface {
	Mosfets(ctx context.Context, dataset string) (*pkgcatalog.Snapshot[models.Mosfet], error)
	Inductors(ctx context.Context, dataset string) (*pkgcatalog.Snapshot[models.Inductor], error)
	Capacitors(ctx context.Context, dataset string) (*pkgcatalog.Snapshot[models.Capacitor], error)
}

// Datasets names the dataset identifier used for each family.
type Datasets struct {
	Mosfets    string `mapstructure:"mosfets"`
	Inductors  string `mapstructure:"inductors"`
	Capacitors string `mapstructure:"capacitors"`
}

// DefaultDatasets points every family at its embedded catalog.
func DefaultDatasets() Datasets {
	return Datasets{
		Mosfets:    pkgcatalog.BuiltinMosfets,
		Inductors:  pkgcatalog.BuiltinInductors,
		Capacitors: pkgcatalog.BuiltinCapacitors,
	}
}

// For returns the dataset identifier configured for family.
func (d Datasets) For(f models.Family) string {
	switch f {
	case models.FamilyMosfet:
		return d.Mosfets
	case models.FamilyInductor:
		return d.Inductors
	case models.FamilyCapacitor:
		return d.Capacitors
	}
	return ""
}

// RecommendationError wraps any failure of a single suggestion call.
type RecommendationError struct {
	Family models.Family
	Err    error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("suggest %s: %v", e.Family.Plural(), e.Err)
}

func (e *RecommendationError) Unwrap() error { return e.Err }

// Engine composes load, match and rank for each part family. It keeps no
// per-call state and is safe for concurrent use when its Loader is.
type Engine struct {
	loader   Loader
	datasets Datasets
}

// NewEngine creates a recommendation engine. A nil loader loads fresh on
// every call.
func NewEngine(loader Loader, datasets Datasets) *Engine {
	if loader == nil {
		loader = pkgcatalog.Direct{}
	}
	return &Engine{loader: loader, datasets: datasets}
}

// Loader returns the snapshot source the engine reads from.
func (e *Engine) Loader() Loader {
	return e.loader
}

// Datasets returns the dataset identifiers the engine reads.
func (e *Engine) Datasets() Datasets {
	return e.datasets
}

// SuggestMosfets returns every MOSFET whose voltage and current ratings clear
// the headroom rule, cheapest first. An empty list means no part qualifies.
func (e *Engine) SuggestMosfets(ctx context.Context, requiredVoltage, requiredCurrent float64) ([]models.Mosfet, error) {
	snap, err := e.loader.Mosfets(ctx, e.datasets.Mosfets)
	if err != nil {
		return nil, &RecommendationError{Family: models.FamilyMosfet, Err: err}
	}
	req := models.Requirement{Voltage: requiredVoltage, Current: requiredCurrent}
	return RankMosfets(MatchMosfets(snap.Parts(), req), req), nil
}

// SuggestInductors returns every inductor meeting the inductance floor and
// current headroom, cheapest first.
func (e *Engine) SuggestInductors(ctx context.Context, requiredInductance, requiredCurrent float64) ([]models.Inductor, error) {
	snap, err := e.loader.Inductors(ctx, e.datasets.Inductors)
	if err != nil {
		return nil, &RecommendationError{Family: models.FamilyInductor, Err: err}
	}
	req := models.Requirement{Inductance: requiredInductance, Current: requiredCurrent}
	return RankInductors(MatchInductors(snap.Parts(), req), req), nil
}

// SuggestCapacitors returns every capacitor meeting the capacitance floor and
// voltage headroom, closest capacitance first.
func (e *Engine) SuggestCapacitors(ctx context.Context, requiredCapacitance, requiredVoltage float64) ([]models.Capacitor, error) {
	snap, err := e.loader.Capacitors(ctx, e.datasets.Capacitors)
	if err != nil {
		return nil, &RecommendationError{Family: models.FamilyCapacitor, Err: err}
	}
	req := models.Requirement{Capacitance: requiredCapacitance, Voltage: requiredVoltage}
	return RankCapacitors(MatchCapacitors(snap.Parts(), req), req), nil
}

// DesignPlan is the outcome of sizing a converter and picking parts for it.
type DesignPlan struct {
	Circuit      formula.Circuit    `json:"circuit"`
	Parameters   map[string]float64 `json:"parameters"`
	Requirements map[string]float64 `json:"requirements"`

	MosfetRequirement    models.Requirement `json:"mosfet_requirement"`
	InductorRequirement  models.Requirement `json:"inductor_requirement"`
	CapacitorRequirement models.Requirement `json:"capacitor_requirement"`

	Mosfets    []models.Mosfet    `json:"mosfets"`
	Inductors  []models.Inductor  `json:"inductors"`
	Capacitors []models.Capacitor `json:"capacitors"`
}

// Truncate limits every suggestion list to at most n entries. n <= 0 keeps
// the full lists.
func (p *DesignPlan) Truncate(n int) {
	p.Mosfets = Top(p.Mosfets, n)
	p.Inductors = Top(p.Inductors, n)
	p.Capacitors = Top(p.Capacitors, n)
}

// Plan computes the circuit requirements and suggests parts for each family.
// Switches see the bus voltage (output for PFC, input for buck) and the peak
// inductor current; the output capacitor is rated against the output voltage.
func (e *Engine) Plan(ctx context.Context, circuit formula.Circuit, params map[string]float64) (*DesignPlan, error) {
	reqs, err := formula.Compute(circuit, params)
	if err != nil {
		return nil, err
	}

	plan := &DesignPlan{Circuit: circuit, Parameters: params, Requirements: reqs}
	switch circuit {
	case formula.PFC:
		plan.MosfetRequirement = models.Requirement{Voltage: params[formula.VOutMax], Current: reqs[formula.InductorPeakCurrent]}
		plan.CapacitorRequirement = models.Requirement{Capacitance: reqs[formula.Capacitance], Voltage: params[formula.VOutMax]}
	case formula.Buck:
		plan.MosfetRequirement = models.Requirement{Voltage: params[formula.VInMax], Current: reqs[formula.InductorPeakCurrent]}
		plan.CapacitorRequirement = models.Requirement{Capacitance: reqs[formula.OutputCapacitance], Voltage: params[formula.VOutMax]}
	}
	plan.InductorRequirement = models.Requirement{Inductance: reqs[formula.Inductance], Current: reqs[formula.InductorPeakCurrent]}

	if plan.Mosfets, err = e.SuggestMosfets(ctx, plan.MosfetRequirement.Voltage, plan.MosfetRequirement.Current); err != nil {
		return nil, err
	}
	if plan.Inductors, err = e.SuggestInductors(ctx, plan.InductorRequirement.Inductance, plan.InductorRequirement.Current); err != nil {
		return nil, err
	}
	if plan.Capacitors, err = e.SuggestCapacitors(ctx, plan.CapacitorRequirement.Capacitance, plan.CapacitorRequirement.Voltage); err != nil {
		return nil, err
	}
	return plan, nil
}

// Top returns the first n entries of an ordered suggestion list. n <= 0
// returns the list unchanged.
func Top[T any](parts []T, n int) []T {
	if n <= 0 || len(parts) <= n {
		return parts
	}
	return parts[:n]
}
