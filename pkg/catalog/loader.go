package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/powerparts/pkg/models"
)

// LowESR is the ESR assigned to capacitors whose catalog row reads "low".
// It stands for "good" and sorts ahead of any realistic measured value.
const LowESR = 1e-3 // 1 mΩ

// UnknownCurrent is the current rating assigned when the catalog reads
// "unknown" or gives no usable rating. It never satisfies a positive
// requirement.
const UnknownCurrent = 0.0

// Snapshot is one normalized load of a dataset. It is never modified after
// construction; accessors hand out copies.
type Snapshot[T any] struct {
	ID       string
	Dataset  string
	Family   models.Family
	LoadedAt time.Time

	parts    []T
	warnings []RowParseWarning
}

// NewSnapshot builds a snapshot from already-normalized parts, for callers
// that source parts outside Open, such as tests and in-memory catalogs.
func NewSnapshot[T any](family models.Family, dataset string, parts []T, warnings []RowParseWarning) *Snapshot[T] {
	s := &Snapshot[T]{
		ID:       uuid.New().String(),
		Dataset:  dataset,
		Family:   family,
		LoadedAt: time.Now().UTC(),
		parts:    cloneParts(parts),
		warnings: make([]RowParseWarning, len(warnings)),
	}
	copy(s.warnings, warnings)
	return s
}

// Parts returns a deep copy of the normalized parts in source row order.
// Optional attributes point at fresh values, so callers may modify them.
func (s *Snapshot[T]) Parts() []T {
	return cloneParts(s.parts)
}

// cloneParts copies parts along with the optional values they point at.
func cloneParts[T any](parts []T) []T {
	cp := make([]T, len(parts))
	copy(cp, parts)
	switch ps := any(cp).(type) {
	case []models.Mosfet:
		for i := range ps {
			ps[i] = ps[i].Clone()
		}
	case []models.Inductor:
		for i := range ps {
			ps[i] = ps[i].Clone()
		}
	case []models.Capacitor:
		for i := range ps {
			ps[i] = ps[i].Clone()
		}
	}
	return cp
}

// Warnings returns a copy of the row-level issues recorded during the load.
func (s *Snapshot[T]) Warnings() []RowParseWarning {
	cp := make([]RowParseWarning, len(s.warnings))
	copy(cp, s.warnings)
	return cp
}

// Len returns the number of parts in the snapshot.
func (s *Snapshot[T]) Len() int { return len(s.parts) }

// LoadMosfets reads and normalizes a MOSFET dataset.
func LoadMosfets(ctx context.Context, dataset string) (*Snapshot[models.Mosfet], error) {
	return load(ctx, models.FamilyMosfet, dataset, buildMosfet)
}

// LoadInductors reads and normalizes an inductor dataset.
func LoadInductors(ctx context.Context, dataset string) (*Snapshot[models.Inductor], error) {
	return load(ctx, models.FamilyInductor, dataset, buildInductor)
}

// LoadCapacitors reads and normalizes a capacitor dataset.
func LoadCapacitors(ctx context.Context, dataset string) (*Snapshot[models.Capacitor], error) {
	return load(ctx, models.FamilyCapacitor, dataset, buildCapacitor)
}

func load[T any](ctx context.Context, family models.Family, dataset string, build func(*rowReader) T) (*Snapshot[T], error) {
	schema, err := SchemaFor(family)
	if err != nil {
		return nil, &CatalogLoadError{Dataset: dataset, Err: err}
	}
	tbl, err := Open(ctx, dataset)
	if err != nil {
		return nil, &CatalogLoadError{Dataset: dataset, Err: err}
	}
	b, err := schema.bind(tbl.Header)
	if err != nil {
		return nil, &CatalogLoadError{Dataset: dataset, Err: err}
	}

	snap := &Snapshot[T]{
		ID:       uuid.New().String(),
		Dataset:  dataset,
		Family:   family,
		LoadedAt: time.Now().UTC(),
		parts:    make([]T, 0, len(tbl.Rows)),
	}
	for i, row := range tbl.Rows {
		if blankRow(row) {
			continue
		}
		r := &rowReader{binding: b, cells: row, row: i + 1}
		name := r.text(FieldName)
		if name == "" {
			snap.warnings = append(snap.warnings, RowParseWarning{
				Row: r.row, Field: FieldName, Err: ErrMissingName,
			})
			continue
		}
		part := build(r)
		snap.warnings = append(snap.warnings, r.warnings...)
		snap.parts = append(snap.parts, part)
	}
	return snap, nil
}

func buildMosfet(r *rowReader) models.Mosfet {
	return models.Mosfet{
		PartInfo: r.info(),
		Voltage:  r.required(FieldVoltage, Voltage, 0),
		Current:  r.required(FieldCurrent, Current, UnknownCurrent),
		RDSOn:    r.optional(FieldRDSOn, Resistance),
	}
}

func buildInductor(r *rowReader) models.Inductor {
	return models.Inductor{
		PartInfo:   r.info(),
		Inductance: r.optional(FieldInductance, Inductance),
		Current:    r.required(FieldCurrent, Current, UnknownCurrent),
		DCR:        r.optional(FieldDCR, Resistance),
	}
}

func buildCapacitor(r *rowReader) models.Capacitor {
	return models.Capacitor{
		PartInfo:    r.info(),
		Capacitance: r.optional(FieldCapacitance, Capacitance),
		Voltage:     r.optional(FieldVoltage, Voltage),
		ESR:         r.esr(),
	}
}

// rowReader pulls canonical fields out of one source row, collecting
// warnings instead of failing.
type rowReader struct {
	binding  *binding
	cells    []string
	row      int
	warnings []RowParseWarning
}

func (r *rowReader) cell(c column) string {
	if c.index >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[c.index])
}

// text returns the first non-empty source column bound to field.
func (r *rowReader) text(field string) string {
	for _, c := range r.binding.columns[field] {
		if v := r.cell(c); v != "" {
			return v
		}
	}
	return ""
}

// numeric returns the first source column bound to field whose value is not
// a missing-value sentinel, with the sentinel class of that value. ok is
// false when every bound column is empty or missing.
func (r *rowReader) numeric(field string) (string, column, Sentinel, bool) {
	for _, c := range r.binding.columns[field] {
		raw := r.cell(c)
		if s := ClassifySentinel(raw); s != SentinelMissing {
			return raw, c, s, true
		}
	}
	return "", column{}, SentinelMissing, false
}

// parse converts raw text, recording a warning on failure.
func (r *rowReader) parse(field, raw string, c column, q Quantity) (float64, bool) {
	v, err := parseQuantity(raw, q, c.unit)
	if err != nil {
		r.warnings = append(r.warnings, RowParseWarning{Row: r.row, Field: field, Raw: raw, Err: err})
		return 0, false
	}
	return v, true
}

// required returns a value that is always present: fallback stands in for
// absent, missing, unknown or unparseable cells.
func (r *rowReader) required(field string, q Quantity, fallback float64) float64 {
	raw, c, sentinel, ok := r.numeric(field)
	if !ok || sentinel != NotSentinel {
		return fallback
	}
	if v, ok := r.parse(field, raw, c, q); ok {
		return v
	}
	return fallback
}

// optional returns nil for absent, missing, unknown or unparseable cells.
func (r *rowReader) optional(field string, q Quantity) *float64 {
	raw, c, sentinel, ok := r.numeric(field)
	if !ok || sentinel != NotSentinel {
		return nil
	}
	if v, ok := r.parse(field, raw, c, q); ok {
		return &v
	}
	return nil
}

func (r *rowReader) esr() *float64 {
	raw, c, sentinel, ok := r.numeric(FieldESR)
	switch {
	case !ok:
		return nil
	case sentinel == SentinelLow:
		return models.Float(LowESR)
	case sentinel != NotSentinel:
		return nil
	}
	if v, ok := r.parse(FieldESR, raw, c, Resistance); ok {
		return &v
	}
	return nil
}

func (r *rowReader) info() models.PartInfo {
	info := models.PartInfo{
		Name:             r.text(FieldName),
		Manufacturer:     r.text(FieldManufacturer),
		Package:          r.text(FieldPackage),
		Technology:       r.text(FieldTechnology),
		TemperatureRange: r.text(FieldTemperatureRange),
		Lifetime:         r.text(FieldLifetime),
		Notes:            r.text(FieldNotes),
		Link:             r.text(FieldLink),
		Efficiency:       r.text(FieldEfficiency),
		Price:            models.DefaultPrice,
		Row:              r.row,
	}
	if score, ok := EfficiencyScore(info.Efficiency); ok {
		info.EfficiencyScore = &score
	}
	if raw, c, sentinel, ok := r.numeric(FieldPrice); ok && sentinel == NotSentinel {
		if v, ok := r.parse(FieldPrice, raw, c, Price); ok {
			info.Price, info.PriceKnown = v, true
		}
	}
	return info
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// String identifies the snapshot in logs and headers.
func (s *Snapshot[T]) String() string {
	return fmt.Sprintf("%s %s (%d parts, %d warnings)", s.Family, s.Dataset, len(s.parts), len(s.warnings))
}
