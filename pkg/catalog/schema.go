package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/powerparts/pkg/models"
)

// Canonical field names shared by all family schemas.
const (
	FieldName             = "name"
	FieldManufacturer     = "manufacturer"
	FieldPackage          = "package"
	FieldTechnology       = "technology"
	FieldTemperatureRange = "temperature_range"
	FieldLifetime         = "lifetime"
	FieldNotes            = "notes"
	FieldLink             = "link"
	FieldEfficiency       = "efficiency"
	FieldPrice            = "price"
	FieldVoltage          = "voltage"
	FieldCurrent          = "current"
	FieldRDSOn            = "rds_on"
	FieldInductance       = "inductance"
	FieldDCR              = "dcr"
	FieldCapacitance      = "capacitance"
	FieldESR              = "esr"
)

//go:embed schema.yaml
var schemaRawData []byte

// schemaFile is the top-level structure of the embedded YAML.
type schemaFile struct {
	Families map[models.Family]map[string][]string `yaml:"families"`
}

// Schema maps each canonical field of one family to the source column
// headers it may appear under, most preferred first.
type Schema struct {
	Family   models.Family
	Synonyms map[string][]string
}

var (
	schemaOnce sync.Once
	schemas    map[models.Family]Schema
	schemaErr  error
)

// SchemaFor returns the column-synonym schema for a family.
func SchemaFor(f models.Family) (Schema, error) {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return Schema{}, schemaErr
	}
	s, ok := schemas[f]
	if !ok {
		return Schema{}, fmt.Errorf("catalog: no schema for family %q", f)
	}
	return s, nil
}

func loadSchemas() {
	var f schemaFile
	if err := yaml.Unmarshal(schemaRawData, &f); err != nil {
		schemaErr = fmt.Errorf("catalog: parse schema yaml: %w", err)
		return
	}
	schemas = make(map[models.Family]Schema, len(f.Families))
	for fam, syn := range f.Families {
		schemas[fam] = Schema{Family: fam, Synonyms: syn}
	}
}

// column is one source column bound to a canonical field.
type column struct {
	index int
	// unit is taken from a trailing "(unit)" in the source header and
	// applies to bare numerals in that column.
	unit string
}

// binding resolves canonical fields to source columns for a specific header.
type binding struct {
	columns map[string][]column
}

var headerUnitRE = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)

// bind matches a table header against the schema. Every canonical field maps
// to the source columns that carry it, in synonym preference order. A header
// with no recoverable name column is rejected.
func (s Schema) bind(header []string) (*binding, error) {
	type headerKey struct {
		exact, base, unit string
	}
	keys := make([]headerKey, len(header))
	for i, h := range header {
		h = canonical(strings.TrimPrefix(h, "\ufeff"))
		k := headerKey{exact: strings.ToLower(h), base: strings.ToLower(h)}
		if m := headerUnitRE.FindStringSubmatch(h); m != nil {
			k.base = strings.ToLower(m[1])
			k.unit = strings.TrimSpace(m[2])
		}
		keys[i] = k
	}

	b := &binding{columns: make(map[string][]column, len(s.Synonyms))}
	for field, synonyms := range s.Synonyms {
		used := make(map[int]bool)
		for _, syn := range synonyms {
			syn = strings.ToLower(canonical(syn))
			for i, k := range keys {
				if used[i] {
					continue
				}
				switch {
				case k.exact == syn:
					b.columns[field] = append(b.columns[field], column{index: i})
					used[i] = true
				case k.base == syn:
					b.columns[field] = append(b.columns[field], column{index: i, unit: k.unit})
					used[i] = true
				}
			}
		}
	}

	if len(b.columns[FieldName]) == 0 {
		return nil, ErrNoNameColumn
	}
	return b, nil
}

// Has reports whether any source column carries field.
func (b *binding) Has(field string) bool {
	return len(b.columns[field]) > 0
}
