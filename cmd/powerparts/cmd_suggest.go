package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/HerbHall/powerparts/internal/catalog"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
	"github.com/HerbHall/powerparts/pkg/models"
)

func runSuggest(args []string) {
	if len(args) == 0 {
		fatalf("suggest: family required (mosfets, inductors or capacitors)")
	}
	family, err := models.ParseFamily(args[0])
	if err != nil {
		fatalf("suggest: %v", err)
	}

	fs := flag.NewFlagSet("suggest "+family.Plural(), flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	voltage := fs.String("voltage", "", "required voltage (mosfets, capacitors), e.g. 400 or 400V")
	current := fs.String("current", "", "required current (mosfets, inductors), e.g. 10A")
	inductance := fs.String("inductance", "", "required inductance (inductors), e.g. 2.2mH")
	capacitance := fs.String("capacitance", "", "required capacitance (capacitors), e.g. 100uF")
	limit := fs.Int("limit", -1, "maximum candidates, 0 for all (default catalog.display_count)")
	asJSON := fs.Bool("json", false, "print candidates as JSON")
	xlsxPath := fs.String("xlsx", "", "also write the candidates to this Excel workbook")
	verbose := fs.Bool("v", false, "log catalog row warnings")
	if err := fs.Parse(args[1:]); err != nil {
		os.Exit(1)
	}

	settings := loadSettings(*configPath)
	engine := newEngine(settings.Catalog, true)
	ctx := context.Background()

	if *verbose {
		logger := newLogger(true)
		defer logger.Sync()
		if _, err := catalog.Warm(ctx, engine.Loader(), engine.Datasets(), logger); err != nil {
			logger.Warn("catalog warm-up failed", zap.Error(err))
		}
	}

	n := settings.Catalog.DisplayCount
	if *limit >= 0 {
		n = *limit
	}

	plan := &catalog.DesignPlan{}
	switch family {
	case models.FamilyMosfet:
		req := models.Requirement{
			Voltage: mustQuantity("voltage", *voltage, pkgcatalog.Voltage),
			Current: mustQuantity("current", *current, pkgcatalog.Current),
		}
		parts, err := engine.SuggestMosfets(ctx, req.Voltage, req.Current)
		if err != nil {
			fatalf("%v", err)
		}
		plan.MosfetRequirement, plan.Mosfets = req, catalog.Top(parts, n)
	case models.FamilyInductor:
		req := models.Requirement{
			Inductance: mustQuantity("inductance", *inductance, pkgcatalog.Inductance),
			Current:    mustQuantity("current", *current, pkgcatalog.Current),
		}
		parts, err := engine.SuggestInductors(ctx, req.Inductance, req.Current)
		if err != nil {
			fatalf("%v", err)
		}
		plan.InductorRequirement, plan.Inductors = req, catalog.Top(parts, n)
	case models.FamilyCapacitor:
		req := models.Requirement{
			Capacitance: mustQuantity("capacitance", *capacitance, pkgcatalog.Capacitance),
			Voltage:     mustQuantity("voltage", *voltage, pkgcatalog.Voltage),
		}
		parts, err := engine.SuggestCapacitors(ctx, req.Capacitance, req.Voltage)
		if err != nil {
			fatalf("%v", err)
		}
		plan.CapacitorRequirement, plan.Capacitors = req, catalog.Top(parts, n)
	}

	if *asJSON {
		printJSON(os.Stdout, candidates(plan, family))
	} else {
		printPlanTables(os.Stdout, plan)
	}
	if *xlsxPath != "" {
		if err := catalog.ExportXLSX(*xlsxPath, plan); err != nil {
			fatalf("%v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *xlsxPath)
	}
}

func mustQuantity(name, raw string, q pkgcatalog.Quantity) float64 {
	if raw == "" {
		fatalf("suggest: -%s is required", name)
	}
	v, err := pkgcatalog.ParseRequirement(raw, q)
	if err != nil {
		fatalf("suggest: -%s: %v", name, err)
	}
	return v
}

func candidates(plan *catalog.DesignPlan, f models.Family) any {
	switch f {
	case models.FamilyMosfet:
		return plan.Mosfets
	case models.FamilyInductor:
		return plan.Inductors
	}
	return plan.Capacitors
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("encode: %v", err)
	}
}

// printPlanTables prints one table per family that has a requirement.
func printPlanTables(out io.Writer, plan *catalog.DesignPlan) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if plan.MosfetRequirement != (models.Requirement{}) {
		fmt.Fprintf(w, "MOSFETs (V >= %s, I >= %s)\n", si(plan.MosfetRequirement.Voltage, "V"), si(plan.MosfetRequirement.Current, "A"))
		fmt.Fprintln(w, "#\tName\tManufacturer\tVoltage\tCurrent\tPrice\tEfficiency")
		for i, p := range plan.Mosfets {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, p.Name, p.Manufacturer, si(p.Voltage, "V"), si(p.Current, "A"), price(p.PartInfo), p.Efficiency)
		}
		emptyNote(w, len(plan.Mosfets))
	}
	if plan.InductorRequirement != (models.Requirement{}) {
		fmt.Fprintf(w, "Inductors (L ≈ %s, I >= %s)\n", si(plan.InductorRequirement.Inductance, "H"), si(plan.InductorRequirement.Current, "A"))
		fmt.Fprintln(w, "#\tName\tManufacturer\tInductance\tCurrent\tPrice\tEfficiency")
		for i, p := range plan.Inductors {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, p.Name, p.Manufacturer, optSI(p.Inductance, "H"), si(p.Current, "A"), price(p.PartInfo), p.Efficiency)
		}
		emptyNote(w, len(plan.Inductors))
	}
	if plan.CapacitorRequirement != (models.Requirement{}) {
		fmt.Fprintf(w, "Capacitors (C ≈ %s, V >= %s)\n", si(plan.CapacitorRequirement.Capacitance, "F"), si(plan.CapacitorRequirement.Voltage, "V"))
		fmt.Fprintln(w, "#\tName\tManufacturer\tCapacitance\tVoltage\tESR\tPrice")
		for i, p := range plan.Capacitors {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, p.Name, p.Manufacturer, optSI(p.Capacitance, "F"), optSI(p.Voltage, "V"), optSI(p.ESR, "Ω"), price(p.PartInfo))
		}
		emptyNote(w, len(plan.Capacitors))
	}
}

func emptyNote(w io.Writer, n int) {
	if n == 0 {
		fmt.Fprintln(w, "-\tno part meets the requirement")
	}
	fmt.Fprintln(w)
}

var siPrefixes = []struct {
	scale  float64
	prefix string
}{
	{1e3, "k"}, {1, ""}, {1e-3, "m"}, {1e-6, "µ"}, {1e-9, "n"}, {1e-12, "p"},
}

// si formats v with an engineering prefix, e.g. 2.2e-3 H as "2.2mH".
func si(v float64, unit string) string {
	if v == 0 {
		return "0" + unit
	}
	abs := v
	if abs < 0 {
		abs = -abs
	}
	for _, p := range siPrefixes {
		if abs >= p.scale*0.9999 {
			return strconv.FormatFloat(v/p.scale, 'g', 4, 64) + p.prefix + unit
		}
	}
	return strconv.FormatFloat(v, 'g', 4, 64) + unit
}

func optSI(v *float64, unit string) string {
	if v == nil {
		return "?"
	}
	return si(*v, unit)
}

func price(p models.PartInfo) string {
	if !p.PriceKnown {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", p.Price)
}
