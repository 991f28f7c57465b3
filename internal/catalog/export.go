package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/HerbHall/powerparts/pkg/models"
)

// Sheet names written by ExportXLSX.
const (
	SheetSummary    = "Summary"
	SheetMosfets    = "MOSFETs"
	SheetInductors  = "Inductors"
	SheetCapacitors = "Capacitors"
)

var (
	mosfetColumns    = []string{"No", "Name", "Manufacturer", "Voltage [V]", "Current [A]", "RDS(on) [Ω]", "Price", "Efficiency", "Package", "Link"}
	inductorColumns  = []string{"No", "Name", "Manufacturer", "Inductance [H]", "Current [A]", "DCR [Ω]", "Price", "Efficiency", "Package", "Link"}
	capacitorColumns = []string{"No", "Name", "Manufacturer", "Capacitance [F]", "Voltage [V]", "ESR [Ω]", "Price", "Efficiency", "Technology", "Link"}
)

// ExportXLSX writes plan to an Excel workbook: a Summary sheet with the
// parameters, computed requirements and per-family targets, and one sheet
// per family listing the ranked candidates. Values are stored in SI units.
func ExportXLSX(path string, plan *DesignPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeSummary(f, plan); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	mos := make([][]any, len(plan.Mosfets))
	for i, p := range plan.Mosfets {
		mos[i] = []any{i + 1, p.Name, p.Manufacturer, p.Voltage, p.Current, optionalCell(p.RDSOn), priceCell(p.PartInfo), p.Efficiency, p.Package, p.Link}
	}
	ind := make([][]any, len(plan.Inductors))
	for i, p := range plan.Inductors {
		ind[i] = []any{i + 1, p.Name, p.Manufacturer, optionalCell(p.Inductance), p.Current, optionalCell(p.DCR), priceCell(p.PartInfo), p.Efficiency, p.Package, p.Link}
	}
	caps := make([][]any, len(plan.Capacitors))
	for i, p := range plan.Capacitors {
		caps[i] = []any{i + 1, p.Name, p.Manufacturer, optionalCell(p.Capacitance), optionalCell(p.Voltage), optionalCell(p.ESR), priceCell(p.PartInfo), p.Efficiency, p.Technology, p.Link}
	}

	for _, s := range []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{SheetMosfets, mosfetColumns, mos},
		{SheetInductors, inductorColumns, ind},
		{SheetCapacitors, capacitorColumns, caps},
	} {
		if err := writeSheet(f, s.name, s.columns, s.rows); err != nil {
			return fmt.Errorf("export %s: %w", s.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %q: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, plan *DesignPlan) error {
	rows := [][]any{{"Circuit", string(plan.Circuit)}, {}}

	rows = append(rows, []any{"Parameter", "Value"})
	for _, k := range sortedKeys(plan.Parameters) {
		rows = append(rows, []any{k, plan.Parameters[k]})
	}
	rows = append(rows, []any{}, []any{"Requirement", "Value"})
	for _, k := range sortedKeys(plan.Requirements) {
		rows = append(rows, []any{k, plan.Requirements[k]})
	}

	rows = append(rows, []any{}, []any{"Family", "Capacitance [F]", "Inductance [H]", "Voltage [V]", "Current [A]", "Candidates"})
	for _, t := range []struct {
		family models.Family
		req    models.Requirement
		count  int
	}{
		{models.FamilyMosfet, plan.MosfetRequirement, len(plan.Mosfets)},
		{models.FamilyInductor, plan.InductorRequirement, len(plan.Inductors)},
		{models.FamilyCapacitor, plan.CapacitorRequirement, len(plan.Capacitors)},
	} {
		rows = append(rows, []any{string(t.family), t.req.Capacitance, t.req.Inductance, t.req.Voltage, t.req.Current, t.count})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, columns []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// optionalCell leaves missing attributes as blank cells.
func optionalCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func priceCell(p models.PartInfo) any {
	if !p.PriceKnown {
		return nil
	}
	return p.Price
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
