package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/powerparts/internal/catalog"
	"github.com/HerbHall/powerparts/internal/formula"
)

func runDesign(args []string) {
	if len(args) == 0 {
		fatalf("design: circuit required (pfc or buck)")
	}
	circuit, err := formula.ParseCircuit(args[0])
	if err != nil {
		fatalf("design: %v", err)
	}

	fs := flag.NewFlagSet("design "+string(circuit), flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	paramList := fs.String("params", "", "comma-separated key=value parameters in SI units, e.g. v_in_min=85,v_in_max=265")
	paramFile := fs.String("file", "", "YAML file of key: value parameters; -params entries override it")
	limit := fs.Int("limit", -1, "maximum candidates per family, 0 for all (default catalog.display_count)")
	asJSON := fs.Bool("json", false, "print the plan as JSON")
	xlsxPath := fs.String("xlsx", "", "also write the plan to this Excel workbook")
	if err := fs.Parse(args[1:]); err != nil {
		os.Exit(1)
	}

	params := map[string]float64{}
	if *paramFile != "" {
		if err := readParamFile(*paramFile, params); err != nil {
			fatalf("design: %v", err)
		}
	}
	if err := parseParams(*paramList, params); err != nil {
		fatalf("design: %v", err)
	}
	if err := formula.Validate(params); err != nil {
		fatalf("design: %v", err)
	}

	settings := loadSettings(*configPath)
	engine := newEngine(settings.Catalog, true)

	plan, err := engine.Plan(context.Background(), circuit, params)
	if err != nil {
		fatalf("design: %v", err)
	}
	n := settings.Catalog.DisplayCount
	if *limit >= 0 {
		n = *limit
	}
	plan.Truncate(n)

	if *asJSON {
		printJSON(os.Stdout, plan)
	} else {
		fmt.Printf("%s requirements\n", circuit)
		for _, k := range sortedKeys(plan.Requirements) {
			fmt.Printf("  %-22s %.6g\n", k, plan.Requirements[k])
		}
		fmt.Println()
		printPlanTables(os.Stdout, plan)
	}
	if *xlsxPath != "" {
		if err := catalog.ExportXLSX(*xlsxPath, plan); err != nil {
			fatalf("%v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *xlsxPath)
	}
}

// parseParams adds "k=v,k=v" entries to dst.
func parseParams(list string, dst map[string]float64) error {
	for _, kv := range strings.Split(list, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("parameter %q: want key=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", kv, err)
		}
		dst[strings.TrimSpace(k)] = f
	}
	return nil
}

func readParamFile(path string, dst map[string]float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var m map[string]float64
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range m {
		dst[k] = v
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
