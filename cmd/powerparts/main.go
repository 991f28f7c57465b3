// Command powerparts recommends MOSFETs, inductors and capacitors for power
// converter designs, from the command line or over HTTP.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/powerparts/internal/catalog"
	"github.com/HerbHall/powerparts/internal/config"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
)

const usage = `Usage: powerparts <command> [flags]

Commands:
  serve                         run the HTTP API
  suggest <family> [flags]      rank parts of one family for a requirement
  design <pfc|buck> [flags]     size a converter and suggest parts for it
  import [flags]                copy a catalog dataset into a SQLite table
  version                       print build information

Run "powerparts <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "serve":
		runServe(args)
	case "suggest":
		runSuggest(args)
	case "design":
		runDesign(args)
	case "import":
		runImport(args)
	case "version", "-version", "--version":
		runVersion()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

// loadSettings reads configuration or exits.
func loadSettings(path string) config.Settings {
	cfg, err := config.Load(path)
	if err != nil {
		fatalf("load configuration: %v", err)
	}
	s, err := cfg.Settings()
	if err != nil {
		fatalf("load configuration: %v", err)
	}
	return s
}

func newLogger(development bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fatalf("create logger: %v", err)
	}
	return logger
}

// newEngine builds the recommendation engine for the catalog settings. The
// caching loader is used when catalog.cache is set or force is true.
func newEngine(s config.CatalogSettings, force bool) *catalog.Engine {
	var loader catalog.Loader = pkgcatalog.Direct{}
	if s.Cache || force {
		loader = pkgcatalog.NewCache()
	}
	return catalog.NewEngine(loader, catalog.Datasets{
		Mosfets:    s.Mosfets,
		Inductors:  s.Inductors,
		Capacitors: s.Capacitors,
	})
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "powerparts: "+format+"\n", args...)
	os.Exit(1)
}
