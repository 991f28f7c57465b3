package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/HerbHall/powerparts/internal/store"
	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
)

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "powerparts.db", "SQLite database to write")
	table := fs.String("table", "", "destination table name")
	from := fs.String("from", "", "source dataset (file path, builtin:<name> or sqlite:<path>#<table>)")
	list := fs.Bool("list", false, "list imported tables instead of importing")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := store.New(*dbPath)
	if err != nil {
		fatalf("import: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if *list {
		imports, err := s.Imports(ctx)
		if err != nil {
			fatalf("import: %v", err)
		}
		for _, imp := range imports {
			fmt.Printf("%s\t%d rows\tfrom %s\t%s\n", imp.Table, imp.Rows, imp.Source, imp.ImportedAt.Format("2006-01-02 15:04:05"))
		}
		return
	}

	if *table == "" || *from == "" {
		fatalf("import: -table and -from are required")
	}
	tbl, err := pkgcatalog.Open(ctx, *from)
	if err != nil {
		fatalf("import: %v", err)
	}
	if err := s.ImportTable(ctx, *table, *from, tbl); err != nil {
		fatalf("import: %v", err)
	}
	fmt.Printf("Imported %d rows into %s; use dataset %s%s#%s\n",
		len(tbl.Rows), *table, pkgcatalog.SQLitePrefix, *dbPath, *table)
}
