package catalog

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Dataset identifier schemes accepted by Open.
const (
	BuiltinPrefix = "builtin:"
	SQLitePrefix  = "sqlite:"
)

// Builtin dataset identifiers for the embedded catalogs.
const (
	BuiltinMosfets    = BuiltinPrefix + "mosfets"
	BuiltinInductors  = BuiltinPrefix + "inductors"
	BuiltinCapacitors = BuiltinPrefix + "capacitors"
)

//go:embed data/*.csv
var builtinData embed.FS

// Table is a raw tabular dataset: one header row and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

var sqlIdentRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name can be used as a SQLite table name in
// a dataset identifier.
func ValidTableName(name string) bool {
	return sqlIdentRE.MatchString(name)
}

// Open reads a dataset into a Table. Identifiers take one of these forms:
//
//	builtin:<name>           embedded catalog (mosfets, inductors, capacitors)
//	sqlite:<path>#<table>    table in an existing SQLite database
//	<path>.csv | <path>.tsv  delimited text file
//	<path>.xlsx[#<sheet>]    Excel workbook, first sheet by default
//
// Open never creates or modifies anything at the source.
func Open(ctx context.Context, dataset string) (*Table, error) {
	switch {
	case strings.HasPrefix(dataset, BuiltinPrefix):
		name := strings.TrimPrefix(dataset, BuiltinPrefix)
		f, err := builtinData.Open("data/" + name + ".csv")
		if err != nil {
			return nil, fmt.Errorf("builtin %q: %w", name, ErrDatasetNotFound)
		}
		defer f.Close()
		return ReadDelimited(f, ',')

	case strings.HasPrefix(dataset, SQLitePrefix):
		path, table, _ := strings.Cut(strings.TrimPrefix(dataset, SQLitePrefix), "#")
		return ReadSQLite(ctx, path, table)
	}

	path, sheet, _ := strings.Cut(dataset, "#")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readFile(path, ',')
	case ".tsv":
		return readFile(path, '\t')
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	}
	return nil, fmt.Errorf("%q: %w", dataset, ErrUnsupportedDataset)
}

func readFile(path string, comma rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, notFound(err)
	}
	defer f.Close()
	return ReadDelimited(f, comma)
}

// ReadDelimited parses CSV or TSV. Ragged rows are allowed; short rows read
// as empty cells, extra cells are ignored.
func ReadDelimited(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dataset: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, notFound(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: empty dataset: no header row", sheet)
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ReadSQLite reads every row of a table in an existing SQLite database.
// Cells are rendered to strings so they flow through the same normalization
// as text catalogs.
func ReadSQLite(ctx context.Context, path, table string) (*Table, error) {
	if !ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, notFound(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	t := &Table{Header: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", table, len(t.Rows)+1, err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return t, nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDatasetNotFound, err)
	}
	return err
}
