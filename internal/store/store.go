// Package store persists imported catalog tables in SQLite so they can be
// served back through "sqlite:<path>#<table>" dataset identifiers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
)

// Migration is a versioned schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// schema tracks every table written by ImportTable.
var schema = []Migration{
	{
		Version:     1,
		Description: "create catalog_imports",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS catalog_imports (
					table_name  TEXT     PRIMARY KEY,
					source      TEXT     NOT NULL,
					row_count   INTEGER  NOT NULL,
					imported_at DATETIME NOT NULL
				)
			`)
			return err
		},
	},
}

// Import describes one table written by ImportTable.
type Import struct {
	Table      string    `json:"table"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	ImportedAt time.Time `json:"imported_at"`
}

// SQLiteStore is a catalog store backed by SQLite via modernc.org/sqlite.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex // Serialize migrations
	once sync.Once  // Ensure _migrations table created once
}

// New opens (or creates) a SQLite database at the given path, applies
// recommended pragmas and brings the schema up to date.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite requires SQL statements, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(context.Background(), schema); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Tx executes fn within a database transaction. The transaction is
// committed if fn returns nil, rolled back otherwise.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// Migrate runs pending migrations. Already-applied versions (tracked in the
// _migrations table) are skipped. Migrations must be in ascending order.
func (s *SQLiteStore) Migrate(ctx context.Context, migrations []Migration) error {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range migrations {
		var count int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM _migrations WHERE version = ?", m.Version,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err = s.Tx(ctx, func(tx *sql.Tx) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO _migrations (version, description) VALUES (?, ?)",
				m.Version, m.Description,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureMigrationsTable(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		_, err = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS _migrations (
				version     INTEGER  PRIMARY KEY,
				description TEXT     NOT NULL,
				applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`)
	})
	return err
}

// ImportTable replaces table name with the contents of t. Every column is
// stored as TEXT under its original header, so the table reads back through
// the same schema synonyms as the source. source is recorded for Imports.
func (s *SQLiteStore) ImportTable(ctx context.Context, name, source string, t *pkgcatalog.Table) error {
	if !pkgcatalog.ValidTableName(name) || strings.HasPrefix(name, "_") || name == "catalog_imports" {
		return fmt.Errorf("invalid table name %q", name)
	}
	if len(t.Header) == 0 {
		return fmt.Errorf("import %s: table has no header", name)
	}
	cols := columnNames(t.Header)

	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(name)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}

		defs := make([]string, len(cols))
		for i, c := range cols {
			defs[i] = quoteIdent(c) + " TEXT"
		}
		if _, err := tx.ExecContext(ctx, `CREATE TABLE `+quoteIdent(name)+` (`+strings.Join(defs, ", ")+`)`); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quoteIdent(name)+` VALUES (`+placeholders+`)`)
		if err != nil {
			return fmt.Errorf("prepare insert %s: %w", name, err)
		}
		defer stmt.Close()

		args := make([]any, len(cols))
		for i, row := range t.Rows {
			for j := range args {
				args[j] = ""
				if j < len(row) {
					args[j] = row[j]
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", name, i+1, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO catalog_imports (table_name, source, row_count, imported_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(table_name) DO UPDATE SET
				source = excluded.source,
				row_count = excluded.row_count,
				imported_at = excluded.imported_at`,
			name, source, len(t.Rows), time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("record import %s: %w", name, err)
		}
		return nil
	})
}

// Imports lists every imported table, most recent first.
func (s *SQLiteStore) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name, source, row_count, imported_at FROM catalog_imports ORDER BY imported_at DESC, table_name`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.Table, &imp.Source, &imp.Rows, &imp.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// columnNames makes header cells usable as distinct column names: blanks
// become column_N and repeats gain a numeric suffix.
func columnNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		key := strings.ToLower(name)
		if n := seen[key]; n > 0 {
			name += "_" + strconv.Itoa(n+1)
		}
		seen[key]++
		out[i] = name
	}
	return out
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
