package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/stokaro/ptah/dbschema"
	"github.com/stokaro/ptah/migration/migrator"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the migration files for one dialect.
func Migrations(dialect Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+string(dialect))
}

// Status summarises which migrations have been applied.
type Status struct {
	CurrentVersion int   `json:"currentVersion"`
	Pending        []int `json:"pending"`
	Total          int   `json:"total"`
}

// Migrator applies the embedded schema. MySQL and PostgreSQL go through the
// ptah migrator; SQLite, which ptah does not speak, is handled in-process.
type Migrator struct {
	databaseURL string
	dialect     Dialect
	db          *sql.DB
	logger      *slog.Logger
}

// NewMigrator prepares a migrator for the pool opened from databaseURL.
func NewMigrator(databaseURL string, dialect Dialect, db *sql.DB, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{databaseURL: databaseURL, dialect: dialect, db: db, logger: logger}
}

func (m *Migrator) withPtah(ctx context.Context, fn func(*migrator.Migrator) error) error {
	fsys, err := Migrations(m.dialect)
	if err != nil {
		return err
	}

	conn, err := dbschema.ConnectToDatabase(m.databaseURL)
	if err != nil {
		return fmt.Errorf("connect migrator: %w", err)
	}
	defer conn.Close()

	mig, err := migrator.NewFSMigrator(conn, fsys)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	return fn(mig.WithLogger(m.logger))
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	if m.dialect == SQLite {
		return m.sqliteUp(ctx)
	}
	return m.withPtah(ctx, func(mig *migrator.Migrator) error {
		return mig.MigrateUp(ctx)
	})
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	if m.dialect == SQLite {
		return m.sqliteDown(ctx)
	}
	return m.withPtah(ctx, func(mig *migrator.Migrator) error {
		return mig.MigrateDown(ctx)
	})
}

// Status reports the applied and pending versions.
func (m *Migrator) Status(ctx context.Context) (*Status, error) {
	if m.dialect == SQLite {
		return m.sqliteStatus(ctx)
	}

	var st *Status
	err := m.withPtah(ctx, func(mig *migrator.Migrator) error {
		ms, err := mig.GetMigrationStatus(ctx)
		if err != nil {
			return err
		}
		st = &Status{
			CurrentVersion: ms.CurrentVersion,
			Pending:        ms.PendingMigrations,
			Total:          ms.TotalMigrations,
		}
		return nil
	})
	return st, err
}

// --- SQLite ---

type sqlFile struct {
	version int
	name    string
	path    string
}

func (m *Migrator) sqliteFiles(direction string) ([]sqlFile, fs.FS, error) {
	fsys, err := Migrations(SQLite)
	if err != nil {
		return nil, nil, err
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("read sqlite migrations: %w", err)
	}

	suffix := "." + direction + ".sql"
	var files []sqlFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		files = append(files, sqlFile{version: v, name: name, path: name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, fsys, nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) execFile(ctx context.Context, tx *sql.Tx, fsys fs.FS, path string) error {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	for _, stmt := range migrator.SplitSQLStatements(string(raw)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (m *Migrator) sqliteUp(ctx context.Context) error {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}
	files, fsys, err := m.sqliteFiles("up")
	if err != nil {
		return err
	}

	for _, f := range files {
		if applied[f.version] {
			continue
		}
		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := m.execFile(ctx, tx, fsys, f.path); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", f.version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		m.logger.Info("applied migration", "version", f.version, "file", f.name)
	}
	return nil
}

func (m *Migrator) sqliteDown(ctx context.Context) error {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}
	files, fsys, err := m.sqliteFiles("down")
	if err != nil {
		return err
	}

	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if !applied[f.version] {
			continue
		}
		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := m.execFile(ctx, tx, fsys, f.path); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", f.version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		m.logger.Info("rolled back migration", "version", f.version, "file", f.name)
		return nil
	}
	return nil
}

func (m *Migrator) sqliteStatus(ctx context.Context) (*Status, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	files, _, err := m.sqliteFiles("up")
	if err != nil {
		return nil, err
	}

	st := &Status{Total: len(files), Pending: []int{}}
	for _, f := range files {
		if applied[f.version] {
			if f.version > st.CurrentVersion {
				st.CurrentVersion = f.version
			}
			continue
		}
		st.Pending = append(st.Pending, f.version)
	}
	return st, nil
}
