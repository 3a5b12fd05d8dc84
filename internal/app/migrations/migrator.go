package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed sql
var files embed.FS

// Dialects with bundled schema files
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Target is a store that can record and apply schema migrations.
type Target interface {
	// EnsureMigrationTable creates the schema_migrations table if needed.
	EnsureMigrationTable(ctx context.Context) error
	// IsMigrationApplied reports whether version has been recorded.
	IsMigrationApplied(ctx context.Context, version string) (bool, error)
	// ApplyMigration runs the statements and records version in one transaction.
	ApplyMigration(ctx context.Context, version, statements string) error
}

// Migrator manages database migrations
type Migrator struct {
	target Target
	fsys   fs.FS
	dir    string
	logger zerolog.Logger
}

// NewMigrator creates a migrator over the schema files bundled for dialect
func NewMigrator(target Target, dialect string, logger zerolog.Logger) (*Migrator, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	return NewMigratorFS(target, files, path.Join("sql", dialect), logger), nil
}

// NewMigratorFS creates a migrator reading *.sql files from dir in fsys
func NewMigratorFS(target Target, fsys fs.FS, dir string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		target: target,
		fsys:   fsys,
		dir:    dir,
		logger: logger,
	}
}

// Migrate applies every pending migration in lexical order and returns the
// versions it applied.
func (m *Migrator) Migrate(ctx context.Context) ([]string, error) {
	if err := m.target.EnsureMigrationTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	var applied []string
	for _, file := range sqlFiles {
		version := Version(file)

		done, err := m.target.IsMigrationApplied(ctx, version)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", file, err)
		}
		if done {
			m.logger.Debug().Str("migration", file).Msg("Migration already applied, skipping")
			continue
		}

		content, err := fs.ReadFile(m.fsys, path.Join(m.dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}

		if err := m.target.ApplyMigration(ctx, version, string(content)); err != nil {
			return applied, fmt.Errorf("migration %s failed: %w", file, err)
		}
		m.logger.Info().Str("migration", file).Msg("Migration applied")
		applied = append(applied, version)
	}

	return applied, nil
}

// Version extracts the version prefix of a migration file name
// ("001_init.sql" => "001").
func Version(filename string) string {
	return strings.Split(path.Base(filename), "_")[0]
}
