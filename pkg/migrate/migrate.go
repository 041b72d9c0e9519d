package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

// DefaultDir is the on-disk root of the migration tree, one subdirectory per dialect.
const DefaultDir = "pkg/migrate/migrations"

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed migrations
var embedded embed.FS

// goose keeps its dialect and base filesystem in package globals.
var gooseMu sync.Mutex

// Dialects lists the dialects that ship embedded migrations.
func Dialects() []string {
	return []string{DialectPostgres, DialectSQLite}
}

// Dir returns the migration directory for a dialect beneath root.
func Dir(root, dialect string) string {
	return path.Join(root, dialect)
}

func gooseDialect(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

func prepare(dialect string) (string, error) {
	name, err := gooseDialect(dialect)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(name); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return Dir("migrations", dialect), nil
}

// Run executes a standard goose command against the embedded migrations for dialect.
func Run(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if command == "" {
		return fmt.Errorf("command is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Version reports the current schema version.
func Version(db *sql.DB, dialect string) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("db is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := prepare(dialect); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, targetVersion string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
