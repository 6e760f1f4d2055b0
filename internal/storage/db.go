package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by repo lookups that match no row.
var ErrNotFound = errors.New("not found")

// DefaultDBPath returns the default CleanSteps DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".cleansteps.db"), nil
}

// ResolveDBPath returns configured when set (expanding a leading ~/), and the
// default location otherwise.
func ResolveDBPath(configured string) (string, error) {
	p := strings.TrimSpace(configured)
	if p == "" {
		return DefaultDBPath()
	}
	if strings.HasPrefix(p, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		p = filepath.Join(homeDir, p[2:])
	}
	return p, nil
}

// dsnPragmas are applied by the driver to every new connection.
const dsnPragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

// Open opens (and creates if missing) the SQLite database at path and brings
// its schema up to date.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path+"?"+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Single writer. Set after Migrate so goose is not limited by it.
	db.SetMaxOpenConns(1)

	slog.Debug("database opened", "path", path)
	return db, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
