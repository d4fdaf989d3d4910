// Package sqlite provides a SQLite-backed storage.Medium on database/sql.
//
// Two drivers are registered: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go). The config picks one.
// The schema lives in migrations/ and is applied with goose on open.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/aanand-mishra/eduadmin/internal/config"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// ErrQuotaExceeded is returned by Set when a value is larger than the
// configured quota.
var ErrQuotaExceeded = errors.New("sqlite medium quota exceeded")

//go:embed migrations/*.sql
var migrations embed.FS

// Medium stores every key as one row of the kv table.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type Medium struct {
	Db    *sql.DB
	quota int64
}

// New opens the database at cfg.Storage.Path with cfg.Storage.Driver and
// migrates it to the latest schema.
func New(cfg *config.Config) (*Medium, error) {
	return Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.QuotaBytes)
}

// Open is New without a Config. quota <= 0 disables the size check.
func Open(driver, path string, quota int64) (*Medium, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.Open: create dir: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// One writer at a time; SQLite serialises writes anyway and this keeps
	// ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}

	return &Medium{Db: db, quota: quota}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Get fetches the value stored under key.
func (m *Medium) Get(key string) (string, bool, error) {
	var value string
	err := m.Db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (m *Medium) Set(key, value string) error {
	if m.quota > 0 && int64(len(value)) > m.quota {
		return fmt.Errorf("Set %q (%d bytes, quota %d): %w", key, len(value), m.quota, ErrQuotaExceeded)
	}

	_, err := m.Db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("Set %q: %w", key, err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (m *Medium) Delete(key string) error {
	if _, err := m.Db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("Delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (m *Medium) Close() error {
	return m.Db.Close()
}
