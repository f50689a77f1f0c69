// Package state persists user preferences and the playback queue across
// sessions in a per-user sqlite database.
package state

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "muse"
	dbFileName = "muse.db"
)

type Manager struct {
	db *sql.DB
}

func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens the state database at an explicit path. Used by tests.
func OpenAt(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetPref returns the preference value for key, or "" if unset.
func (m *Manager) GetPref(key string) string {
	var value string
	err := m.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetPref stores a preference value.
func (m *Manager) SetPref(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// ScanRoots returns the persisted library scan roots in insertion order.
func (m *Manager) ScanRoots() ([]string, error) {
	rows, err := m.db.Query(`SELECT path FROM scan_roots ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		roots = append(roots, path)
	}
	return roots, rows.Err()
}

// SetScanRoots replaces the persisted scan root list.
func (m *Manager) SetScanRoots(roots []string) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(`DELETE FROM scan_roots`); err != nil {
		return err
	}
	for i, root := range roots {
		if _, err := tx.Exec(`INSERT INTO scan_roots (position, path) VALUES (?, ?)`, i, root); err != nil {
			return err
		}
	}
	return tx.Commit()
}
