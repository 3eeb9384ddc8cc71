// Package state persists plugman's install registry: which package versions
// are installed into which GIMP targets, the file manifests they put on
// disk, and an audit log of install, upgrade and uninstall events. The
// registry is a SQLite database under the state directory.
package state

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gimptool/plugman/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Well-known names inside the state directory.
const (
	dbFileName     = "registry.db"
	backupsDirName = "backups"
)

// Registry is the SQLite-backed install registry.
type Registry struct {
	mu       sync.RWMutex
	open     bool
	stateDir string
	db       *sql.DB
}

// Open creates the state directory if needed, opens the registry database
// and applies the schema. Returns ErrAlreadyOpen on a second Open.
func Open(stateDir string) (*Registry, error) {
	r := &Registry{}
	if err := r.openAt(stateDir); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) openAt(stateDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open {
		return types.ErrAlreadyOpen
	}

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(stateDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	r.stateDir = stateDir
	r.db = db
	r.open = true
	return nil
}

// Close releases the database. Idempotent; after Close all operations
// return ErrRegistryClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return err
	}
	r.db = nil
	r.open = false
	return nil
}

// StateDir returns the directory the registry lives in.
func (r *Registry) StateDir() string {
	return r.stateDir
}

// BackupDir returns the directory upgrade backups are written to,
// creating it if needed.
func (r *Registry) BackupDir() (string, error) {
	dir := filepath.Join(r.stateDir, backupsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	return dir, nil
}

// RecordInstall inserts a new install record. The record's ID and
// timestamps are assigned here; State is forced to installed.
func (r *Registry) RecordInstall(inst *types.Install) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return types.ErrRegistryClosed
	}

	now := time.Now().UTC()
	inst.InstallID = generateUUID()
	inst.State = types.InstallStateInstalled
	inst.CreatedAt = now
	inst.UpdatedAt = now

	files, err := json.Marshal(inst.Files)
	if err != nil {
		return fmt.Errorf("marshal file manifest: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO installs
		 (install_id, package_name, version, gimp_version, plugins_dir, files, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.InstallID, inst.PackageName, inst.Version, inst.GIMPVersion,
		inst.PluginsDir, string(files), inst.State,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert install: %w", err)
	}
	return nil
}

// MarkRemoved flips an install record to the removed state.
func (r *Registry) MarkRemoved(installID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return types.ErrRegistryClosed
	}

	res, err := r.db.Exec(
		"UPDATE installs SET state = ?, updated_at = ? WHERE install_id = ?",
		types.InstallStateRemoved, time.Now().UTC().Format(time.RFC3339), installID,
	)
	if err != nil {
		return fmt.Errorf("mark removed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark removed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: install %q", types.ErrNotFound, installID)
	}
	return nil
}

// CurrentInstall returns the installed record for a package in a target
// plug-ins directory. Returns ErrNotFound when nothing is installed there.
func (r *Registry) CurrentInstall(pluginsDir, packageName string) (*types.Install, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.open {
		return nil, types.ErrRegistryClosed
	}

	row := r.db.QueryRow(
		`SELECT install_id, package_name, version, gimp_version, plugins_dir, files, state, created_at, updated_at
		 FROM installs
		 WHERE plugins_dir = ? AND package_name = ? AND state = ?
		 ORDER BY created_at DESC LIMIT 1`,
		pluginsDir, packageName, types.InstallStateInstalled,
	)

	inst, err := scanInstall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s in %s", types.ErrNotFound, packageName, pluginsDir)
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstalls returns install records, newest first. With includeRemoved
// false only currently installed records are returned.
func (r *Registry) ListInstalls(includeRemoved bool) ([]types.Install, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.open {
		return nil, types.ErrRegistryClosed
	}

	query := `SELECT install_id, package_name, version, gimp_version, plugins_dir, files, state, created_at, updated_at
	          FROM installs`
	args := []any{}
	if !includeRemoved {
		query += " WHERE state = ?"
		args = append(args, types.InstallStateInstalled)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query installs: %w", err)
	}
	defer rows.Close()

	var installs []types.Install
	for rows.Next() {
		inst, err := scanInstall(rows)
		if err != nil {
			return nil, err
		}
		installs = append(installs, *inst)
	}
	return installs, rows.Err()
}

// LogEvent appends an audit row for an install record.
func (r *Registry) LogEvent(kind string, inst *types.Install) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return types.ErrRegistryClosed
	}

	_, err := r.db.Exec(
		`INSERT INTO events (event_id, kind, install_id, package_name, version, plugins_dir, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		generateUUID(), kind, inst.InstallID, inst.PackageName, inst.Version,
		inst.PluginsDir, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Events returns the most recent audit rows, newest first. A non-positive
// limit returns everything.
func (r *Registry) Events(limit int) ([]types.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.open {
		return nil, types.ErrRegistryClosed
	}

	query := `SELECT event_id, kind, install_id, package_name, version, plugins_dir, occurred_at
	          FROM events ORDER BY occurred_at DESC, event_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var e types.Event
		var occurredAt string
		if err := rows.Scan(&e.EventID, &e.Kind, &e.InstallID, &e.PackageName,
			&e.Version, &e.PluginsDir, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.OccurredAt, err = time.Parse(time.RFC3339, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse event time: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanInstall reads one install row.
func scanInstall(row rowScanner) (*types.Install, error) {
	var inst types.Install
	var files, createdAt, updatedAt string

	err := row.Scan(&inst.InstallID, &inst.PackageName, &inst.Version,
		&inst.GIMPVersion, &inst.PluginsDir, &files, &inst.State,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(files), &inst.Files); err != nil {
		return nil, fmt.Errorf("unmarshal file manifest: %w", err)
	}
	if inst.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if inst.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &inst, nil
}

// generateUUID generates a UUID v7, falling back to v4 when the clock
// source fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
