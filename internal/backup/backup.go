// Package backup preserves pristine copies of files before the engine
// writes to them, and restores them byte for byte on rollback.
//
// The contract is fail-closed: a write may only proceed after Snapshot
// returns a handle, so a failed snapshot can never leave a file without a
// recovery path.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Handle identifies one snapshot and where it lives on disk.
type Handle struct {
	// Source is the path the snapshot was taken from.
	Source string `json:"source"`

	// Path is where the snapshot bytes are stored.
	Path string `json:"path"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
}

// Manager stores snapshots under a single directory.
type Manager struct {
	dir string
}

// NewManager creates the snapshot directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string { return m.dir }

// Snapshot copies path into the snapshot directory and returns a handle.
// Each snapshot gets a unique name, so repeated snapshots of the same
// file never overwrite each other.
func (m *Manager) Snapshot(path string) (Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Handle{}, fmt.Errorf("reading file for backup: %w", err)
	}

	name := fmt.Sprintf("%s.%s.bak", filepath.Base(path), uuid.NewString())
	dest := filepath.Join(m.dir, name)

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return Handle{}, fmt.Errorf("writing backup: %w", err)
	}

	// Verify before handing out the handle: a handle that cannot restore
	// is worse than an error now.
	check, err := os.ReadFile(dest)
	if err != nil || string(check) != string(data) {
		return Handle{}, fmt.Errorf("backup verification failed for %s", path)
	}

	h := Handle{Source: path, Path: dest, CreatedAt: time.Now()}

	// A sidecar carries the handle so a later process can restore from
	// the snapshot path alone.
	meta, err := json.Marshal(h)
	if err != nil {
		return Handle{}, fmt.Errorf("encoding backup metadata: %w", err)
	}
	if err := os.WriteFile(dest+".json", meta, 0o644); err != nil {
		return Handle{}, fmt.Errorf("writing backup metadata: %w", err)
	}

	return h, nil
}

// Lookup reconstructs the handle for a snapshot file from its sidecar
// metadata. path may name either the snapshot or the sidecar itself.
func Lookup(path string) (Handle, error) {
	meta := path
	if !strings.HasSuffix(meta, ".json") {
		meta += ".json"
	}
	data, err := os.ReadFile(meta)
	if err != nil {
		return Handle{}, fmt.Errorf("reading backup metadata: %w", err)
	}

	var h Handle
	if err := json.Unmarshal(data, &h); err != nil {
		return Handle{}, fmt.Errorf("decoding backup metadata %s: %w", meta, err)
	}
	if h.Source == "" || h.Path == "" {
		return Handle{}, fmt.Errorf("backup metadata %s is incomplete", meta)
	}
	if _, err := os.Stat(h.Path); err != nil {
		return Handle{}, fmt.Errorf("snapshot missing for %s: %w", meta, err)
	}
	return h, nil
}

// Restore writes the snapshot bytes back to the source path. Restoring
// the same handle repeatedly converges on the same content.
func Restore(h Handle) error {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", h.Path, err)
	}
	if err := os.WriteFile(h.Source, data, 0o644); err != nil {
		return fmt.Errorf("restoring %s: %w", h.Source, err)
	}
	return nil
}

// Restore writes the snapshot bytes back to the source path.
func (m *Manager) Restore(h Handle) error {
	return Restore(h)
}

// Exists reports whether the snapshot bytes are still on disk.
func (m *Manager) Exists(h Handle) bool {
	info, err := os.Stat(h.Path)
	return err == nil && info.Mode().IsRegular()
}
