// Package filestore persists registration snapshots as a single JSON or YAML file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/registrar/internal/domain/registration"
	"github.com/zjrosen/registrar/internal/log"
)

// Store implements registration.SnapshotStore on top of one file.
type Store struct {
	path  string
	codec Codec
	now   func() time.Time
}

// Ensure Store implements registration.SnapshotStore.
var _ registration.SnapshotStore = (*Store)(nil)

// New creates a store for path using codec.
func New(path string, codec Codec) *Store {
	return &Store{path: filepath.Clean(path), codec: codec, now: time.Now}
}

// NewJSON creates a JSON snapshot store.
func NewJSON(path string) *Store {
	return New(path, JSONCodec{})
}

// NewYAML creates a YAML snapshot store.
func NewYAML(path string) *Store {
	return New(path, YAMLCodec{})
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Kind returns the codec name.
func (s *Store) Kind() string {
	return s.codec.Kind()
}

// BackupPath returns where the previous snapshot is kept after a save.
func (s *Store) BackupPath() string {
	return s.path + ".bak"
}

// Save writes snap atomically. The snapshot it replaces, if any, is kept at BackupPath.
func (s *Store) Save(ctx context.Context, snap registration.Snapshot) (registration.SnapshotMeta, error) {
	if err := ctx.Err(); err != nil {
		return registration.SnapshotMeta{}, err
	}

	meta := registration.SnapshotMeta{
		ID:      uuid.NewString(),
		Version: SchemaVersion,
		SavedAt: s.now().UTC(),
	}
	data, err := s.codec.Marshal(toDocument(snap, meta))
	if err != nil {
		return registration.SnapshotMeta{}, fmt.Errorf("encoding %s snapshot: %w", s.codec.Kind(), err)
	}

	if err := s.backup(); err != nil {
		log.ErrorErr(log.CatStore, "Failed to back up snapshot", err, "path", s.path)
		return registration.SnapshotMeta{}, err
	}
	if err := writeAtomic(s.path, data); err != nil {
		log.ErrorErr(log.CatStore, "Failed to write snapshot", err, "path", s.path)
		return registration.SnapshotMeta{}, err
	}

	log.Info(log.CatStore, "Saved snapshot", "path", s.path, "kind", s.codec.Kind(), "snapshot_id", meta.ID, "bytes", len(data))
	return meta, nil
}

// Load reads and decodes the snapshot file.
// Returns registration.ErrNoSnapshot when the file does not exist.
func (s *Store) Load(ctx context.Context) (registration.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return registration.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return registration.Snapshot{}, registration.ErrNoSnapshot
	}
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var doc document
	if err := s.codec.Unmarshal(data, &doc); err != nil {
		return registration.Snapshot{}, fmt.Errorf("decoding %s snapshot %s: %w", s.codec.Kind(), s.path, err)
	}
	snap, err := doc.toDomain()
	if err != nil {
		return registration.Snapshot{}, fmt.Errorf("snapshot %s: %w", s.path, err)
	}

	log.Debug(log.CatStore, "Loaded snapshot", "path", s.path, "snapshot_id", snap.Meta.ID,
		"students", len(snap.Students), "courses", len(snap.Courses), "enrollments", len(snap.Enrollments))
	return snap, nil
}

// Close is a no-op; the file is only open during Save and Load.
func (s *Store) Close() error {
	return nil
}

// backup copies the current snapshot file, if any, to BackupPath.
func (s *Store) backup() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading previous snapshot: %w", err)
	}
	if err := os.WriteFile(s.BackupPath(), data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot backup: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the target directory and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".registrar.snapshot.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
