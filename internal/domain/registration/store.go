package registration

import "context"

// SnapshotStore persists whole-manager snapshots.
// Implementations may use a JSON or YAML file, SQLite, or other backends.
type SnapshotStore interface {
	// Save replaces the stored snapshot with snap as one atomic unit and
	// returns the metadata recorded with it.
	Save(ctx context.Context, snap Snapshot) (SnapshotMeta, error)

	// Load returns the stored snapshot.
	// Returns ErrNoSnapshot if nothing has been saved yet.
	Load(ctx context.Context) (Snapshot, error)

	// Path returns the location of the snapshot file.
	Path() string

	// Kind names the backend (json, yaml, sqlite).
	Kind() string

	// Close releases any resources held by the store.
	Close() error
}
