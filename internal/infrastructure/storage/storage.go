// Package storage opens the snapshot store for a configured backend.
package storage

import (
	"fmt"

	"github.com/zjrosen/registrar/internal/domain/registration"
	"github.com/zjrosen/registrar/internal/infrastructure/filestore"
	"github.com/zjrosen/registrar/internal/infrastructure/sqlite"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/paths"
)

// Open returns the snapshot store for kind at path.
// An empty or "auto" kind is derived from the file extension.
func Open(kind, path string) (registration.SnapshotStore, error) {
	kind = paths.ResolveStorageKind(kind, path)
	log.Debug(log.CatStore, "Opening snapshot store", "kind", kind, "path", path)

	switch kind {
	case paths.KindJSON:
		return filestore.NewJSON(path), nil
	case paths.KindYAML:
		return filestore.NewYAML(path), nil
	case paths.KindSQLite:
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown storage kind %q (want json, yaml or sqlite)", kind)
	}
}
