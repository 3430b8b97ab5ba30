// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DataDirName is the per-project directory holding registrar state.
	DataDirName = ".registrar"
	// DefaultDataFile is the snapshot file name used inside DataDirName.
	DefaultDataFile = "registry.json"
)

// Storage kinds understood by the snapshot store factory.
const (
	KindJSON   = "json"
	KindYAML   = "yaml"
	KindSQLite = "sqlite"
)

// ResolveDataFile resolves the snapshot file path from user input.
//
// Input normalization:
//   - "" -> "./.registrar/registry.json"
//   - "/path/to/project" (an existing directory) -> "/path/to/project/.registrar/registry.json"
//   - "/path/to/project/.registrar" -> "/path/to/project/.registrar/registry.json"
//   - "/path/to/file.yaml" -> "/path/to/file.yaml"
//
// Redirect handling:
//   - If .registrar/redirect exists, its contents name the directory to use instead
//   - This lets several checkouts share one registry
func ResolveDataFile(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) == DataDirName {
		return filepath.Join(followRedirect(path), DefaultDataFile)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(followRedirect(filepath.Join(path, DataDirName)), DefaultDataFile)
	}

	return path
}

// followRedirect checks for a redirect file and follows it if present.
func followRedirect(dataDir string) string {
	redirectPath := filepath.Join(dataDir, "redirect")

	content, err := os.ReadFile(redirectPath) //nolint:gosec // redirect path is within the data dir
	if err != nil {
		return dataDir
	}

	redirectTarget := strings.TrimSpace(string(content))
	if redirectTarget == "" {
		return dataDir
	}
	if filepath.IsAbs(redirectTarget) {
		return filepath.Clean(redirectTarget)
	}
	return filepath.Clean(filepath.Join(dataDir, redirectTarget))
}

// StorageKind picks a backend from the file extension.
// Unknown extensions use JSON.
func StorageKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindJSON
	}
}

// ResolveStorageKind returns configured unless it is empty or "auto",
// in which case the kind is derived from path.
func ResolveStorageKind(configured, path string) string {
	if configured == "" || configured == "auto" {
		return StorageKind(path)
	}
	return configured
}
