package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDataFile_Empty(t *testing.T) {
	require.Equal(t, filepath.Join(DataDirName, DefaultDataFile), ResolveDataFile(""))
}

func TestResolveDataFile_ProjectDir(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, filepath.Join(dir, DataDirName, DefaultDataFile), ResolveDataFile(dir))
}

func TestResolveDataFile_DataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), DataDirName)
	require.Equal(t, filepath.Join(dataDir, DefaultDataFile), ResolveDataFile(dataDir))
}

func TestResolveDataFile_ExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "campus.yaml")
	require.Equal(t, file, ResolveDataFile(file))
}

func TestResolveDataFile_FollowsRedirect(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, DataDirName)
	shared := filepath.Join(root, "shared")
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "redirect"), []byte("../shared\n"), 0o600))

	require.Equal(t, filepath.Join(shared, DefaultDataFile), ResolveDataFile(root))
}

func TestResolveDataFile_EmptyRedirectIgnored(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), DataDirName)
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "redirect"), []byte("  \n"), 0o600))

	require.Equal(t, filepath.Join(dataDir, DefaultDataFile), ResolveDataFile(dataDir))
}

func TestStorageKind(t *testing.T) {
	tests := map[string]string{
		"registry.json":   KindJSON,
		"registry.YAML":   KindYAML,
		"registry.yml":    KindYAML,
		"registry.db":     KindSQLite,
		"registry.sqlite": KindSQLite,
		"registry":        KindJSON,
	}
	for path, want := range tests {
		require.Equal(t, want, StorageKind(path), path)
	}
}

func TestResolveStorageKind(t *testing.T) {
	require.Equal(t, KindSQLite, ResolveStorageKind("auto", "x.db"))
	require.Equal(t, KindYAML, ResolveStorageKind("", "x.yml"))
	require.Equal(t, KindJSON, ResolveStorageKind("json", "x.db"))
}
