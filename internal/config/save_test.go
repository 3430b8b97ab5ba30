package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type savedFile struct {
	DataFile string          `yaml:"data_file"`
	Storage  string          `yaml:"storage"`
	Flags    map[string]bool `yaml:"flags"`
}

func readSaved(t *testing.T, path string) (savedFile, string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out savedFile
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out, string(data)
}

func TestSaveFlag_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveFlag(path, "autosave", true))

	saved, _ := readSaved(t, path)
	require.Equal(t, map[string]bool{"autosave": true}, saved.Flags)
}

func TestSaveFlag_PreservesOtherSettingsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveFlag(path, "autosave", true))
	require.NoError(t, SaveFlag(path, "autosave", false))

	saved, raw := readSaved(t, path)
	require.Equal(t, "auto", saved.Storage)
	require.Equal(t, map[string]bool{"autosave": false}, saved.Flags)
	require.True(t, strings.HasPrefix(raw, "# Registrar Configuration"))
	require.Equal(t, 1, strings.Count(raw, "autosave: false"))
}

func TestSaveFlag_ReplacesScalarFlagsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flags: nope\nstorage: json\n"), 0o600))

	require.NoError(t, SaveFlag(path, "autosave", true))

	saved, _ := readSaved(t, path)
	require.Equal(t, "json", saved.Storage)
	require.True(t, saved.Flags["autosave"])
}

func TestSaveDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: yaml\ndata_file: old.yaml\n"), 0o600))

	require.NoError(t, SaveDataFile(path, "new.yaml"))

	saved, _ := readSaved(t, path)
	require.Equal(t, "new.yaml", saved.DataFile)
	require.Equal(t, "yaml", saved.Storage)
}

func TestSave_RejectsNonMappingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.Error(t, SaveFlag(path, "autosave", true))
}

func TestSave_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flags: [unclosed\n"), 0o600))

	err := SaveFlag(path, "autosave", true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}
