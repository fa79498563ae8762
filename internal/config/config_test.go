package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"MARKERCRAFT_PROJECT", "MARKERCRAFT_JOURNAL", "DEGA_PRINCIPLE_FORCE_RESEED",
		"MARKERCRAFT_FORCE_RESEED", "MARKERCRAFT_FORCE_RETROFIT", "MARKERCRAFT_ADJACENCY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "keyed", cfg.HostShape)
	assert.Equal(t, 29.97, cfg.FrameRate)
	assert.True(t, cfg.EnableAdjacency)
	assert.False(t, cfg.ForceReseed)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "projects", cfg.ProjectsDir)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "markercraft.yaml")
	data := "project: ./p.yaml\nhost_shape: list\nenable_adjacency: false\nforce_retrofit: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./p.yaml", cfg.ProjectPath)
	assert.Equal(t, "list", cfg.HostShape)
	assert.False(t, cfg.EnableAdjacency)
	assert.True(t, cfg.ForceRetrofit)
	assert.Equal(t, 29.97, cfg.FrameRate)
}

func TestLoadRejectsBadShape(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host_shape: tree\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEGA_PRINCIPLE_FORCE_RESEED", "yes")
	t.Setenv("MARKERCRAFT_ADJACENCY", "off")
	t.Setenv("MARKERCRAFT_PROJECT", "/tmp/project.yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.ForceReseed)
	assert.False(t, cfg.EnableAdjacency)
	assert.Equal(t, "/tmp/project.yaml", cfg.ProjectPath)

	t.Setenv("MARKERCRAFT_FORCE_RESEED", "0")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.ForceReseed)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "0", "no", "off", "maybe"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "markercraft.yaml")
	cfg := DefaultConfig()
	cfg.JournalPath = "journal.yaml"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "journal.yaml", loaded.JournalPath)
}
