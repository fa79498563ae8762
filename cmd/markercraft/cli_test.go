package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivlev/markercraft/internal/annotate"
	"github.com/ivlev/markercraft/internal/config"
	"github.com/ivlev/markercraft/internal/host"
	"github.com/ivlev/markercraft/internal/manifest"
	"github.com/ivlev/markercraft/internal/marker"
)

func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dega.yaml")
	p := &host.Project{
		Name:      "DEGA_VERT",
		FrameRate: 29.97,
		Timelines: []marker.Timeline{
			{Title: "Money Master — 22s", TotalDuration: 660},
			{Title: "Interview — Guest"},
			{Title: "B-Roll", Markers: []marker.Marker{{Position: 10, Duration: 5, Color: marker.Green, Label: "DEVELOP"}}},
		},
	}
	require.NoError(t, host.WriteProject(p, path))
	return path
}

func useConfig(t *testing.T, project string) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.ProjectPath = project
	t.Cleanup(func() { cfg = nil })
}

func TestBuildCommandPersistsMarkers(t *testing.T) {
	path := writeProject(t)
	useConfig(t, path)
	cfg.ManifestPath = filepath.Join(t.TempDir(), "markers.json")

	require.NoError(t, runBuild(&cobra.Command{}, nil))

	saved, err := host.ReadProject(path)
	require.NoError(t, err)
	require.Len(t, saved.Timelines, 3)
	assert.Len(t, saved.Timelines[0].Markers, 9)
	assert.Len(t, saved.Timelines[1].Markers, 4)
	for _, tl := range saved.Timelines {
		for _, m := range tl.Markers {
			assert.True(t, annotate.Tagged(m.Note), "%s @%d", tl.Title, m.Position)
		}
	}

	m, err := manifest.Read(cfg.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, 14, m.MarkersTotal)

	require.NoError(t, runVerify(&cobra.Command{}, []string{cfg.ManifestPath}))
}

func TestRetrofitCommandIsIdempotent(t *testing.T) {
	path := writeProject(t)
	useConfig(t, path)
	cfg.HostShape = "list"

	require.NoError(t, runRetrofit(&cobra.Command{}, nil))
	first, err := host.ReadProject(path)
	require.NoError(t, err)

	require.NoError(t, runRetrofit(&cobra.Command{}, nil))
	second, err := host.ReadProject(path)
	require.NoError(t, err)

	assert.Equal(t, first.Timelines[2].Markers, second.Timelines[2].Markers)
	assert.Empty(t, second.Timelines[0].Markers, "retrofit never seeds")
}

func TestValidateAndExportCommands(t *testing.T) {
	path := writeProject(t)
	useConfig(t, path)

	require.NoError(t, runValidate(&cobra.Command{}, nil))

	out := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, runExport(&cobra.Command{}, []string{out}))
	m, err := manifest.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 1, m.MarkersTotal)
	assert.Equal(t, "DEGA_VERT", m.ProjectName)
}

func TestOpenProjectWithoutFiles(t *testing.T) {
	useConfig(t, "")
	cfg.ProjectsDir = t.TempDir()

	_, _, err := openProject()
	assert.Error(t, err)
}
