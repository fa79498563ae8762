package manifest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/markercraft/internal/marker"
)

func sampleTimelines() []marker.Timeline {
	return []marker.Timeline{
		{
			Title:     "Money Master — 12s",
			FrameRate: 29.97,
			Markers: []marker.Marker{
				{Position: 348, Duration: 12, Color: marker.Yellow, Label: "LOOP / CTA", Note: "n2"},
				{Position: 0, Duration: 89, Color: marker.Red, Label: "HOOK", Note: "n1"},
			},
		},
		{
			Title: "Segment — Hook Performance",
			Markers: []marker.Marker{
				{Position: 8961, Duration: 1, Color: marker.Blue, Label: "⏱ 5min anchor"},
			},
		},
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		frame int
		fps   float64
		want  string
	}{
		{0, 29.97, "00:00:00:00"},
		{30, 30, "00:00:01:00"},
		{45, 30, "00:00:01:15"},
		{8961, 29.97, "00:04:59:00"},
		{599, 29.97, "00:00:20:00"},
		{598, 29.97, "00:00:19:29"},
		{29, 29.97, "00:00:00:29"},
		{108000, 30, "01:00:00:00"},
		{17, 0, "17"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Timecode(tt.frame, tt.fps), "frame %d @ %v", tt.frame, tt.fps)
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	m := Build("DEGA_VERT", 29.97, sampleTimelines(), now)

	assert.Equal(t, Schema, m.Schema)
	assert.Equal(t, "2026-02-13T10:00:00Z", m.GeneratedAt)
	assert.Equal(t, 3, m.MarkersTotal)
	assert.Equal(t, map[string]int{"12s": 2, "22s": 0, "30s": 0}, m.TierCounts)

	require.Len(t, m.Timelines, 2)
	first := m.Timelines[0]
	assert.Equal(t, 2, first.MarkerCount)
	assert.Equal(t, 0, first.Markers[0].Frame)
	assert.Equal(t, "HOOK", first.Markers[0].Name)
	assert.Equal(t, 29.97, m.Timelines[1].FrameRate)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "markers.json")
	m := Build("p", 29.97, sampleTimelines(), time.Now())
	require.NoError(t, Write(path, m))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, m.MarkersTotal, back.MarkersTotal)
	assert.Equal(t, m.Timelines[0].Markers, back.Timelines[0].Markers)
}

func TestVerify(t *testing.T) {
	m := Build("p", 29.97, sampleTimelines(), time.Now())

	t.Run("clean", func(t *testing.T) {
		details := Verify(m, sampleTimelines(), 0)
		for _, d := range details {
			assert.Equal(t, OK, d.Status, d.Timeline)
		}
	})

	t.Run("drift within tolerance", func(t *testing.T) {
		tls := sampleTimelines()
		tls[0].Markers[0].Position = 349
		details := Verify(m, tls, 2)
		assert.Equal(t, Warning, details[0].Status)
		assert.Contains(t, details[0].Warnings[0], "frame drift 1")
	})

	t.Run("drift beyond tolerance", func(t *testing.T) {
		tls := sampleTimelines()
		tls[0].Markers[0].Position = 360
		details := Verify(m, tls, 2)
		assert.Equal(t, Error, details[0].Status)
		errs, warns := Totals(details)
		assert.Equal(t, 1, errs)
		assert.Equal(t, 1, warns) // the moved marker is now an extra
	})

	t.Run("missing timeline", func(t *testing.T) {
		details := Verify(m, sampleTimelines()[:1], 0)
		assert.Equal(t, Error, details[1].Status)
	})

	t.Run("field mismatch", func(t *testing.T) {
		tls := sampleTimelines()
		tls[0].Markers[1].Color = marker.Pink
		details := Verify(m, tls, 0)
		assert.Equal(t, Warning, details[0].Status)
		assert.Equal(t, []string{`color mismatch for "HOOK"`}, details[0].Warnings)
	})
}
