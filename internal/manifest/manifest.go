// Package manifest exports the markers of a project to a JSON document and checks a
// project against a previously exported one.
package manifest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/markercraft/internal/classify"
	"github.com/ivlev/markercraft/internal/marker"
)

const (
	SchemaVersion = "1.0"
	Schema        = "markercraft.markers/v1"
)

type Manifest struct {
	SchemaVersion string         `json:"schema_version"`
	Schema        string         `json:"schema"`
	GeneratedAt   string         `json:"generated_at"`
	ProjectName   string         `json:"project_name"`
	FPS           float64        `json:"fps"`
	TierCounts    map[string]int `json:"tier_counts"`
	MarkersTotal  int            `json:"markers_total"`
	Timelines     []Timeline     `json:"timelines"`
}

type Timeline struct {
	Name        string   `json:"name"`
	FrameRate   float64  `json:"frame_rate"`
	MarkerCount int      `json:"marker_count"`
	Markers     []Marker `json:"markers"`
}

type Marker struct {
	Frame    int          `json:"frame_id"`
	Timecode string       `json:"timecode"`
	Name     string       `json:"name"`
	Note     string       `json:"note"`
	Color    marker.Color `json:"color"`
	Duration int          `json:"duration"`
}

// Build assembles a manifest. Tier counts cover every base tier, including empty
// ones, and count markers on timelines whose title names the tier explicitly.
func Build(project string, fps float64, timelines []marker.Timeline, now time.Time) *Manifest {
	m := &Manifest{
		SchemaVersion: SchemaVersion,
		Schema:        Schema,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		ProjectName:   project,
		FPS:           fps,
		TierCounts:    make(map[string]int),
	}
	for _, t := range classify.Tiers {
		m.TierCounts[string(t)] = 0
	}

	for _, tl := range timelines {
		rate := tl.FrameRate
		if rate <= 0 {
			rate = fps
		}
		entry := Timeline{Name: tl.Title, FrameRate: rate, Markers: make([]Marker, 0, len(tl.Markers))}
		for _, mk := range marker.SortByPosition(tl.Markers) {
			entry.Markers = append(entry.Markers, Marker{
				Frame:    mk.Position,
				Timecode: Timecode(mk.Position, rate),
				Name:     mk.Label,
				Note:     mk.Note,
				Color:    mk.Color,
				Duration: mk.Duration,
			})
		}
		entry.MarkerCount = len(entry.Markers)
		m.MarkersTotal += entry.MarkerCount
		if tier, ok := explicitTier(tl.Title); ok {
			m.TierCounts[string(tier)] += entry.MarkerCount
		}
		m.Timelines = append(m.Timelines, entry)
	}
	return m
}

func explicitTier(title string) (classify.Tier, bool) {
	t := classify.Normalize(title)
	for _, tier := range classify.Tiers {
		if strings.Contains(t, string(tier)) {
			return tier, true
		}
	}
	return "", false
}

// Timecode renders a frame offset as HH:MM:SS:FF. A non-positive rate yields the bare
// frame number.
func Timecode(frame int, fps float64) string {
	if fps <= 0 {
		return fmt.Sprintf("%d", frame)
	}
	total := float64(frame) / fps
	whole := math.Floor(total)
	ff := int(math.Round((total - whole) * fps))
	// A fraction that rounds up to a full second belongs to the next one.
	if ff >= int(math.Round(fps)) {
		ff = 0
		whole++
	}
	h := int(whole) / 3600
	m := int(whole) % 3600 / 60
	s := int(whole) % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, ff)
}

// Write stores m as indented JSON, creating the parent directory.
func Write(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Status of a verified timeline
type Status string

const (
	OK      Status = "ok"
	Warning Status = "warning"
	Error   Status = "error"
)

// Detail is the verification outcome for one manifest timeline.
type Detail struct {
	Timeline string   `json:"timeline"`
	Status   Status   `json:"status"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Verify compares the manifest with the current timelines. A marker may sit up to
// tolerance frames away from its recorded frame; drift is a warning, absence an error.
func Verify(m *Manifest, timelines []marker.Timeline, tolerance int) []Detail {
	byTitle := make(map[string]marker.Timeline, len(timelines))
	for _, tl := range timelines {
		byTitle[tl.Title] = tl
	}

	out := make([]Detail, 0, len(m.Timelines))
	for _, want := range m.Timelines {
		tl, ok := byTitle[want.Name]
		if !ok {
			out = append(out, Detail{Timeline: want.Name, Status: Error, Errors: []string{"timeline not found in project"}})
			continue
		}
		out = append(out, compare(want, tl, tolerance))
	}
	return out
}

func compare(want Timeline, tl marker.Timeline, tolerance int) Detail {
	d := Detail{Timeline: want.Name}
	actual := make(map[int][]marker.Marker)
	for _, mk := range tl.Markers {
		actual[mk.Position] = append(actual[mk.Position], mk)
	}

	for _, exp := range want.Markers {
		got, ok := popNearest(actual, exp.Frame, tolerance)
		if !ok {
			d.Errors = append(d.Errors, fmt.Sprintf("missing marker at frame %d (%q)", exp.Frame, exp.Name))
			continue
		}
		if off := got.Position - exp.Frame; off != 0 {
			d.Warnings = append(d.Warnings, fmt.Sprintf("frame drift %d for %q (expected %d, got %d)", abs(off), exp.Name, exp.Frame, got.Position))
		}
		for _, f := range diffFields(exp, got) {
			d.Warnings = append(d.Warnings, fmt.Sprintf("%s mismatch for %q", f, exp.Name))
		}
	}

	extra := 0
	for _, ms := range actual {
		extra += len(ms)
	}
	if extra > 0 {
		d.Warnings = append(d.Warnings, fmt.Sprintf("%d markers not present in manifest", extra))
	}

	switch {
	case len(d.Errors) > 0:
		d.Status = Error
	case len(d.Warnings) > 0:
		d.Status = Warning
	default:
		d.Status = OK
	}
	return d
}

// popNearest removes and returns the marker closest to frame within tolerance,
// preferring the earlier frame on ties.
func popNearest(actual map[int][]marker.Marker, frame, tolerance int) (marker.Marker, bool) {
	for delta := 0; delta <= tolerance; delta++ {
		candidates := []int{frame - delta, frame + delta}
		if delta == 0 {
			candidates = candidates[:1]
		}
		for _, f := range candidates {
			if ms := actual[f]; len(ms) > 0 {
				actual[f] = ms[1:]
				if len(actual[f]) == 0 {
					delete(actual, f)
				}
				return ms[0], true
			}
		}
	}
	return marker.Marker{}, false
}

func diffFields(exp Marker, got marker.Marker) []string {
	var out []string
	if exp.Name != got.Label {
		out = append(out, "name")
	}
	if exp.Note != got.Note {
		out = append(out, "note")
	}
	if exp.Color != got.Color {
		out = append(out, "color")
	}
	if exp.Duration != got.Duration {
		out = append(out, "duration")
	}
	return out
}

// Totals sums errors and warnings across details.
func Totals(details []Detail) (errs, warns int) {
	for _, d := range details {
		errs += len(d.Errors)
		warns += len(d.Warnings)
	}
	return errs, warns
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
