// Package host defines the timeline provider the engine talks to and normalizes the
// marker listings different host generations return.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ivlev/markercraft/internal/marker"
)

var (
	// ErrTimelineNotFound is returned for a title the project does not contain.
	ErrTimelineNotFound = errors.New("timeline not found")
	// ErrRejected is returned when the host refuses a marker (color, duration, position).
	ErrRejected = errors.New("marker rejected by host")
)

// Provider is the host timeline API. Calls are synchronous and fallible; the engine
// never issues them concurrently.
type Provider interface {
	// Timelines returns the titles of every timeline in the project.
	Timelines(ctx context.Context) ([]string, error)
	// ListMarkers returns either map[int]marker.Marker keyed by position or
	// []marker.Marker in host order, depending on the host generation.
	ListMarkers(ctx context.Context, title string) (any, error)
	AddMarker(ctx context.Context, title string, m marker.Marker) error
	// DeleteMarkerAt removes the marker at the exact position and reports whether
	// one was there.
	DeleteMarkerAt(ctx context.Context, title string, pos int) (bool, error)
	TimelineInfo(ctx context.Context, title string) (fps float64, total int, err error)
}

// Entry is a listed marker with its position made explicit.
type Entry struct {
	Position int
	Marker   marker.Marker
}

// Collect normalizes a ListMarkers result into entries sorted by position.
func Collect(listing any) ([]Entry, error) {
	var out []Entry
	switch v := listing.(type) {
	case nil:
		return nil, nil
	case map[int]marker.Marker:
		out = make([]Entry, 0, len(v))
		for pos, m := range v {
			m.Position = pos
			out = append(out, Entry{Position: pos, Marker: m})
		}
	case []marker.Marker:
		out = make([]Entry, 0, len(v))
		for _, m := range v {
			out = append(out, Entry{Position: m.Position, Marker: m})
		}
	default:
		return nil, fmt.Errorf("unsupported marker listing %T", listing)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// Markers lists and normalizes the markers of one timeline.
func Markers(ctx context.Context, p Provider, title string) ([]marker.Marker, error) {
	listing, err := p.ListMarkers(ctx, title)
	if err != nil {
		return nil, err
	}
	entries, err := Collect(listing)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	ms := make([]marker.Marker, len(entries))
	for i, e := range entries {
		ms[i] = e.Marker
	}
	return ms, nil
}

// Snapshot reads a full timeline: info plus normalized markers.
func Snapshot(ctx context.Context, p Provider, title string) (marker.Timeline, error) {
	fps, total, err := p.TimelineInfo(ctx, title)
	if err != nil {
		return marker.Timeline{}, err
	}
	ms, err := Markers(ctx, p, title)
	if err != nil {
		return marker.Timeline{}, err
	}
	return marker.Timeline{Title: title, FrameRate: fps, TotalDuration: total, Markers: ms}, nil
}

// SnapshotAll reads every timeline in the project. A timeline that cannot be read is
// reported through onErr and left out.
func SnapshotAll(ctx context.Context, p Provider, onErr func(title string, err error)) ([]marker.Timeline, error) {
	titles, err := p.Timelines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]marker.Timeline, 0, len(titles))
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		tl, err := Snapshot(ctx, p, title)
		if err != nil {
			if onErr != nil {
				onErr(title, err)
			}
			continue
		}
		out = append(out, tl)
	}
	return out, nil
}
