package host

import (
	"context"
	"errors"

	"github.com/ivlev/markercraft/internal/annotate"
	"github.com/ivlev/markercraft/internal/marker"
)

// Submit adds m with the duration floor applied. A rejected marker is retried once
// with its color's fallback. The marker actually placed is returned.
func Submit(ctx context.Context, p Provider, title string, m marker.Marker) (marker.Marker, error) {
	m.Duration = annotate.Floor(m.Duration)
	err := p.AddMarker(ctx, title, m)
	if err == nil {
		return m, nil
	}
	fb, ok := m.Color.Fallback()
	if !ok || !errors.Is(err, ErrRejected) {
		return marker.Marker{}, err
	}
	m.Color = fb
	if err := p.AddMarker(ctx, title, m); err != nil {
		return marker.Marker{}, err
	}
	return m, nil
}
