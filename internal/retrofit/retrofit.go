// Package retrofit walks every timeline of a project and adds the guidance line to
// markers that do not carry one yet. It is safe to run repeatedly.
package retrofit

import (
	"context"

	"go.uber.org/zap"

	"github.com/ivlev/markercraft/internal/annotate"
	"github.com/ivlev/markercraft/internal/classify"
	"github.com/ivlev/markercraft/internal/guidance"
	"github.com/ivlev/markercraft/internal/host"
	"github.com/ivlev/markercraft/internal/logging"
	"github.com/ivlev/markercraft/internal/marker"
)

// Result counts the outcome of one walk.
type Result struct {
	Timelines     int
	Updated       int
	Skipped       int // removal found no marker at the position
	Failed        int // re-add failed after the color fallback
	Collisions    int // shares its position with another marker; left as is
	AlreadyTagged int
	ListErrors    int
	Recovered     int
}

// Add folds o into r.
func (r *Result) Add(o Result) {
	r.Timelines += o.Timelines
	r.Updated += o.Updated
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Collisions += o.Collisions
	r.AlreadyTagged += o.AlreadyTagged
	r.ListErrors += o.ListErrors
	r.Recovered += o.Recovered
}

// Walker updates marker notes in place through a host provider.
type Walker struct {
	Host     host.Provider
	Resolver *guidance.Resolver
	// Force re-resolves guidance on tagged markers and replaces the line when it changed.
	Force bool
	// Journal, when set, records each replace so an interrupted one can be recovered.
	Journal *Journal

	log *zap.Logger
}

func NewWalker(p host.Provider, r *guidance.Resolver, log *zap.Logger) *Walker {
	return &Walker{Host: p, Resolver: r, log: logging.OrNop(log)}
}

type outcome int

const (
	updated outcome = iota
	skipped
	failed
)

// Run walks the given timelines, or every timeline in the project when titles is nil.
// Per-marker and per-timeline problems are logged and counted; only a failure to
// enumerate timelines or a cancelled context is returned.
func (w *Walker) Run(ctx context.Context, titles []string) (Result, error) {
	var res Result
	if w.Journal != nil {
		n, err := w.Recover(ctx)
		res.Recovered = n
		if err != nil {
			return res, err
		}
	}
	if titles == nil {
		var err error
		titles, err = w.Host.Timelines(ctx)
		if err != nil {
			return res, err
		}
	}
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Add(w.Timeline(ctx, title))
	}
	w.log.Info("retrofit complete",
		zap.Int("timelines", res.Timelines),
		zap.Int("updated", res.Updated),
		zap.Int("already_tagged", res.AlreadyTagged),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Int("collisions", res.Collisions))
	return res, nil
}

// Timeline retrofits a single timeline.
func (w *Walker) Timeline(ctx context.Context, title string) Result {
	res := Result{Timelines: 1}
	log := w.log.With(zap.String("timeline", title))

	listing, err := w.Host.ListMarkers(ctx, title)
	if err != nil {
		log.Warn("list markers failed", zap.Error(err))
		res.ListErrors++
		return res
	}
	entries, err := host.Collect(listing)
	if err != nil {
		log.Warn("unreadable marker listing", zap.Error(err))
		res.ListErrors++
		return res
	}

	// Removal is by position, so a replace at a shared position could take out the
	// wrong marker. Those are left for the collision check.
	atPos := make(map[int]int, len(entries))
	for _, e := range entries {
		atPos[e.Position]++
	}

	tc := classify.Classify(title)
	for _, e := range entries {
		m := e.Marker
		if atPos[e.Position] > 1 {
			log.Warn("position shared by several markers, leaving untouched",
				zap.Int("position", e.Position), zap.String("label", m.Label))
			res.Collisions++
			continue
		}
		tagged := annotate.Tagged(m.Note)
		if tagged && !w.Force {
			res.AlreadyTagged++
			continue
		}

		r := w.Resolver.ResolveLabel(tc, m.Label)
		if r.Fallback {
			log.Debug("role fell back", zap.String("label", m.Label), zap.String("role", r.Role))
		}
		note := annotate.Annotate(m.Note, r.Text)
		if tagged {
			note = annotate.Retag(m.Note, r.Text)
		}
		if note == m.Note {
			res.AlreadyTagged++
			continue
		}

		switch w.replace(ctx, log, title, e.Position, m, note) {
		case updated:
			res.Updated++
		case skipped:
			res.Skipped++
		case failed:
			res.Failed++
		}
	}
	return res
}

// replace removes the marker at pos and re-adds it with the new note.
func (w *Walker) replace(ctx context.Context, log *zap.Logger, title string, pos int, m marker.Marker, note string) outcome {
	log = log.With(zap.Int("position", pos), zap.String("label", m.Label))
	m.Position = pos

	var id string
	if w.Journal != nil {
		var err error
		if id, err = w.Journal.Begin(title, m, note); err != nil {
			log.Warn("journal write failed", zap.Error(err))
			return failed
		}
	}

	removed, err := w.Host.DeleteMarkerAt(ctx, title, pos)
	if err != nil || !removed {
		log.Warn("marker not removed, skipping", zap.Bool("found", removed), zap.Error(err))
		w.done(log, id)
		return skipped
	}

	next := m
	next.Note = note
	placed, err := host.Submit(ctx, w.Host, title, next)
	if err != nil {
		log.Error("re-add failed, marker is missing", zap.String("color", string(m.Color)), zap.Error(err))
		return failed
	}
	if placed.Color != m.Color {
		log.Debug("re-added with fallback color", zap.String("color", string(placed.Color)))
	}
	w.done(log, id)
	return updated
}

func (w *Walker) done(log *zap.Logger, id string) {
	if w.Journal == nil || id == "" {
		return
	}
	if err := w.Journal.Done(id); err != nil {
		log.Warn("journal clear failed", zap.Error(err))
	}
}

// Recover re-creates markers whose replace was interrupted between removal and
// re-add. It returns the number of markers restored.
func (w *Walker) Recover(ctx context.Context) (int, error) {
	if w.Journal == nil {
		return 0, nil
	}
	restored := 0
	for _, e := range w.Journal.Pending() {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		log := w.log.With(zap.String("timeline", e.Timeline), zap.Int("position", e.Original.Position))

		ms, err := host.Markers(ctx, w.Host, e.Timeline)
		if err != nil {
			log.Warn("recover: list markers failed", zap.Error(err))
			continue
		}
		if !occupied(ms, e.Original.Position) {
			if _, err := host.Submit(ctx, w.Host, e.Timeline, e.Replacement()); err != nil {
				log.Error("recover: re-add failed", zap.Error(err))
				continue
			}
			restored++
			log.Info("recovered interrupted replace", zap.String("label", e.Original.Label))
		}
		w.done(log, e.ID)
	}
	return restored, nil
}

func occupied(ms []marker.Marker, pos int) bool {
	for _, m := range ms {
		if m.Position == pos {
			return true
		}
	}
	return false
}
