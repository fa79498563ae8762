package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivlev/markercraft/internal/adjacency"
	"github.com/ivlev/markercraft/internal/annotate"
	"github.com/ivlev/markercraft/internal/catalog"
	"github.com/ivlev/markercraft/internal/classify"
	"github.com/ivlev/markercraft/internal/config"
	"github.com/ivlev/markercraft/internal/guidance"
	"github.com/ivlev/markercraft/internal/host"
	"github.com/ivlev/markercraft/internal/logging"
	"github.com/ivlev/markercraft/internal/manifest"
	"github.com/ivlev/markercraft/internal/marker"
	"github.com/ivlev/markercraft/internal/retrofit"
	"github.com/ivlev/markercraft/internal/system"
	"github.com/ivlev/markercraft/internal/validate"
)

type Project struct {
	Config   *config.Config
	Host     host.Provider
	Catalog  *catalog.Catalog
	Resolver *guidance.Resolver
	Journal  *retrofit.Journal
	log      *zap.Logger
}

func NewProject(cfg *config.Config, p host.Provider, cat *catalog.Catalog, r *guidance.Resolver, log *zap.Logger) *Project {
	return &Project{
		Config:   cfg,
		Host:     p,
		Catalog:  cat,
		Resolver: r,
		log:      logging.OrNop(log),
	}
}

// BuildResult counts the outcome of a seeding pass.
type BuildResult struct {
	Timelines  int
	Seeded     int // timelines that received markers
	Existing   int // skipped because markers were already present
	NoTemplate int
	Added      int
	Removed    int
	Failed     int
	Errors     int // timelines that could not be read
}

func (r *BuildResult) add(o BuildResult) {
	r.Timelines += o.Timelines
	r.Seeded += o.Seeded
	r.Existing += o.Existing
	r.NoTemplate += o.NoTemplate
	r.Added += o.Added
	r.Removed += o.Removed
	r.Failed += o.Failed
	r.Errors += o.Errors
}

// Run executes the full pass: seed, retrofit, validate. The report is printed when
// stats are enabled.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	rep := &Report{RunID: uuid.NewString(), Started: time.Now(), Build: p.Config.BuildVersion}

	var err error
	if rep.Seed, err = p.Build(ctx); err != nil {
		return rep, fmt.Errorf("build: %w", err)
	}
	if rep.Retrofit, err = p.Retrofit(ctx); err != nil {
		return rep, fmt.Errorf("retrofit: %w", err)
	}
	if rep.Warnings, err = p.Validate(ctx); err != nil {
		return rep, fmt.Errorf("validate: %w", err)
	}
	rep.Elapsed = time.Since(rep.Started)

	if p.Config.ShowStats {
		p.attachStats(rep)
		fmt.Print(rep.String())
		p.appendRunLog(rep)
	}
	return rep, nil
}

// Build seeds every timeline that has a template and no markers yet.
func (p *Project) Build(ctx context.Context) (BuildResult, error) {
	var res BuildResult
	titles, err := p.Host.Timelines(ctx)
	if err != nil {
		return res, err
	}

	p.log.Info("seeding markers", zap.Int("timelines", len(titles)), zap.Bool("force_reseed", p.Config.ForceReseed))
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.add(p.Seed(ctx, title))
	}
	p.log.Info("seeding complete",
		zap.Int("seeded", res.Seeded),
		zap.Int("added", res.Added),
		zap.Int("existing", res.Existing),
		zap.Int("failed", res.Failed))
	return res, nil
}

// Seed places the planned markers on one timeline.
func (p *Project) Seed(ctx context.Context, title string) BuildResult {
	res := BuildResult{Timelines: 1}
	log := p.log.With(zap.String("timeline", title))

	fps, _, err := p.Host.TimelineInfo(ctx, title)
	if err != nil {
		log.Warn("timeline info failed", zap.Error(err))
		res.Errors++
		return res
	}
	if fps <= 0 {
		fps = p.Config.FrameRate
	}

	existing, err := host.Markers(ctx, p.Host, title)
	if err != nil {
		log.Warn("list markers failed", zap.Error(err))
		res.Errors++
		return res
	}
	if len(existing) > 0 && !p.Config.ForceReseed {
		log.Debug("markers present, skipping re-seed", zap.Int("count", len(existing)))
		res.Existing++
		return res
	}

	plan := p.Plan(title, fps)
	if len(plan) == 0 {
		res.NoTemplate++
		return res
	}

	for _, m := range existing {
		ok, err := p.Host.DeleteMarkerAt(ctx, title, m.Position)
		if err != nil || !ok {
			log.Warn("remove existing marker failed", zap.Int("position", m.Position), zap.Error(err))
			continue
		}
		res.Removed++
	}

	// Furthest first so a trailing anchor establishes the timeline length.
	for i := len(plan) - 1; i >= 0; i-- {
		m := plan[i]
		placed, err := host.Submit(ctx, p.Host, title, m)
		if err != nil {
			log.Warn("add marker failed", zap.Int("position", m.Position), zap.String("label", m.Label), zap.Error(err))
			res.Failed++
			continue
		}
		if placed.Color != m.Color {
			log.Debug("fallback color", zap.String("label", m.Label), zap.String("color", string(placed.Color)))
		}
		res.Added++
	}
	if res.Added > 0 {
		res.Seeded++
	}
	log.Info("seeded", zap.Int("added", res.Added), zap.String("context", classify.Classify(title).String()))
	return res
}

// Plan computes the markers a fresh timeline should receive: catalog templates in
// frames with guidance appended, butt-joined when adjacency is enabled, and with the
// duration floor applied. The result is sorted by position.
func (p *Project) Plan(title string, fps float64) []marker.Marker {
	tc := classify.Classify(title)
	templates := p.Catalog.ForTitle(title, tc)
	if len(templates) == 0 {
		return nil
	}

	ms := make([]marker.Marker, 0, len(templates))
	for _, t := range templates {
		m := t.Frames(fps)
		r := p.Resolver.ResolveLabel(tc, m.Label)
		m.Note = annotate.Annotate(m.Note, r.Text)
		ms = append(ms, m)
	}

	if p.Config.EnableAdjacency {
		ms = adjacency.Normalize(ms, adjacency.AnchorByRole(p.Resolver.Table().Aliases))
	} else {
		ms = marker.SortByPosition(ms)
	}
	for i := range ms {
		ms[i].Duration = annotate.Floor(ms[i].Duration)
	}
	return ms
}

// Retrofit tags markers that were added before guidance existed or by hand.
func (p *Project) Retrofit(ctx context.Context) (retrofit.Result, error) {
	w := retrofit.NewWalker(p.Host, p.Resolver, p.log)
	w.Force = p.Config.ForceRetrofit
	w.Journal = p.Journal
	return w.Run(ctx, nil)
}

// Validate reads every timeline and reports structural problems.
func (p *Project) Validate(ctx context.Context) ([]validate.Warning, error) {
	tls, err := p.Timelines(ctx)
	if err != nil {
		return nil, err
	}
	ws := validate.Run(tls)
	for _, w := range ws {
		if w.Category == validate.Guidance {
			p.log.Debug(w.Message, zap.String("timeline", w.Timeline), zap.Int("position", w.Position))
			continue
		}
		p.log.Warn(w.Message,
			zap.String("category", string(w.Category)),
			zap.String("timeline", w.Timeline),
			zap.Int("position", w.Position),
			zap.String("label", w.Label))
	}
	return ws, nil
}

// Timelines snapshots every readable timeline.
func (p *Project) Timelines(ctx context.Context) ([]marker.Timeline, error) {
	return host.SnapshotAll(ctx, p.Host, func(title string, err error) {
		p.log.Warn("timeline unreadable", zap.String("timeline", title), zap.Error(err))
	})
}

// Manifest snapshots the project into an export document.
func (p *Project) Manifest(ctx context.Context, name string) (*manifest.Manifest, error) {
	tls, err := p.Timelines(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.Build(name, p.Config.FrameRate, tls, time.Now()), nil
}

func (p *Project) attachStats(rep *Report) {
	s, err := system.ProcessStats()
	if err != nil {
		p.log.Debug("process stats unavailable", zap.Error(err))
		return
	}
	rep.Stats = &s
}

func (p *Project) appendRunLog(rep *Report) {
	if p.Config.RunLog == "" {
		return
	}
	f, err := os.OpenFile(p.Config.RunLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.log.Warn("run log not written", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(rep.LogLine()); err != nil {
		p.log.Warn("run log not written", zap.Error(err))
	}
}
