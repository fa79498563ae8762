package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/ivlev/markercraft/internal/retrofit"
	"github.com/ivlev/markercraft/internal/system"
	"github.com/ivlev/markercraft/internal/validate"
)

// Report summarizes one full run.
type Report struct {
	RunID    string
	Build    string
	Started  time.Time
	Elapsed  time.Duration
	Seed     BuildResult
	Retrofit retrofit.Result
	Warnings []validate.Warning
	Stats    *system.Stats
}

func (r *Report) String() string {
	counts := validate.Count(r.Warnings)
	var b strings.Builder
	fmt.Fprintf(&b, "--- [RUN REPORT] ---\n")
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	if r.Build != "" {
		fmt.Fprintf(&b, "Build: %s\n", r.Build)
	}
	fmt.Fprintf(&b, "Total Time: %.2fs\n", r.Elapsed.Seconds())
	fmt.Fprintf(&b, "Timelines: %d (seeded %d, existing %d, no template %d)\n",
		r.Seed.Timelines, r.Seed.Seeded, r.Seed.Existing, r.Seed.NoTemplate)
	fmt.Fprintf(&b, "Markers added: %d (failed %d)\n", r.Seed.Added, r.Seed.Failed)
	fmt.Fprintf(&b, "Retrofit: updated %d, tagged %d, skipped %d, failed %d, collisions %d\n",
		r.Retrofit.Updated, r.Retrofit.AlreadyTagged, r.Retrofit.Skipped, r.Retrofit.Failed, r.Retrofit.Collisions)
	fmt.Fprintf(&b, "Warnings: schema %d, bounds %d, collision %d, guidance %d\n",
		counts[validate.Schema], counts[validate.Bounds], counts[validate.Collision], counts[validate.Guidance])
	if r.Stats != nil {
		fmt.Fprintf(&b, "Memory (RSS): %s | Threads: %d | CPU: %.1f%%\n",
			system.HumanBytes(r.Stats.RSS), r.Stats.Threads, r.Stats.CPUPercent)
	}
	b.WriteString("--------------------\n")
	return b.String()
}

// LogLine is the single-line form appended to the run log.
func (r *Report) LogLine() string {
	return fmt.Sprintf("[%s] Run: %s | Timelines: %d | Added: %d | Updated: %d | Warnings: %d | Total: %.2fs\n",
		r.Started.Format("2006-01-02 15:04:05"),
		r.RunID,
		r.Seed.Timelines,
		r.Seed.Added,
		r.Retrofit.Updated,
		len(r.Warnings),
		r.Elapsed.Seconds(),
	)
}
