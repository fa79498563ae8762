// Package validate checks timelines for structural problems after enrichment. It only
// reports; nothing here modifies a timeline or fails a run.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/markercraft/internal/annotate"
	"github.com/ivlev/markercraft/internal/marker"
)

type Category string

const (
	Schema    Category = "schema"
	Bounds    Category = "bounds"
	Collision Category = "collision"
	Guidance  Category = "guidance" // informational
)

// Warning describes one finding on one marker.
type Warning struct {
	Timeline string   `json:"timeline"`
	Position int      `json:"position"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s @%d %q: %s", w.Category, w.Timeline, w.Position, w.Label, w.Message)
}

// Check is a single validation over one timeline.
type Check func(tl marker.Timeline) []Warning

// Checks run by Run, in reporting order.
var Checks = []Check{CheckSchema, CheckBounds, CheckCollisions, CheckGuidance}

// Run applies every check to every timeline.
func Run(timelines []marker.Timeline) []Warning {
	return RunChecks(timelines, Checks...)
}

func RunChecks(timelines []marker.Timeline, checks ...Check) []Warning {
	var out []Warning
	for _, tl := range timelines {
		for _, check := range checks {
			out = append(out, check(tl)...)
		}
	}
	return out
}

// CheckSchema flags markers without a label or color.
func CheckSchema(tl marker.Timeline) []Warning {
	var out []Warning
	for _, m := range tl.Markers {
		var missing []string
		if strings.TrimSpace(m.Label) == "" {
			missing = append(missing, "label")
		}
		if strings.TrimSpace(string(m.Color)) == "" {
			missing = append(missing, "color")
		}
		if len(missing) > 0 {
			out = append(out, warn(tl, m, Schema, "missing "+strings.Join(missing, ", ")))
		}
	}
	return out
}

// CheckBounds flags markers running past the end of the timeline. Timelines with no
// known duration are not checked.
func CheckBounds(tl marker.Timeline) []Warning {
	if tl.TotalDuration <= 0 {
		return nil
	}
	var out []Warning
	for _, m := range tl.Markers {
		if excess := m.End() - tl.TotalDuration; excess > 0 {
			out = append(out, warn(tl, m, Bounds,
				fmt.Sprintf("ends at frame %d, %d frames past timeline end %d", m.End(), excess, tl.TotalDuration)))
		}
	}
	return out
}

// CheckCollisions reports each position shared by more than one marker once.
func CheckCollisions(tl marker.Timeline) []Warning {
	byPos := make(map[int][]marker.Marker)
	for _, m := range tl.Markers {
		byPos[m.Position] = append(byPos[m.Position], m)
	}
	positions := make([]int, 0, len(byPos))
	for pos, ms := range byPos {
		if len(ms) > 1 {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)

	out := make([]Warning, 0, len(positions))
	for _, pos := range positions {
		ms := byPos[pos]
		labels := make([]string, len(ms))
		for i, m := range ms {
			labels[i] = m.Label
		}
		out = append(out, warn(tl, ms[0], Collision,
			fmt.Sprintf("%d markers share this position: %s", len(ms), strings.Join(labels, ", "))))
	}
	return out
}

// CheckGuidance flags markers that have not been enriched yet.
func CheckGuidance(tl marker.Timeline) []Warning {
	var out []Warning
	for _, m := range tl.Markers {
		if !annotate.Tagged(m.Note) {
			out = append(out, warn(tl, m, Guidance, "no cut guidance; run retrofit"))
		}
	}
	return out
}

// Count tallies warnings per category.
func Count(ws []Warning) map[Category]int {
	out := make(map[Category]int)
	for _, w := range ws {
		out[w.Category]++
	}
	return out
}

func warn(tl marker.Timeline, m marker.Marker, c Category, msg string) Warning {
	return Warning{Timeline: tl.Title, Position: m.Position, Label: m.Label, Category: c, Message: msg}
}
