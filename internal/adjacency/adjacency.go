// Package adjacency butt-joins the markers of one timeline: every marker but the last
// is stretched to end one frame before the next marker starts.
package adjacency

import (
	"github.com/ivlev/markercraft/internal/guidance"
	"github.com/ivlev/markercraft/internal/marker"
)

// AnchorTail is the duration given to a terminal anchor marker.
const AnchorTail = 1

// AnchorRole is the role key of the terminal duration anchor ("⏱ 5min anchor").
const AnchorRole = "anchor"

// Normalize returns the markers sorted by position with durations rewritten so that
// markers[i].Position + markers[i].Duration == markers[i+1].Position - 1, clamped at 0.
// The last marker keeps its duration, or gets AnchorTail when it is an anchor. The
// input slice is not modified. Equal positions are left for the validator to report.
func Normalize(markers []marker.Marker, isAnchor func(marker.Marker) bool) []marker.Marker {
	out := marker.SortByPosition(markers)
	for i := 0; i < len(out)-1; i++ {
		out[i].Duration = max(0, out[i+1].Position-out[i].Position-1)
	}
	if n := len(out); n > 0 && isAnchor != nil && isAnchor(out[n-1]) {
		out[n-1].Duration = AnchorTail
	}
	return out
}

// AnchorByRole treats a marker as an anchor when its label resolves to AnchorRole
// through the given alias table.
func AnchorByRole(aliases map[string]string) func(marker.Marker) bool {
	return func(m marker.Marker) bool {
		role := guidance.RoleOf(m.Label)
		if a, ok := aliases[role]; ok {
			role = a
		}
		return role == AnchorRole
	}
}
