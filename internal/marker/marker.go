package marker

import (
	"math"
	"sort"
)

// Marker is a timed annotation on a timeline. Position and Duration are in frames.
type Marker struct {
	Position int    `yaml:"position" json:"frame"`
	Duration int    `yaml:"duration" json:"duration"`
	Color    Color  `yaml:"color" json:"color"`
	Label    string `yaml:"label" json:"name"`
	Note     string `yaml:"note,omitempty" json:"note"`
}

// End returns the first frame after the marker span.
func (m Marker) End() int {
	return m.Position + m.Duration
}

// Timeline is an ordered sequence of markers plus the metadata used for classification.
type Timeline struct {
	Title         string   `yaml:"title"`
	FrameRate     float64  `yaml:"frame_rate"`
	TotalDuration int      `yaml:"total_duration"` // frames
	Markers       []Marker `yaml:"markers"`
}

// DefaultFrameRate is used whenever a timeline reports no usable rate.
const DefaultFrameRate = 29.97

// SecondsToFrames converts a seconds offset to the nearest frame.
func SecondsToFrames(sec, fps float64) int {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return int(math.Round(sec * fps))
}

// SortByPosition returns a copy of markers ordered by position. Equal positions keep
// their relative order.
func SortByPosition(markers []Marker) []Marker {
	out := make([]Marker, len(markers))
	copy(out, markers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
