package adjacency

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ivlev/markercraft/internal/marker"
)

func durations(ms []marker.Marker) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.Duration
	}
	return out
}

func TestNormalizeFourMarkers(t *testing.T) {
	in := []marker.Marker{
		{Position: 0, Duration: 90, Label: "HOOK"},
		{Position: 30, Duration: 1, Label: "DRAW"},
		{Position: 60, Duration: 1, Label: "INTERRUPT #1"},
		{Position: 8961, Duration: 7, Label: "LOOP / CTA"},
	}
	got := Normalize(in, nil)

	want := []int{29, 29, 8900, 7}
	if diff := cmp.Diff(want, durations(got)); diff != "" {
		t.Errorf("durations mismatch (-want +got):\n%s", diff)
	}
	if in[0].Duration != 90 {
		t.Errorf("input modified: %d", in[0].Duration)
	}
}

func TestNormalizeInvariant(t *testing.T) {
	in := []marker.Marker{
		{Position: 348, Duration: 12},
		{Position: 0, Duration: 90},
		{Position: 90},
		{Position: 135},
		{Position: 240, Duration: 120},
	}
	got := Normalize(in, nil)

	for i := 0; i < len(got)-1; i++ {
		a, b := got[i], got[i+1]
		if a.Position+a.Duration != b.Position-1 {
			t.Errorf("pair %d: %d+%d != %d-1", i, a.Position, a.Duration, b.Position)
		}
	}
	if last := got[len(got)-1]; last.Duration != 12 {
		t.Errorf("last duration = %d, want 12", last.Duration)
	}
}

func TestNormalizeClampsAtZero(t *testing.T) {
	got := Normalize([]marker.Marker{{Position: 10}, {Position: 11}, {Position: 11}}, nil)
	if diff := cmp.Diff([]int{0, 0, 0}, durations(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNormalizeAnchorTail(t *testing.T) {
	in := []marker.Marker{
		{Position: 0, Label: "PRINCIPLES — Fashion"},
		{Position: 8961, Duration: 40, Label: "⏱ 5min anchor"},
	}
	got := Normalize(in, AnchorByRole(map[string]string{"5min_anchor": "anchor"}))

	if diff := cmp.Diff([]int{8960, AnchorTail}, durations(got)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNormalizeEmptyAndSingle(t *testing.T) {
	if got := Normalize(nil, nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	got := Normalize([]marker.Marker{{Position: 5, Duration: 3}}, nil)
	if got[0].Duration != 3 {
		t.Errorf("single marker duration = %d", got[0].Duration)
	}
}
