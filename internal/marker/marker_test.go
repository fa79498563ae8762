package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecondsToFrames(t *testing.T) {
	tests := []struct {
		sec  float64
		fps  float64
		want int
	}{
		{0, 29.97, 0},
		{1, 29.97, 30},
		{299, 29.97, 8961},
		{11.6, 29.97, 348},
		{2, 0, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SecondsToFrames(tt.sec, tt.fps), "sec=%v fps=%v", tt.sec, tt.fps)
	}
}

func TestSortByPositionKeepsInput(t *testing.T) {
	in := []Marker{{Position: 60}, {Position: 0}, {Position: 30}}
	out := SortByPosition(in)

	assert.Equal(t, []int{0, 30, 60}, []int{out[0].Position, out[1].Position, out[2].Position})
	assert.Equal(t, 60, in[0].Position)
}

func TestColorFallback(t *testing.T) {
	tests := []struct {
		in     Color
		want   Color
		hasAlt bool
	}{
		{Magenta, Pink, true},
		{Orange, Yellow, true},
		{Color("Teal"), Red, true},
		{Blue, Blue, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, ok := tt.in.Fallback()
			assert.Equal(t, tt.hasAlt, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, Purple, ParseColor("purple"))
	assert.Equal(t, Magenta, ParseColor(" MAGENTA "))
	assert.Equal(t, Color("Teal"), ParseColor("Teal"))
}
