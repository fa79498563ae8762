package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/markercraft/internal/classify"
	"github.com/ivlev/markercraft/internal/marker"
)

func TestDefaultCatalogCoversEveryMaster(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, lane := range classify.Lanes {
		for _, tier := range classify.Tiers {
			ms := c.Masters[lane][tier]
			assert.NotEmpty(t, ms, "%s/%s", lane, tier)
			for _, m := range ms {
				assert.NotEmpty(t, m.Name)
				assert.NotEmpty(t, m.Color)
			}
		}
	}
}

func TestForTitle(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		title     string
		wantFirst string
		wantLen   int
	}{
		{"Money Master — 12s (IG short)", "HOOK", 6},
		{"MV Master — 12s", "HOOK (Signature Visual)", 6},
		{"Money Master — 30s", "HOOK", 11},
		{"Segment — Hook Performance", "PRINCIPLES — Scenes/Segments", 4},
		{"ShotFX — Clone Pass", "PRINCIPLES — ShotFX", 4},
		{"Look — Streetwear", "PRINCIPLES — Fashion", 4},
		{"Chapter — Morning", "PRINCIPLES — Day in the Life", 5},
		{"Sync — Audio", "", 0},
		{"Mastering — Final Mix", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := c.ForTitle(tt.title, classify.Classify(tt.title))
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0].Name)
			}
		})
	}
}

func TestPackAgreesWithLane(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	laneOf := map[string]classify.Lane{
		"scenes_segments": classify.MV,
		"talking_head":    classify.Talking,
		"fashion":         classify.Fashion,
		"day_in_the_life": classify.DIL,
		"cook_ups":        classify.Cook,
	}
	for _, title := range []string{
		"Interview — Look back",
		"Look — Chapter one",
		"Segment — Interview cutaways",
		"Chapter — Cook-up section",
	} {
		p := c.Pack(title)
		require.NotNil(t, p, title)
		assert.Equal(t, laneOf[p.Key], classify.Classify(title).Lane, "%s got pack %s", title, p.Key)
	}
}

func TestPackAnchorAt299Seconds(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p := c.Pack("Interview — Guest")
	require.NotNil(t, p)
	last := p.Markers[len(p.Markers)-1]
	assert.Equal(t, "⏱ 5min anchor", last.Name)

	m := last.Frames(29.97)
	assert.Equal(t, 8961, m.Position)
	assert.Equal(t, 0, m.Duration)
	assert.Equal(t, marker.Blue, m.Color)
}

func TestParseRejectsPackWithoutKeywords(t *testing.T) {
	_, err := Parse([]byte("packs:\n  - key: empty\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
