package pipeline

import (
	"math"
	"testing"

	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveChartValues(t *testing.T) {
	v := DeriveChartValues(sampleReport())

	assert.Equal(t, 8.0, v.Progress)
	assert.Equal(t, "8%", v.ProgressText)
	assert.Equal(t, 100.0, v.PastPercent)
	assert.InDelta(t, 89.46, v.PresentPercent, 0.01)
	assert.Equal(t, "21.5h", v.PastCaption)
	assert.Equal(t, "19.2h", v.PresentCaption)
	assert.Equal(t, "3rd of 12,840 discoverers", v.RankText)
	assert.Equal(t, "Week of 2024-06-03", v.WeekText)
	assert.Equal(t, "19.2h watched", v.Headline)
	assert.Equal(t, []string{"1,280 videos", "1.2 km scrolled"}, v.StatLines)
}

func TestDeriveChartValues_ClampsVisualAndText(t *testing.T) {
	tests := []struct {
		in       float64
		progress float64
		text     string
	}{
		{-50, 0, "0%"},
		{0, 0, "0%"},
		{47.5, 47.5, "47.5%"},
		{150, 100, "100%"},
		{math.NaN(), 0, "0%"},
	}
	for _, tt := range tests {
		d := sampleReport()
		d.Trend.PenetrationEnd = tt.in
		v := DeriveChartValues(d)
		assert.Equal(t, tt.progress, v.Progress, "input %v", tt.in)
		assert.Equal(t, tt.text, v.ProgressText, "input %v", tt.in)
	}
}

func TestComparisonPercents(t *testing.T) {
	tests := []struct {
		name          string
		past, present float64
		wantPast      float64
		wantPresent   float64
	}{
		{name: "present larger", past: 50, present: 200, wantPast: 25, wantPresent: 100},
		{name: "equal", past: 90, present: 90, wantPast: 100, wantPresent: 100},
		{name: "both zero", past: 0, present: 0, wantPast: 0, wantPresent: 0},
		{name: "negative treated as zero", past: -30, present: 60, wantPast: 0, wantPresent: 100},
		{name: "infinite treated as zero", past: math.Inf(1), present: 10, wantPast: 0, wantPresent: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			past, present := comparisonPercents(tt.past, tt.present)
			assert.InDelta(t, tt.wantPast, past, 1e-9)
			assert.InDelta(t, tt.wantPresent, present, 1e-9)
		})
	}
}

func TestDeriveChartValues_TilesCappedAtThree(t *testing.T) {
	d := sampleReport()
	d.NewContents = []models.ContentItem{{Label: "a"}, {Label: "b"}, {Label: "c"}, {Label: "d"}}
	v := DeriveChartValues(d)
	require.Len(t, v.Tiles, 3)
	assert.Equal(t, "c", v.Tiles[2].Label)

	v.Tiles[0].Label = "changed"
	assert.Equal(t, "a", d.NewContents[0].Label)

	d.NewContents = nil
	assert.Empty(t, DeriveChartValues(d).Tiles)
}

func TestDeriveChartValues_NoRank(t *testing.T) {
	d := sampleReport()
	d.Trend.Rank = 0
	assert.Empty(t, DeriveChartValues(d).RankText)
}
