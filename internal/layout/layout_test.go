package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-50, 0},
		{0, 0},
		{47.5, 47.5},
		{100, 100},
		{150, 100},
		{math.NaN(), 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.in), "Clamp(%v)", tt.in)
	}
}

func TestProgressBar_FillFraction(t *testing.T) {
	tests := []struct {
		progress     float64
		wantFraction float64
	}{
		{-50, 0},
		{0, 0},
		{50, 0.5},
		{100, 1},
		{150, 1},
	}

	for _, tt := range tests {
		box := ProgressBar(ProgressBarProps{Progress: tt.progress})
		track := box.Find("progress-track")
		fill := box.Find("progress-fill")
		require.NotNil(t, track)
		require.NotNil(t, fill)

		assert.InDelta(t, tt.wantFraction, fill.Style.Width/track.Style.Width, 1e-9, "progress %v", tt.progress)
		assert.LessOrEqual(t, fill.Style.Width, track.Style.Width)
		assert.GreaterOrEqual(t, fill.Style.Width, 0.0)
		assert.True(t, fill.Style.Fixed, "a zero-width fill must not size from content")
	}
}

func TestProgressBar_MarkerRidesTrailingEdge(t *testing.T) {
	for _, progress := range []float64{0, 8, 50, 100} {
		box := ProgressBar(ProgressBarProps{Progress: progress, MarkerImage: "data:image/png;base64,AA=="})
		fill := box.Find("progress-fill")
		marker := box.Find("progress-marker")
		require.NotNil(t, marker)

		fillEnd := fill.Style.Left + fill.Style.Width
		assert.InDelta(t, fillEnd-DefaultMarkerDelta, marker.Style.Left, 1e-9)
		assert.GreaterOrEqual(t, marker.Style.Left, 0.0)
		assert.LessOrEqual(t, marker.Style.Left+marker.Style.Width, DefaultProgressWidth)
		assert.Equal(t, "data:image/png;base64,AA==", marker.Image)
	}
}

func TestProgressBar_Deterministic(t *testing.T) {
	props := ProgressBarProps{Progress: 33.3, Width: 300, Height: 40}
	assert.Equal(t, ProgressBar(props), ProgressBar(props))
}

func TestBarChart_HeightsMonotonic(t *testing.T) {
	heights := func(past, present float64) (float64, float64) {
		box := BarChart(BarChartProps{Past: Bar{Value: past}, Present: Bar{Value: present}})
		return box.Find("chart-past-bar").Style.Height, box.Find("chart-present-bar").Style.Height
	}

	p1, q1 := heights(100, 89.46)
	assert.InDelta(t, DefaultMaxBarHeight, p1, 1e-9)
	assert.Greater(t, p1, q1)

	p2, q2 := heights(42, 42)
	assert.Equal(t, p2, q2)

	low, _ := heights(10, 0)
	high, _ := heights(20, 0)
	assert.Less(t, low, high)

	neg, over := heights(-20, 400)
	assert.Equal(t, 0.0, neg)
	assert.Equal(t, DefaultMaxBarHeight, over)
}

func TestBarChart_LabelsAboveBars(t *testing.T) {
	box := BarChart(BarChartProps{
		Past:    Bar{Label: "Last Week", Caption: "21.5h", Value: 100},
		Present: Bar{Value: 50},
	})
	past := box.Find("chart-past")
	require.Len(t, past.Children, 3)
	assert.Equal(t, "21.5h", past.Children[0].Text.Content)
	assert.Equal(t, "Last Week", past.Children[1].Text.Content)
	assert.Equal(t, "chart-past-bar", past.Children[2].ID)

	present := box.Find("chart-present")
	assert.Equal(t, "This Week", present.Children[0].Text.Content)
	assert.NotEqual(t, box.Find("chart-past-bar").Style.Background, box.Find("chart-present-bar").Style.Background)
}

func TestContentTiles_AlwaysThreeSlots(t *testing.T) {
	for n := 0; n <= 5; n++ {
		tiles := make([]Tile, n)
		for i := range tiles {
			tiles[i] = Tile{Label: "label", Icon: "data:image/png;base64,AA=="}
		}
		row := ContentTiles(tiles, 312)
		require.Len(t, row.Children, TileSlots, "with %d tiles", n)

		for i, tile := range row.Children {
			icon, label := tile.Children[0], tile.Children[1]
			if i < n {
				assert.Equal(t, "label", label.Text.Content)
				assert.NotEmpty(t, icon.Image)
			} else {
				assert.Empty(t, label.Text.Content)
				assert.Empty(t, icon.Image)
			}
			assert.Equal(t, row.Children[0].Style.Width, tile.Style.Width)
			assert.Equal(t, 32.0, label.Style.Height)
		}
	}
}

func TestTrendCard_Structure(t *testing.T) {
	box := TrendCard(TrendCardProps{
		CardChrome: CardChrome{
			Title:       "Trend Discoverer",
			Tiles:       []Tile{{Label: "Cooking"}},
			FooterImage: "data:image/png;base64,AA==",
		},
		TopicName:    "#matcha",
		Progress:     8,
		ProgressText: "8%",
	})

	assert.Equal(t, DefaultCardWidth, box.Style.Width)
	assert.Equal(t, DefaultCardHeight, box.Style.Height)

	footer := box.Find("trend-card-footer")
	require.NotNil(t, footer)
	assert.Equal(t, Absolute, footer.Style.Position)
	assert.Equal(t, DefaultCardHeight, footer.Style.Top+footer.Style.Height)

	track := box.Find("progress-track")
	fill := box.Find("progress-fill")
	assert.InDelta(t, 0.08, fill.Style.Width/track.Style.Width, 1e-9)
	assert.Len(t, box.Find("tiles").Children, TileSlots)
}

func TestStatsCard_Structure(t *testing.T) {
	box := StatsCard(StatsCardProps{
		Headline:  "My Week",
		StatLines: []string{"128 videos", "19.2 hours"},
		Past:      Bar{Value: 100},
		Present:   Bar{Value: 89.46},
	})

	require.NotNil(t, box.Find("chart"))
	require.NotNil(t, box.Find("stats-card-footer"))
	assert.Equal(t, DefaultFooterHeight, box.Style.Padding.Bottom)

	var texts []string
	box.Walk(func(b *Box) {
		if b.Text != nil && b.Text.Content != "" {
			texts = append(texts, b.Text.Content)
		}
	})
	assert.Contains(t, texts, "128 videos")
	assert.Contains(t, texts, "This Week")
}

func TestHex(t *testing.T) {
	c := Hex("#FE2C55")
	assert.Equal(t, uint8(0xFE), c.R)
	assert.Equal(t, uint8(0x2C), c.G)
	assert.Equal(t, uint8(0x55), c.B)
	assert.Equal(t, uint8(0xFF), c.A)

	assert.Equal(t, uint8(0x80), Hex("#00000080").A)
	assert.Equal(t, uint8(0xFF), Hex("bogus").A)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "8%", FormatPercent(8))
	assert.Equal(t, "47.5%", FormatPercent(47.49))
	assert.Equal(t, "100%", FormatPercent(180))
	assert.Equal(t, "0%", FormatPercent(-3))

	assert.Equal(t, "21.5h", FormatHours(1290))
	assert.Equal(t, "19.2h", FormatHours(1154))
	assert.Equal(t, "0h", FormatHours(-10))

	assert.Equal(t, "850 m", FormatDistance(849.6))
	assert.Equal(t, "1.2 km", FormatDistance(1234))

	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "-1,000", FormatCount(-1000))

	assert.Equal(t, "1st", FormatOrdinal(1))
	assert.Equal(t, "2nd", FormatOrdinal(2))
	assert.Equal(t, "3rd", FormatOrdinal(3))
	assert.Equal(t, "11th", FormatOrdinal(11))
	assert.Equal(t, "22nd", FormatOrdinal(22))
	assert.Equal(t, "1,234th", FormatOrdinal(1234))
}
