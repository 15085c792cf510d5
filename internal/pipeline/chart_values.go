package pipeline

import (
	"fmt"
	"math"

	"github.com/aleister1102/weeklywrapped/internal/layout"
	"github.com/aleister1102/weeklywrapped/internal/models"
)

// ChartValues is everything the chart and share-card builders read from a
// report. Percentages are clamped and texts are formatted from the clamped
// numbers, so stage 1 and stage 2 can never disagree.
type ChartValues struct {
	Progress     float64
	ProgressText string

	PastPercent    float64
	PresentPercent float64
	PastCaption    string
	PresentCaption string

	TopicName  string
	RankText   string
	WeekText   string
	Headline   string
	StatLines  []string
	Comparison string
	Tiles      []models.ContentItem
}

// DeriveChartValues computes ChartValues from a report.
func DeriveChartValues(d models.WeeklyReportData) ChartValues {
	progress := layout.Clamp(d.Trend.PenetrationEnd)
	past, present := comparisonPercents(d.Diagnosis.LastWeekTimeMinutes, d.Diagnosis.TotalTimeMinutes)

	v := ChartValues{
		Progress:       progress,
		ProgressText:   layout.FormatPercent(progress),
		PastPercent:    past,
		PresentPercent: present,
		PastCaption:    layout.FormatHours(d.Diagnosis.LastWeekTimeMinutes),
		PresentCaption: layout.FormatHours(d.Diagnosis.TotalTimeMinutes),
		TopicName:      d.Trend.TopicName,
		Headline:       layout.FormatHours(d.Diagnosis.TotalTimeMinutes) + " watched",
		Comparison:     d.Diagnosis.ComparisonText,
		StatLines: []string{
			layout.FormatCount(max(d.Diagnosis.TotalVideos, 0)) + " videos",
			layout.FormatDistance(d.Diagnosis.MileageMeters) + " scrolled",
		},
	}
	if d.Trend.Rank > 0 {
		v.RankText = fmt.Sprintf("%s of %s discoverers", layout.FormatOrdinal(d.Trend.Rank), layout.FormatCount(max(d.Trend.DiscovererCount, d.Trend.Rank)))
	}
	if d.WeekStart != "" {
		v.WeekText = "Week of " + d.WeekStart
	}
	n := min(len(d.NewContents), layout.TileSlots)
	v.Tiles = append([]models.ContentItem(nil), d.NewContents[:n]...)
	return v
}

// comparisonPercents scales both minute totals against the larger one.
func comparisonPercents(pastMinutes, presentMinutes float64) (float64, float64) {
	pastMinutes = nonNegative(pastMinutes)
	presentMinutes = nonNegative(presentMinutes)
	peak := max(pastMinutes, presentMinutes)
	if peak == 0 {
		return 0, 0
	}
	return layout.Clamp(pastMinutes / peak * 100), layout.Clamp(presentMinutes / peak * 100)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
