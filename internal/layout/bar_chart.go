package layout

import "image/color"

// Bar chart defaults in logical pixels.
const (
	DefaultChartWidth     = 320.0
	DefaultChartHeight    = 220.0
	DefaultMaxBarHeight   = 140.0
	DefaultBarWidth       = 72.0
	DefaultBarGap         = 56.0
	DefaultChartLabelSize = 14.0
)

// Bar is one column of the comparison chart. Value is a percentage of the
// chart's maximum; Caption is an optional pre-formatted value shown above the label.
type Bar struct {
	Label   string
	Caption string
	Value   float64
}

// BarChartProps configures BarChart.
type BarChartProps struct {
	Width        float64
	Height       float64
	MaxBarHeight float64
	BarWidth     float64
	Gap          float64
	LabelSize    float64
	Past         Bar
	Present      Bar
	PastColor    color.Color
	PresentColor color.Color
	LabelColor   color.Color
}

func (p BarChartProps) withDefaults() BarChartProps {
	p.Width = orDefault(p.Width, DefaultChartWidth)
	p.Height = orDefault(p.Height, DefaultChartHeight)
	p.MaxBarHeight = orDefault(p.MaxBarHeight, DefaultMaxBarHeight)
	p.BarWidth = orDefault(p.BarWidth, DefaultBarWidth)
	p.Gap = orDefault(p.Gap, DefaultBarGap)
	p.LabelSize = orDefault(p.LabelSize, DefaultChartLabelSize)
	if p.Past.Label == "" {
		p.Past.Label = "Last Week"
	}
	if p.Present.Label == "" {
		p.Present.Label = "This Week"
	}
	if p.PastColor == nil {
		p.PastColor = ColorPast
	}
	if p.PresentColor == nil {
		p.PresentColor = ColorAccent
	}
	if p.LabelColor == nil {
		p.LabelColor = ColorInk
	}
	return p
}

// BarChart builds two bottom-aligned labelled bars: past on the left,
// present on the right.
func BarChart(p BarChartProps) *Box {
	p = p.withDefaults()
	root := &Box{
		ID: "chart",
		Style: Style{
			Width: p.Width, Height: p.Height,
			Direction: Row, Gap: p.Gap,
			Justify: JustifyCenter, AlignItems: AlignEnd,
		},
	}
	root.Add(
		barColumn("chart-past", p.Past, p.PastColor, p),
		barColumn("chart-present", p.Present, p.PresentColor, p),
	)
	return root
}

func barColumn(id string, bar Bar, fill color.Color, p BarChartProps) *Box {
	col := &Box{
		ID: id,
		Style: Style{
			Width: p.BarWidth, Height: p.Height,
			Direction: Column, Gap: 6,
			Justify: JustifyEnd, AlignItems: AlignCenter,
		},
	}
	if bar.Caption != "" {
		col.Add(Label(bar.Caption, p.LabelSize, Bold, p.LabelColor, TextCenter))
	}
	col.Add(
		Label(bar.Label, p.LabelSize, Regular, ColorMuted, TextCenter),
		&Box{
			ID: id + "-bar",
			Style: Style{
				Width: p.BarWidth, Height: BarHeight(bar.Value, p.MaxBarHeight), Fixed: true,
				Radius: 10, Background: fill,
			},
		},
	)
	return col
}
