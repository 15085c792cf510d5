package layout

import "image/color"

// Progress bar defaults in logical pixels.
const (
	DefaultProgressWidth       = 560.0
	DefaultProgressHeight      = 48.0
	DefaultProgressTrackHeight = 16.0
	DefaultMarkerSize          = 32.0
	// DefaultMarkerDelta insets the track on both sides so the marker can
	// ride the fill's trailing edge at 0% and 100% without leaving the image.
	DefaultMarkerDelta = 16.0
)

// ProgressBarProps configures ProgressBar. Zero sizes and nil colors take defaults.
type ProgressBarProps struct {
	Width       float64
	Height      float64
	TrackHeight float64
	Progress    float64
	MarkerImage string
	MarkerSize  float64
	MarkerDelta float64
	TrackColor  color.Color
	FillColor   color.Color
}

func (p ProgressBarProps) withDefaults() ProgressBarProps {
	p.Width = orDefault(p.Width, DefaultProgressWidth)
	p.Height = orDefault(p.Height, DefaultProgressHeight)
	p.TrackHeight = orDefault(p.TrackHeight, DefaultProgressTrackHeight)
	p.MarkerSize = orDefault(p.MarkerSize, DefaultMarkerSize)
	p.MarkerDelta = orDefault(p.MarkerDelta, DefaultMarkerDelta)
	if p.TrackColor == nil {
		p.TrackColor = ColorTrack
	}
	if p.FillColor == nil {
		p.FillColor = ColorAccent
	}
	return p
}

// ProgressBarGeometry is the resolved placement of a progress bar.
type ProgressBarGeometry struct {
	TrackLeft  float64
	TrackWidth float64
	FillWidth  float64
	MarkerLeft float64
	MarkerTop  float64
}

// MeasureProgressBar resolves track, fill and marker placement.
func MeasureProgressBar(p ProgressBarProps) ProgressBarGeometry {
	p = p.withDefaults()
	trackWidth := p.Width - 2*p.MarkerDelta
	if trackWidth < 0 {
		trackWidth = 0
	}
	fill := FillWidth(p.Progress, trackWidth)
	return ProgressBarGeometry{
		TrackLeft:  p.MarkerDelta,
		TrackWidth: trackWidth,
		FillWidth:  fill,
		// fill end minus delta: the marker is centred on the trailing edge
		// when MarkerSize is twice the delta.
		MarkerLeft: p.MarkerDelta + fill - p.MarkerDelta,
		MarkerTop:  (p.Height - p.MarkerSize) / 2,
	}
}

// ProgressBar builds a rounded track, its fill and a marker image riding the
// fill's trailing edge.
func ProgressBar(p ProgressBarProps) *Box {
	p = p.withDefaults()
	g := MeasureProgressBar(p)
	trackTop := (p.Height - p.TrackHeight) / 2

	root := &Box{
		ID:    "progress",
		Style: Style{Width: p.Width, Height: p.Height},
	}
	root.Add(
		&Box{
			ID: "progress-track",
			Style: Style{
				Position: Absolute, Left: g.TrackLeft, Top: trackTop,
				Width: g.TrackWidth, Height: p.TrackHeight, Fixed: true,
				Radius: p.TrackHeight / 2, Background: p.TrackColor,
			},
		},
		&Box{
			ID: "progress-fill",
			Style: Style{
				Position: Absolute, Left: g.TrackLeft, Top: trackTop,
				Width: g.FillWidth, Height: p.TrackHeight, Fixed: true,
				Radius: p.TrackHeight / 2, Background: p.FillColor,
			},
		},
		&Box{
			ID: "progress-marker",
			Style: Style{
				Position: Absolute, Left: g.MarkerLeft, Top: g.MarkerTop,
				Width: p.MarkerSize, Height: p.MarkerSize,
				Radius: p.MarkerSize / 2,
			},
			Image: p.MarkerImage,
		},
	)
	return root
}
