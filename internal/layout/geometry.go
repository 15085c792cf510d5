package layout

import "math"

// Clamp limits a percentage to [0,100]. NaN is treated as 0 so no input can
// produce a fill wider than its track or a negative bar.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// FillWidth is the filled part of a track for a percentage.
func FillWidth(percent, trackWidth float64) float64 {
	if trackWidth <= 0 {
		return 0
	}
	return Clamp(percent) / 100 * trackWidth
}

// BarHeight is the height of a chart bar for a percentage.
func BarHeight(percent, maxHeight float64) float64 {
	if maxHeight <= 0 {
		return 0
	}
	return Clamp(percent) / 100 * maxHeight
}

func orDefault(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return def
	}
	return v
}
