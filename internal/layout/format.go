package layout

import (
	"math"
	"strconv"
	"strings"
)

// FormatPercent renders a clamped percentage with at most one decimal, e.g. "8%" or "47.5%".
func FormatPercent(v float64) string {
	return trimDecimal(Clamp(v)) + "%"
}

// FormatHours renders minutes as hours with at most one decimal, e.g. "19.2h".
func FormatHours(minutes float64) string {
	if math.IsNaN(minutes) || minutes < 0 {
		minutes = 0
	}
	return trimDecimal(minutes/60) + "h"
}

// FormatDistance renders meters as "850 m" below one kilometre and "1.2 km" above.
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	if meters < 1000 {
		return strconv.FormatFloat(math.Round(meters), 'f', 0, 64) + " m"
	}
	return trimDecimal(meters/1000) + " km"
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatOrdinal renders 1 as "1st", 2 as "2nd", 1234 as "1,234th".
func FormatOrdinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return FormatCount(n) + suffix
}

func trimDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
