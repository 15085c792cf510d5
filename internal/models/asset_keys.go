package models

import (
	"fmt"
	"strings"
)

// AssetKeySet names the storage objects for the four generated images.
// Reusing the same keys for the same report overwrites earlier uploads.
type AssetKeySet struct {
	TrendProgress string `json:"trendProgress"`
	DiagnosisBars string `json:"diagnosisBars"`
	TrendCard     string `json:"trendCard"`
	StatsCard     string `json:"statsCard"`
}

// Expand substitutes {uid} and {weekStart} in every key.
func (k AssetKeySet) Expand(uid, weekStart string) AssetKeySet {
	r := strings.NewReplacer("{uid}", SanitizeKeySegment(uid), "{weekStart}", SanitizeKeySegment(weekStart))
	return AssetKeySet{
		TrendProgress: r.Replace(k.TrendProgress),
		DiagnosisBars: r.Replace(k.DiagnosisBars),
		TrendCard:     r.Replace(k.TrendCard),
		StatsCard:     r.Replace(k.StatsCard),
	}
}

// Validate requires four distinct, non-empty keys.
func (k AssetKeySet) Validate() error {
	keys := map[string]string{
		"trendProgress": k.TrendProgress,
		"diagnosisBars": k.DiagnosisBars,
		"trendCard":     k.TrendCard,
		"statsCard":     k.StatsCard,
	}
	seen := make(map[string]string, len(keys))
	for name, key := range keys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("asset key %s is empty", name)
		}
		if other, dup := seen[key]; dup {
			return fmt.Errorf("asset keys %s and %s collide on %q", other, name, key)
		}
		seen[key] = name
	}
	return nil
}

// SanitizeKeySegment keeps an identifier from introducing extra path segments.
func SanitizeKeySegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "-", "\\", "-", "..", "-").Replace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
