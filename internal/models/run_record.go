package models

import "time"

// Run modes recorded in history.
const (
	RunModeUpload  = "upload"
	RunModePreview = "preview"
)

// RunRecord is one completed pipeline run.
type RunRecord struct {
	RunID        string    `json:"run_id"`
	UID          string    `json:"uid"`
	WeekStart    string    `json:"week_start"`
	Mode         string    `json:"mode"`
	UploadTarget string    `json:"upload_target"`
	TrendCardURL string    `json:"trend_card_url,omitempty"`
	StatsCardURL string    `json:"stats_card_url,omitempty"`
	HTMLSHA256   string    `json:"html_sha256"`
	HTMLBytes    int64     `json:"html_bytes"`
	DurationMs   int64     `json:"duration_ms"`
	CompletedAt  time.Time `json:"completed_at"`
}
