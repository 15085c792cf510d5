package models

// WeeklyReportData is the aggregate for one weekly report. The pipeline fills
// the URL fields marked "output" in a fixed order: image URLs first, share
// URLs second, tracked link rewriting last.
type WeeklyReportData struct {
	UID         string            `json:"uid" validate:"required"`
	WeekStart   string            `json:"weekStart" validate:"required"`
	UserName    string            `json:"userName,omitempty"`
	Hero        HeroSection       `json:"hero"`
	Trend       TrendSection      `json:"trend"`
	Diagnosis   DiagnosisSection  `json:"diagnosis"`
	NewContents []ContentItem     `json:"newContents,omitempty"`
	RabbitHole  RabbitHoleSection `json:"rabbitHole"`
	WeeklyNudge NudgeSection      `json:"weeklyNudge"`
	Footer      FooterSection     `json:"footer"`
}

// HeroSection is the report headline.
type HeroSection struct {
	Title      string  `json:"title,omitempty"`
	Subtitle   string  `json:"subtitle,omitempty"`
	Progress   float64 `json:"progress"`
	ThemeColor string  `json:"themeColor,omitempty"`
}

// TrendSection describes the trend the user discovered this week.
type TrendSection struct {
	TopicName        string  `json:"topicName"`
	Rank             int     `json:"rank"`
	DiscovererCount  int     `json:"discovererCount"`
	PenetrationStart float64 `json:"penetrationStart"`
	PenetrationEnd   float64 `json:"penetrationEnd"`
	// output
	ProgressImageURL string `json:"progressImageUrl,omitempty"`
	// output
	ShareURL string `json:"shareUrl,omitempty"`
}

// DiagnosisSection holds weekly watch statistics.
type DiagnosisSection struct {
	TotalVideos         int     `json:"totalVideos"`
	TotalTimeMinutes    float64 `json:"totalTimeMinutes"`
	LastWeekTimeMinutes float64 `json:"lastWeekTimeMinutes"`
	MileageMeters       float64 `json:"mileageMeters"`
	ComparisonText      string  `json:"comparisonText,omitempty"`
	// output
	BarChartImageURL string `json:"barChartImageUrl,omitempty"`
	// output
	ShareURL string `json:"shareUrl,omitempty"`
}

// ContentItem is one newly discovered content category. Icon is either a
// local asset file name or an absolute http(s) URL.
type ContentItem struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// RabbitHoleSection describes the longest uninterrupted viewing session.
type RabbitHoleSection struct {
	Time        string `json:"time,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// NudgeSection is the weekly call to action.
type NudgeSection struct {
	Message string `json:"message,omitempty"`
	// output (rewritten to a tracked redirect when present)
	LinkURL string `json:"linkUrl,omitempty"`
}

// FooterSection holds the footer links.
type FooterSection struct {
	// output (rewritten to a tracked redirect when present)
	TiktokURL      string `json:"tiktokUrl,omitempty"`
	UnsubscribeURL string `json:"unsubscribeUrl,omitempty"`
}

// Clone returns a copy that shares no mutable state with d.
func (d WeeklyReportData) Clone() WeeklyReportData {
	out := d
	if d.NewContents != nil {
		out.NewContents = make([]ContentItem, len(d.NewContents))
		copy(out.NewContents, d.NewContents)
	}
	return out
}

// ShareAssets carries the public URLs of the two share cards.
type ShareAssets struct {
	TrendCardURL string `json:"trendCardUrl,omitempty"`
	StatsCardURL string `json:"statsCardUrl,omitempty"`
}
