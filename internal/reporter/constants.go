package reporter

const (
	defaultWeeklyTemplateName = "weekly_report.html.tmpl"
	embeddedWeeklyTemplate    = "templates/" + defaultWeeklyTemplateName

	DefaultReportTitle = "Your TikTok Weekly Wrapped"

	// File permissions
	DirPermissions  = 0755
	FilePermissions = 0644

	// Share endpoint paths owned by the web application.
	ShareDownloadPath = "/share/download"
	ShareRedirectPath = "/share/redirect"
)
