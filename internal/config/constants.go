package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Asset Defaults
	DefaultFontRegularPath           = "assets/fonts/Inter-Regular.ttf"
	DefaultFontBoldPath              = "assets/fonts/Inter-Bold.ttf"
	DefaultImageDir                  = "assets/images"
	DefaultImageProgressMarker       = "progress-marker.png"
	DefaultImageTrendHeaderIcon      = "trend-header.png"
	DefaultImageStatsHeaderIcon      = "stats-header.png"
	DefaultImageCardFooter           = "card-footer.png"
	DefaultRemoteFetchTimeoutSecs    = 10
	DefaultMaxRemoteImageBytes       = 5 * 1024 * 1024
	DefaultRemoteFetchUserAgent      = "weeklywrapped-renderer/1.0"
	DefaultRemoteFetchMaxRedirects   = 5
	DefaultUploadTimeoutSecs         = 30
	DefaultBlobBaseURL               = "https://blob.vercel-storage.com"
	DefaultBlobAPIVersion            = "7"
	DefaultUploadTarget              = UploadTargetAPI
	DefaultAPIUploadBaseURL          = "http://localhost:3000/api"
	DefaultAssetBaseURL              = "http://localhost:3000"
	DefaultRunTimeoutSecs            = 60
	DefaultAssetKeyTrendProgress     = "reports/{uid}/{weekStart}/trend-progress.png"
	DefaultAssetKeyDiagnosisBars     = "reports/{uid}/{weekStart}/diagnosis-bars.png"
	DefaultAssetKeyTrendCard         = "reports/{uid}/{weekStart}/trend-share-card.png"
	DefaultAssetKeyStatsCard         = "reports/{uid}/{weekStart}/stats-share-card.png"
	DefaultReporterOutputDir         = "reports/weekly"
	DefaultReportTitle               = "Your TikTok Wrapped"
	DefaultHistorySQLitePath         = "database/history/runs.db"
	DefaultHistoryCompressionCodec   = "zstd"
	DefaultServerListenAddr          = "127.0.0.1:8080"
	DefaultServerShutdownTimeoutSecs = 10
	DefaultServerMaxBodyBytes        = "2M"

	// Resource limiter Defaults
	DefaultLimiterMaxMemoryMB        = 1024
	DefaultLimiterMaxGoroutines      = 10000
	DefaultLimiterCheckIntervalSecs  = 30
	DefaultLimiterSystemMemThreshold = 0.9

	// Upload targets
	UploadTargetAPI    = "api"
	UploadTargetVercel = "vercel"

	// Environment overrides
	EnvConfigPath       = "WRAPPED_CONFIG_PATH"
	EnvBlobToken        = "BLOB_READ_WRITE_TOKEN"
	EnvAssetBaseURL     = "WRAPPED_ASSET_BASE_URL"
	EnvUploadAPIBaseURL = "WRAPPED_UPLOAD_API_BASE_URL"
	EnvUploadTarget     = "WRAPPED_UPLOAD_TARGET"
)
