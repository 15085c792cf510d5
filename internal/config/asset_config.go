package config

// AssetsConfig locates fonts and local decorative images and bounds remote fetches
type AssetsConfig struct {
	FontRegularPath        string     `json:"font_regular_path,omitempty" yaml:"font_regular_path,omitempty" validate:"required"`
	FontBoldPath           string     `json:"font_bold_path,omitempty" yaml:"font_bold_path,omitempty" validate:"required"`
	ImageDir               string     `json:"image_dir,omitempty" yaml:"image_dir,omitempty"`
	RemoteFetchTimeoutSecs int        `json:"remote_fetch_timeout_secs,omitempty" yaml:"remote_fetch_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxRemoteImageBytes    int        `json:"max_remote_image_bytes,omitempty" yaml:"max_remote_image_bytes,omitempty" validate:"omitempty,min=1"`
	UserAgent              string     `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Images                 ImageNames `json:"images,omitempty" yaml:"images,omitempty"`
}

// ImageNames are file names under ImageDir used as decoration on generated images
type ImageNames struct {
	ProgressMarker  string `json:"progress_marker,omitempty" yaml:"progress_marker,omitempty"`
	TrendHeaderIcon string `json:"trend_header_icon,omitempty" yaml:"trend_header_icon,omitempty"`
	StatsHeaderIcon string `json:"stats_header_icon,omitempty" yaml:"stats_header_icon,omitempty"`
	CardFooter      string `json:"card_footer,omitempty" yaml:"card_footer,omitempty"`
}

// NewDefaultAssetsConfig creates default asset configuration
func NewDefaultAssetsConfig() AssetsConfig {
	return AssetsConfig{
		FontRegularPath:        DefaultFontRegularPath,
		FontBoldPath:           DefaultFontBoldPath,
		ImageDir:               DefaultImageDir,
		RemoteFetchTimeoutSecs: DefaultRemoteFetchTimeoutSecs,
		MaxRemoteImageBytes:    DefaultMaxRemoteImageBytes,
		UserAgent:              DefaultRemoteFetchUserAgent,
		Images: ImageNames{
			ProgressMarker:  DefaultImageProgressMarker,
			TrendHeaderIcon: DefaultImageTrendHeaderIcon,
			StatsHeaderIcon: DefaultImageStatsHeaderIcon,
			CardFooter:      DefaultImageCardFooter,
		},
	}
}

// UploadConfig selects and configures the object storage backend
type UploadConfig struct {
	Target         string `json:"target,omitempty" yaml:"target,omitempty" validate:"required,uploadtarget"`
	APIBaseURL     string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty" validate:"omitempty,url"`
	BlobBaseURL    string `json:"blob_base_url,omitempty" yaml:"blob_base_url,omitempty" validate:"omitempty,url"`
	BlobToken      string `json:"blob_token,omitempty" yaml:"blob_token,omitempty"`
	BlobAPIVersion string `json:"blob_api_version,omitempty" yaml:"blob_api_version,omitempty"`
	TimeoutSecs    int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultUploadConfig creates default upload configuration
func NewDefaultUploadConfig() UploadConfig {
	return UploadConfig{
		Target:         DefaultUploadTarget,
		APIBaseURL:     DefaultAPIUploadBaseURL,
		BlobBaseURL:    DefaultBlobBaseURL,
		BlobAPIVersion: DefaultBlobAPIVersion,
		TimeoutSecs:    DefaultUploadTimeoutSecs,
	}
}

// AssetKeysConfig holds storage key templates for the four generated images.
// "{uid}" and "{weekStart}" are substituted per report.
type AssetKeysConfig struct {
	TrendProgress string `json:"trend_progress,omitempty" yaml:"trend_progress,omitempty" validate:"required"`
	DiagnosisBars string `json:"diagnosis_bars,omitempty" yaml:"diagnosis_bars,omitempty" validate:"required"`
	TrendCard     string `json:"trend_card,omitempty" yaml:"trend_card,omitempty" validate:"required"`
	StatsCard     string `json:"stats_card,omitempty" yaml:"stats_card,omitempty" validate:"required"`
}

// PipelineConfig configures a report rendering run
type PipelineConfig struct {
	AssetBaseURL   string          `json:"asset_base_url,omitempty" yaml:"asset_base_url,omitempty" validate:"required,url"`
	UseUploads     bool            `json:"use_uploads" yaml:"use_uploads"`
	AssetKeys      AssetKeysConfig `json:"asset_keys,omitempty" yaml:"asset_keys,omitempty"`
	RunTimeoutSecs int             `json:"run_timeout_secs,omitempty" yaml:"run_timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultPipelineConfig creates default pipeline configuration
func NewDefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AssetBaseURL: DefaultAssetBaseURL,
		UseUploads:   true,
		AssetKeys: AssetKeysConfig{
			TrendProgress: DefaultAssetKeyTrendProgress,
			DiagnosisBars: DefaultAssetKeyDiagnosisBars,
			TrendCard:     DefaultAssetKeyTrendCard,
			StatsCard:     DefaultAssetKeyStatsCard,
		},
		RunTimeoutSecs: DefaultRunTimeoutSecs,
	}
}
