package config

// ReporterConfig defines configuration for the weekly report HTML document
type ReporterConfig struct {
	OutputDir    string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	ReportTitle  string `json:"report_title,omitempty" yaml:"report_title,omitempty"`
	TemplatePath string `json:"template_path,omitempty" yaml:"template_path,omitempty" validate:"omitempty,fileexists"`
	// UnsubscribeBaseURL is rendered as-is in the footer; it is never rewritten.
	UnsubscribeBaseURL string `json:"unsubscribe_base_url,omitempty" yaml:"unsubscribe_base_url,omitempty" validate:"omitempty,url"`
}

// NewDefaultReporterConfig creates default reporter configuration
func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		OutputDir:    DefaultReporterOutputDir,
		ReportTitle:  DefaultReportTitle,
		TemplatePath: "",
	}
}
