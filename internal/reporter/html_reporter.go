package reporter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/rs/zerolog"
)

//go:embed templates/weekly_report.html.tmpl
var defaultTemplate embed.FS

// WeeklyReportPage is the data handed to the report template.
type WeeklyReportPage struct {
	Title          string
	Report         models.WeeklyReportData
	UnsubscribeURL string
}

// HtmlReporter renders a weekly report document from its data object.
type HtmlReporter struct {
	cfg         *config.ReporterConfig
	logger      zerolog.Logger
	template    *template.Template
	fileManager *filemanager.FileManager
}

// NewHtmlReporter parses the configured template, or the embedded one.
func NewHtmlReporter(cfg *config.ReporterConfig, appLogger zerolog.Logger) (*HtmlReporter, error) {
	moduleLogger := appLogger.With().Str("module", "HtmlReporter").Logger()
	if cfg == nil {
		defaults := config.NewDefaultReporterConfig()
		cfg = &defaults
	}

	reporter := &HtmlReporter{
		cfg:         cfg,
		logger:      moduleLogger,
		fileManager: filemanager.NewFileManager(moduleLogger),
	}

	if err := reporter.setupTemplate(); err != nil {
		return nil, err
	}

	moduleLogger.Debug().Str("template", reporter.template.Name()).Msg("HtmlReporter initialized")
	return reporter, nil
}

// setupTemplate initializes the HTML template with function map
func (r *HtmlReporter) setupTemplate() error {
	if r.cfg.TemplatePath != "" {
		return r.loadCustomTemplate()
	}
	return r.loadEmbeddedTemplate()
}

// loadCustomTemplate loads template from file path
func (r *HtmlReporter) loadCustomTemplate() error {
	r.logger.Info().Str("template_path", r.cfg.TemplatePath).Msg("Loading custom report template from file.")

	customTmpl := template.New(filepath.Base(r.cfg.TemplatePath)).Funcs(GetCommonTemplateFunctions())
	if _, err := customTmpl.ParseFiles(r.cfg.TemplatePath); err != nil {
		r.logger.Error().Err(err).Str("path", r.cfg.TemplatePath).Msg("Failed to parse custom report template.")
		return fmt.Errorf("failed to parse custom report template '%s': %w", r.cfg.TemplatePath, err)
	}

	r.template = customTmpl
	return nil
}

// loadEmbeddedTemplate loads the default embedded template
func (r *HtmlReporter) loadEmbeddedTemplate() error {
	templateContent, err := fs.ReadFile(defaultTemplate, embeddedWeeklyTemplate)
	if err != nil {
		return fmt.Errorf("failed to load embedded report template: %w", err)
	}

	cleanedContent := strings.ReplaceAll(string(templateContent), "\r\n", "\n")
	tmpl, err := template.New(defaultWeeklyTemplateName).Funcs(GetCommonTemplateFunctions()).Parse(cleanedContent)
	if err != nil {
		return fmt.Errorf("failed to parse embedded report template: %w", err)
	}

	r.template = tmpl
	return nil
}

// Render executes the template once for data.
func (r *HtmlReporter) Render(data models.WeeklyReportData) (string, error) {
	page := WeeklyReportPage{
		Title:          r.title(),
		Report:         data,
		UnsubscribeURL: r.unsubscribeURL(data),
	}

	var htmlBuffer bytes.Buffer
	if err := r.template.Execute(&htmlBuffer, page); err != nil {
		r.logger.Error().Err(err).Str("uid", data.UID).Msg("Failed to execute template")
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return htmlBuffer.String(), nil
}

// WriteReport stores html under the output directory and returns its path.
func (r *HtmlReporter) WriteReport(html string, data models.WeeklyReportData) (string, error) {
	outputDir := r.cfg.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultReporterOutputDir
	}
	name := fmt.Sprintf("weekly-%s-%s.html", pathSafe(data.UID), pathSafe(data.WeekStart))
	outputPath := filepath.Join(outputDir, name)

	opts := filemanager.DefaultFileWriteOptions()
	opts.Permissions = FilePermissions
	opts.CreateDirs = true
	opts.Atomic = true
	if err := r.fileManager.WriteFile(outputPath, []byte(html), opts); err != nil {
		r.logger.Error().Err(err).Str("output", outputPath).Msg("Failed to write report file")
		return "", fmt.Errorf("failed to write report to %s: %w", outputPath, err)
	}

	r.logger.Info().Str("path", outputPath).Int("bytes", len(html)).Msg("Weekly report written")
	return outputPath, nil
}

func (r *HtmlReporter) title() string {
	if r.cfg.ReportTitle != "" {
		return r.cfg.ReportTitle
	}
	return DefaultReportTitle
}

// unsubscribeURL prefers the report's own link, then the configured base with the uid appended.
func (r *HtmlReporter) unsubscribeURL(data models.WeeklyReportData) string {
	if data.Footer.UnsubscribeURL != "" {
		return data.Footer.UnsubscribeURL
	}
	if r.cfg.UnsubscribeBaseURL == "" || data.UID == "" {
		return ""
	}
	u, err := url.Parse(r.cfg.UnsubscribeBaseURL)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Invalid unsubscribe base URL")
		return ""
	}
	q := u.Query()
	q.Set("uid", data.UID)
	u.RawQuery = q.Encode()
	return u.String()
}

func pathSafe(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
