package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/metrics"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/render"
	"github.com/aleister1102/weeklywrapped/internal/reporter"
	"github.com/aleister1102/weeklywrapped/internal/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Stage names used in logs and metrics.
const (
	StageBasicCharts = "basic_charts"
	StageShareCards  = "share_cards"
	StageLinks       = "link_rewrite"
	StageRender      = "render_html"
)

// ErrTrackedLinkInPreview is returned when a preview document still links to
// the share download or redirect pages.
var ErrTrackedLinkInPreview = errors.New("preview document contains tracked share links")

// Options configures a single run.
type Options struct {
	AssetBaseURL string
	AssetKeys    models.AssetKeySet
	// UseUploads selects production mode. When false every image is inlined
	// and share links are cleared.
	UseUploads bool
	// SVGDir, when set, receives the vector document of every rendered image.
	SVGDir string
	// RunID names the run; a random id is generated when empty.
	RunID string
}

// OptionsFromConfig builds run options from the pipeline configuration.
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	return Options{
		AssetBaseURL: cfg.AssetBaseURL,
		UseUploads:   cfg.UseUploads,
		AssetKeys: models.AssetKeySet{
			TrendProgress: cfg.AssetKeys.TrendProgress,
			DiagnosisBars: cfg.AssetKeys.DiagnosisBars,
			TrendCard:     cfg.AssetKeys.TrendCard,
			StatsCard:     cfg.AssetKeys.StatsCard,
		},
	}
}

// Result is a completed run.
type Result struct {
	RunID  string                  `json:"runId"`
	HTML   string                  `json:"html"`
	Data   models.WeeklyReportData `json:"data"`
	Assets models.ShareAssets      `json:"assets"`
}

// RunRecorder stores completed runs.
type RunRecorder interface {
	Record(ctx context.Context, rec models.RunRecord) error
}

// Dependencies are the collaborators a Pipeline is built from.
type Dependencies struct {
	Loader   *assets.Loader
	Renderer *render.Renderer
	// Uploader is used in production mode; preview runs always inline.
	Uploader uploader.Uploader
	Reporter *reporter.HtmlReporter
	History  RunRecorder
	Images   config.ImageNames
}

// Pipeline renders, uploads and links the images of weekly reports.
// A Pipeline holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	loader      *assets.Loader
	renderer    *render.Renderer
	uploader    uploader.Uploader
	reporter    *reporter.HtmlReporter
	history     RunRecorder
	images      config.ImageNames
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

// NewPipeline checks deps and returns a Pipeline.
func NewPipeline(deps Dependencies, logger zerolog.Logger) (*Pipeline, error) {
	if deps.Loader == nil || deps.Renderer == nil || deps.Reporter == nil {
		return nil, errorwrapper.NewConfigurationError("pipeline", "loader, renderer and reporter are required")
	}
	moduleLogger := logger.With().Str("module", "Pipeline").Logger()
	return &Pipeline{
		loader:      deps.Loader,
		renderer:    deps.Renderer,
		uploader:    deps.Uploader,
		reporter:    deps.Reporter,
		history:     deps.History,
		images:      deps.Images,
		fileManager: filemanager.NewFileManager(moduleLogger),
		logger:      moduleLogger,
	}, nil
}

// runState is what the stages of one run share.
type runState struct {
	id       string
	opts     Options
	keys     models.AssetKeySet
	uploader uploader.Uploader
	logger   zerolog.Logger
}

// Run executes the four stages on a copy of data. Any failure aborts the run
// and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, data models.WeeklyReportData, opts Options) (*Result, error) {
	started := time.Now()
	mode := models.RunModePreview
	if opts.UseUploads {
		mode = models.RunModeUpload
	}

	result, err := p.run(ctx, data, opts, mode, started)
	metrics.RecordRun(mode, metrics.StatusOf(err), time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, data models.WeeklyReportData, opts Options, mode string, started time.Time) (*Result, error) {
	state, err := p.newRunState(data, opts, mode)
	if err != nil {
		return nil, err
	}
	log := state.logger
	log.Info().Str("backend", state.uploader.Name()).Msg("Starting report run")

	values := DeriveChartValues(data)

	var charted models.WeeklyReportData
	if err := p.timeStage(ctx, StageBasicCharts, log, func() error {
		charted, err = p.basicChartStage(ctx, state, data, values)
		return err
	}); err != nil {
		return nil, err
	}

	var share models.ShareAssets
	if err := p.timeStage(ctx, StageShareCards, log, func() error {
		share, err = p.shareCardStage(ctx, state, values)
		return err
	}); err != nil {
		return nil, err
	}

	var linked models.WeeklyReportData
	if err := p.timeStage(ctx, StageLinks, log, func() error {
		linked, err = rewriteLinks(charted, share, opts)
		return err
	}); err != nil {
		return nil, err
	}

	var html string
	if err := p.timeStage(ctx, StageRender, log, func() error {
		html, err = p.renderStage(linked, opts)
		return err
	}); err != nil {
		return nil, err
	}

	result := &Result{RunID: state.id, HTML: html, Data: linked, Assets: share}
	p.recordRun(ctx, state, mode, result, time.Since(started))

	log.Info().
		Int("html_bytes", len(html)).
		Dur("duration", time.Since(started)).
		Msg("Report run completed")
	return result, nil
}

func (p *Pipeline) newRunState(data models.WeeklyReportData, opts Options, mode string) (*runState, error) {
	id := opts.RunID
	if id == "" {
		id = uuid.NewString()
	}
	state := &runState{
		id:       id,
		opts:     opts,
		keys:     opts.AssetKeys.Expand(data.UID, data.WeekStart),
		uploader: uploader.NewInlineUploader(),
	}
	state.logger = p.logger.With().
		Str("run_id", state.id).
		Str("uid", data.UID).
		Str("week_start", data.WeekStart).
		Str("mode", mode).
		Logger()

	if !opts.UseUploads {
		return state, nil
	}
	if p.uploader == nil {
		return nil, errorwrapper.NewConfigurationError("pipeline.uploader", "no upload backend configured for production runs")
	}
	if err := state.keys.Validate(); err != nil {
		return nil, errorwrapper.NewValidationError("assetKeys", opts.AssetKeys, err.Error())
	}
	if _, err := NewLinkBuilder(opts.AssetBaseURL, data.UID, data.WeekStart); err != nil {
		return nil, err
	}
	state.uploader = p.uploader
	return state, nil
}

// timeStage runs fn unless ctx is already done and records its duration.
func (p *Pipeline) timeStage(ctx context.Context, stage string, log zerolog.Logger, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled before %s: %w", stage, err)
	}
	start := time.Now()
	err := fn()
	metrics.RecordStage(stage, time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("stage", stage).Msg("Stage failed")
		return fmt.Errorf("%s: %w", stage, err)
	}
	log.Debug().Str("stage", stage).Dur("duration", time.Since(start)).Msg("Stage completed")
	return nil
}

// renderStage is stage 4.
func (p *Pipeline) renderStage(d models.WeeklyReportData, opts Options) (string, error) {
	html, err := p.reporter.Render(d)
	if err != nil {
		return "", err
	}
	if opts.UseUploads {
		return html, nil
	}

	tracked, err := reporter.AuditLinks(html)
	if err != nil {
		return "", err
	}
	if len(tracked) > 0 {
		return "", fmt.Errorf("%w: %d found, first %s", ErrTrackedLinkInPreview, len(tracked), tracked[0].URL)
	}
	return html, nil
}

// recordRun stores the run in history. Failures are logged only.
func (p *Pipeline) recordRun(ctx context.Context, state *runState, mode string, result *Result, elapsed time.Duration) {
	if p.history == nil {
		return
	}
	sum := sha256.Sum256([]byte(result.HTML))
	rec := models.RunRecord{
		RunID:        state.id,
		UID:          result.Data.UID,
		WeekStart:    result.Data.WeekStart,
		Mode:         mode,
		UploadTarget: state.uploader.Name(),
		HTMLSHA256:   hex.EncodeToString(sum[:]),
		HTMLBytes:    int64(len(result.HTML)),
		DurationMs:   elapsed.Milliseconds(),
		CompletedAt:  time.Now().UTC(),
	}
	// inline cards are whole PNGs; only public URLs are worth keeping
	if mode == models.RunModeUpload {
		rec.TrendCardURL = result.Assets.TrendCardURL
		rec.StatsCardURL = result.Assets.StatsCardURL
	}
	if err := p.history.Record(ctx, rec); err != nil {
		state.logger.Warn().Err(err).Msg("Failed to record run history")
	}
}
