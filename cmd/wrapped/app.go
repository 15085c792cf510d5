package main

import (
	"fmt"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/history"
	"github.com/aleister1102/weeklywrapped/internal/pipeline"
	"github.com/aleister1102/weeklywrapped/internal/render"
	"github.com/aleister1102/weeklywrapped/internal/reporter"
	"github.com/aleister1102/weeklywrapped/internal/uploader"
	"github.com/rs/zerolog"
)

// app holds the long-lived collaborators shared by the commands.
type app struct {
	pipeline *pipeline.Pipeline
	reporter *reporter.HtmlReporter
	history  *history.Store
	logger   zerolog.Logger
}

// newApp builds the pipeline from cfg. useUploads selects whether a
// production uploader is constructed at all.
func newApp(cfg *config.GlobalConfig, useUploads bool, logger zerolog.Logger) (*app, error) {
	loader, err := assets.NewLoader(cfg.AssetsConfig, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("asset loader: %w", err)
	}
	fonts, err := loader.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	renderer, err := render.NewRenderer(fonts, logger)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	up, err := uploader.New(cfg.UploadConfig, useUploads, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("uploader: %w", err)
	}
	rep, err := reporter.NewHtmlReporter(&cfg.ReporterConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("reporter: %w", err)
	}

	a := &app{reporter: rep, logger: logger}
	deps := pipeline.Dependencies{
		Loader:   loader,
		Renderer: renderer,
		Uploader: up,
		Reporter: rep,
		Images:   cfg.AssetsConfig.Images,
	}
	if cfg.HistoryConfig.Enabled {
		store, err := history.NewStore(cfg.HistoryConfig.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		a.history = store
		deps.History = store
	}

	p, err := pipeline.NewPipeline(deps, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.pipeline = p
	return a, nil
}

// Close releases the history store if one was opened.
func (a *app) Close() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close history store")
	}
}
