package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/pipeline"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ReportRunner runs the report pipeline.
type ReportRunner interface {
	Run(ctx context.Context, data models.WeeklyReportData, opts pipeline.Options) (*pipeline.Result, error)
}

// Admitter decides whether a new render may start.
type Admitter interface {
	Admit() error
}

// Server exposes the pipeline over HTTP.
type Server struct {
	echo     *echo.Echo
	cfg      config.ServerConfig
	pipeline config.PipelineConfig
	runner   ReportRunner
	admitter Admitter
	logger   zerolog.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// New wires routes and middleware. admitter may be nil.
func New(cfg config.ServerConfig, pipelineCfg config.PipelineConfig, runner ReportRunner, admitter Admitter, logger zerolog.Logger) *Server {
	s := &Server{
		echo:     echo.New(),
		cfg:      cfg,
		pipeline: pipelineCfg,
		runner:   runner,
		admitter: admitter,
		logger:   logger.With().Str("module", "Server").Logger(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("Request completed")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	if s.cfg.MaxBodySize != "" {
		api.Use(middleware.BodyLimit(s.cfg.MaxBodySize))
	}
	api.POST("/reports/render", s.handleRender, s.admission)

	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.cfg.ListenAddr).Msg("Starting render server")
		if err := s.echo.Start(s.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := time.Duration(s.cfg.ShutdownTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultServerShutdownTimeoutSecs) * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Dur("timeout", timeout).Msg("Shutting down render server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
