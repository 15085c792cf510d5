package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/metrics"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/pipeline"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// admission refuses work while the resource limiter reports pressure.
func (s *Server) admission(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.admitter == nil {
			return next(c)
		}
		if err := s.admitter.Admit(); err != nil {
			metrics.RecordAdmissionRejected()
			s.logger.Warn().Err(err).Msg("Render request rejected")
			c.Response().Header().Set("Retry-After", "5")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "server busy, retry later")
		}
		return next(c)
	}
}

// handleRender runs the pipeline for a report in the request body.
// ?preview=true selects preview mode; ?format=html returns the document only.
func (s *Server) handleRender(c echo.Context) error {
	var data models.WeeklyReportData
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report body")
	}
	if err := c.Validate(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opts := pipeline.OptionsFromConfig(s.pipeline)
	if raw := c.QueryParam("preview"); raw != "" {
		preview, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "preview must be a boolean")
		}
		opts.UseUploads = !preview
	}

	ctx := c.Request().Context()
	if s.pipeline.RunTimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.pipeline.RunTimeoutSecs)*time.Second)
		defer cancel()
	}

	result, err := s.runner.Run(ctx, data, opts)
	if err != nil {
		return mapRunError(err)
	}

	if c.QueryParam("format") == "html" {
		return c.HTML(http.StatusOK, result.HTML)
	}
	return c.JSON(http.StatusOK, result)
}

// mapRunError converts a pipeline error into an HTTP error.
func mapRunError(err error) *echo.HTTPError {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, errorwrapper.ErrInvalidInput):
		httpErr = echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errorwrapper.ErrServiceUnavailable):
		httpErr = echo.NewHTTPError(http.StatusServiceUnavailable, "server busy, retry later")
	case errors.Is(err, errorwrapper.ErrUploadFailed):
		httpErr = echo.NewHTTPError(http.StatusBadGateway, "asset upload failed")
	case errors.Is(err, context.DeadlineExceeded):
		httpErr = echo.NewHTTPError(http.StatusGatewayTimeout, "report run timed out")
	default:
		httpErr = echo.NewHTTPError(http.StatusInternalServerError, "report run failed")
	}
	return httpErr.SetInternal(err)
}
