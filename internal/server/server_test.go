package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/pipeline"
	"github.com/aleister1102/weeklywrapped/internal/rslimiter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, data models.WeeklyReportData, opts pipeline.Options) (*pipeline.Result, error) {
	args := m.Called(ctx, data, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Result), args.Error(1)
}

type stubAdmitter struct {
	err error
}

func (s stubAdmitter) Admit() error { return s.err }

const reportBody = `{"uid":"user-42","weekStart":"2024-06-03","trend":{"topicName":"#matcha","penetrationEnd":8}}`

func newTestServer(runner ReportRunner, admitter Admitter) *Server {
	pipelineCfg := config.NewDefaultPipelineConfig()
	pipelineCfg.AssetBaseURL = "https://wrapped.example.com"
	return New(config.NewDefaultServerConfig(), pipelineCfg, runner, admitter, zerolog.Nop())
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestServer(new(MockRunner), nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(new(MockRunner), nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRender_Production(t *testing.T) {
	runner := new(MockRunner)
	result := &pipeline.Result{
		RunID:  "run-1",
		HTML:   "<html>ok</html>",
		Data:   models.WeeklyReportData{UID: "user-42"},
		Assets: models.ShareAssets{TrendCardURL: "https://cdn.example.com/t.png"},
	}
	runner.On("Run", mock.Anything, mock.MatchedBy(func(d models.WeeklyReportData) bool {
		return d.UID == "user-42" && d.Trend.PenetrationEnd == 8
	}), mock.MatchedBy(func(o pipeline.Options) bool {
		return o.UseUploads && o.AssetBaseURL == "https://wrapped.example.com"
	})).Return(result, nil)

	rec := doRequest(newTestServer(runner, stubAdmitter{}), http.MethodPost, "/api/v1/reports/render", reportBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var got pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "https://cdn.example.com/t.png", got.Assets.TrendCardURL)
	runner.AssertExpectations(t)
}

func TestRender_PreviewAsHTML(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.MatchedBy(func(o pipeline.Options) bool {
		return !o.UseUploads
	})).Return(&pipeline.Result{HTML: "<html>preview</html>"}, nil)

	rec := doRequest(newTestServer(runner, nil), http.MethodPost, "/api/v1/reports/render?preview=true&format=html", reportBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>preview</html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	runner.AssertExpectations(t)
}

func TestRender_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{name: "malformed json", target: "/api/v1/reports/render", body: `{"uid":`},
		{name: "missing uid", target: "/api/v1/reports/render", body: `{"weekStart":"2024-06-03"}`},
		{name: "bad preview flag", target: "/api/v1/reports/render?preview=maybe", body: reportBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockRunner)
			rec := doRequest(newTestServer(runner, nil), http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRender_AdmissionRejected(t *testing.T) {
	runner := new(MockRunner)
	admitter := stubAdmitter{err: rslimiter.ErrResourceExhausted}

	rec := doRequest(newTestServer(runner, admitter), http.MethodPost, "/api/v1/reports/render", reportBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestRender_RunErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "upload failure", err: errorwrapper.NewUploadError("api", "k", 500, "boom", nil), code: http.StatusBadGateway},
		{name: "invalid input", err: errorwrapper.NewValidationError("assetKeys", nil, "collide"), code: http.StatusBadRequest},
		{name: "timeout", err: context.DeadlineExceeded, code: http.StatusGatewayTimeout},
		{name: "other", err: errors.New("render failed"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockRunner)
			runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(newTestServer(runner, nil), http.MethodPost, "/api/v1/reports/render", reportBody)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
