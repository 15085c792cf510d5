package uploader

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/httpclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.NewDefaultUploadConfig()

	u, err := New(cfg, false, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, BackendInline, u.Name())

	cfg.Target = config.UploadTargetAPI
	u, err = New(cfg, true, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, BackendAPI, u.Name())

	cfg.Target = config.UploadTargetVercel
	cfg.BlobToken = "token"
	u, err = New(cfg, true, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, BackendVercel, u.Name())

	cfg.Target = "s3"
	_, err = New(cfg, true, nil, zerolog.Nop())
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))
}

func TestBlobUploader_RequiresToken(t *testing.T) {
	cfg := config.NewDefaultUploadConfig()
	cfg.Target = config.UploadTargetVercel
	cfg.BlobToken = ""

	_, err := New(cfg, true, nil, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))
}

func TestBlobUploader_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/reports/u1/2024-06-03/trend-card.png", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "0", r.Header.Get("x-add-random-suffix"))
		assert.Equal(t, "1", r.Header.Get("x-allow-overwrite"))
		assert.Equal(t, "image/png", r.Header.Get("x-content-type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, pngBytes, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/reports/u1/2024-06-03/trend-card.png","pathname":"reports/u1/2024-06-03/trend-card.png"}`))
	}))
	defer server.Close()

	cfg := config.NewDefaultUploadConfig()
	cfg.BlobBaseURL = server.URL
	cfg.BlobToken = "secret"

	u, err := NewBlobUploader(cfg, newTestClient(t), zerolog.Nop())
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), pngBytes, "reports/u1/2024-06-03/trend-card.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/reports/u1/2024-06-03/trend-card.png", url)
}

func TestAPIUploader_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, pngBytes, data)
		assert.Equal(t, "stats-card.png", header.Filename)
		assert.Equal(t, "cards/stats-card.png", r.FormValue("key"))

		_, _ = w.Write([]byte(`{"url":"https://files.example.com/stats-card.png"}`))
	}))
	defer server.Close()

	u := newAPIUploader(t, server.URL+"/api")
	url, err := u.Upload(context.Background(), pngBytes, "cards/stats-card.png")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/stats-card.png", url)
}

func TestAPIUploader_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantStatus: 500},
		{name: "missing url", status: http.StatusOK, body: `{"ok":true}`, wantStatus: 200},
		{name: "empty url", status: http.StatusOK, body: `{"url":""}`, wantStatus: 200},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			u := newAPIUploader(t, server.URL)
			url, err := u.Upload(context.Background(), pngBytes, "k.png")
			require.Error(t, err)
			assert.Empty(t, url)
			assert.True(t, errors.Is(err, errorwrapper.ErrUploadFailed))

			var uploadErr *errorwrapper.UploadError
			require.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, tt.wantStatus, uploadErr.StatusCode)
			assert.Equal(t, BackendAPI, uploadErr.Backend)
		})
	}
}

func TestAPIUploader_RequiresBaseURL(t *testing.T) {
	cfg := config.NewDefaultUploadConfig()
	cfg.APIBaseURL = ""
	_, err := NewAPIUploader(cfg, newTestClient(t), zerolog.Nop())
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))
}

func TestInlineUploader(t *testing.T) {
	url, err := NewInlineUploader().Upload(context.Background(), pngBytes, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes), url)
}

func newAPIUploader(t *testing.T, baseURL string) *APIUploader {
	t.Helper()
	cfg := config.NewDefaultUploadConfig()
	cfg.APIBaseURL = baseURL
	u, err := NewAPIUploader(cfg, newTestClient(t), zerolog.Nop())
	require.NoError(t, err)
	return u
}

func newTestClient(t *testing.T) *httpclient.HTTPClient {
	t.Helper()
	client, err := httpclient.NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)
	return client
}
