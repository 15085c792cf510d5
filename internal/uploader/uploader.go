package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/httpclient"
	"github.com/rs/zerolog"
)

// Uploader stores a PNG under a key and returns a URL that resolves to it.
type Uploader interface {
	Upload(ctx context.Context, data []byte, key string) (string, error)
	Name() string
}

// Backend names.
const (
	BackendInline = "inline"
	BackendAPI    = config.UploadTargetAPI
	BackendVercel = config.UploadTargetVercel
)

// New selects the backend once. When useUploads is false the inline
// backend is returned and no network client is created.
func New(cfg config.UploadConfig, useUploads bool, client *httpclient.HTTPClient, logger zerolog.Logger) (Uploader, error) {
	if !useUploads {
		return NewInlineUploader(), nil
	}

	if client == nil {
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = time.Duration(config.DefaultUploadTimeoutSecs) * time.Second
		}
		built, err := httpclient.NewHTTPClientBuilder(logger).
			WithTimeout(timeout).
			WithFollowRedirects(false).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create upload http client: %w", err)
		}
		client = built
	}

	switch strings.ToLower(cfg.Target) {
	case BackendVercel:
		u, err := NewBlobUploader(cfg, client, logger)
		if err != nil {
			return nil, err
		}
		return u, nil
	case BackendAPI:
		u, err := NewAPIUploader(cfg, client, logger)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, errorwrapper.NewConfigurationError("upload.target", fmt.Sprintf("unknown upload target %q", cfg.Target))
	}
}

type urlResponse struct {
	URL string `json:"url"`
}

// parseURLResponse requires a JSON body with a non-empty url field.
func parseURLResponse(backend, key string, status int, body []byte) (string, error) {
	var parsed urlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errorwrapper.NewUploadError(backend, key, status, "response is not valid JSON", err)
	}
	if strings.TrimSpace(parsed.URL) == "" {
		return "", errorwrapper.NewUploadError(backend, key, status, "response has no url field", nil)
	}
	return parsed.URL, nil
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
