package uploader

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/httpclient"
	"github.com/rs/zerolog"
)

// BlobUploader writes objects to Vercel Blob storage with a read-write token.
// Keys are stored verbatim and overwritten on re-upload.
type BlobUploader struct {
	baseURL    string
	token      string
	apiVersion string
	client     *httpclient.HTTPClient
	logger     zerolog.Logger
}

// NewBlobUploader fails when no token is configured.
func NewBlobUploader(cfg config.UploadConfig, client *httpclient.HTTPClient, logger zerolog.Logger) (*BlobUploader, error) {
	if strings.TrimSpace(cfg.BlobToken) == "" {
		return nil, errorwrapper.NewConfigurationError("upload.blob_token", "a blob read-write token is required for the vercel target")
	}
	baseURL := cfg.BlobBaseURL
	if baseURL == "" {
		baseURL = config.DefaultBlobBaseURL
	}
	apiVersion := cfg.BlobAPIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultBlobAPIVersion
	}
	return &BlobUploader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.BlobToken,
		apiVersion: apiVersion,
		client:     client,
		logger:     logger.With().Str("module", "BlobUploader").Logger(),
	}, nil
}

func (u *BlobUploader) Name() string { return BackendVercel }

// Upload PUTs data to {base}/{key} and returns the public URL assigned by the store.
func (u *BlobUploader) Upload(ctx context.Context, data []byte, key string) (string, error) {
	if key == "" {
		return "", errorwrapper.NewUploadError(BackendVercel, key, 0, "empty key", nil)
	}
	target := u.baseURL + "/" + strings.TrimLeft(key, "/")

	resp, err := u.client.Do(&httpclient.HTTPRequest{
		URL:    target,
		Method: http.MethodPut,
		Headers: map[string]string{
			"Authorization":       "Bearer " + u.token,
			"Content-Type":        "image/png",
			"x-api-version":       u.apiVersion,
			"x-content-type":      "image/png",
			"x-add-random-suffix": "0",
			"x-allow-overwrite":   "1",
		},
		Body:    bytes.NewReader(data),
		Context: ctx,
	})
	if err != nil {
		return "", errorwrapper.NewUploadError(BackendVercel, key, 0, "request failed", err)
	}
	if !resp.IsSuccess() {
		return "", errorwrapper.NewUploadError(BackendVercel, key, resp.StatusCode, truncateBody(resp.Body), nil)
	}

	url, err := parseURLResponse(BackendVercel, key, resp.StatusCode, resp.Body)
	if err != nil {
		return "", err
	}
	u.logger.Debug().Str("key", key).Str("url", url).Int("bytes", len(data)).Msg("Uploaded blob")
	return url, nil
}
