package uploader

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/httpclient"
	"github.com/rs/zerolog"
)

// APIUploader posts images to the application's upload endpoint.
type APIUploader struct {
	endpoint string
	client   *httpclient.HTTPClient
	logger   zerolog.Logger
}

// NewAPIUploader targets {api_base_url}/upload.
func NewAPIUploader(cfg config.UploadConfig, client *httpclient.HTTPClient, logger zerolog.Logger) (*APIUploader, error) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errorwrapper.NewConfigurationError("upload.api_base_url", "required for the api target")
	}
	return &APIUploader{
		endpoint: strings.TrimRight(cfg.APIBaseURL, "/") + "/upload",
		client:   client,
		logger:   logger.With().Str("module", "APIUploader").Logger(),
	}, nil
}

func (u *APIUploader) Name() string { return BackendAPI }

// Upload sends data as the multipart field "file". Anything but a 2xx
// response carrying a url is an error.
func (u *APIUploader) Upload(ctx context.Context, data []byte, key string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("key", key); err != nil {
		return "", errorwrapper.NewUploadError(BackendAPI, key, 0, "failed to write key field", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, path.Base(key)))
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", errorwrapper.NewUploadError(BackendAPI, key, 0, "failed to create file part", err)
	}
	if _, err = part.Write(data); err != nil {
		return "", errorwrapper.NewUploadError(BackendAPI, key, 0, "failed to write file part", err)
	}
	if err = writer.Close(); err != nil {
		return "", errorwrapper.NewUploadError(BackendAPI, key, 0, "failed to close multipart writer", err)
	}

	resp, err := u.client.Do(&httpclient.HTTPRequest{
		URL:     u.endpoint,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": writer.FormDataContentType(), "Accept": "application/json"},
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		return "", errorwrapper.NewUploadError(BackendAPI, key, 0, "request failed", err)
	}
	if !resp.IsSuccess() {
		u.logger.Error().Int("status_code", resp.StatusCode).Str("key", key).Msg("Upload endpoint rejected image")
		return "", errorwrapper.NewUploadError(BackendAPI, key, resp.StatusCode, truncateBody(resp.Body), nil)
	}

	url, err := parseURLResponse(BackendAPI, key, resp.StatusCode, resp.Body)
	if err != nil {
		return "", err
	}
	u.logger.Debug().Str("key", key).Str("url", url).Int("bytes", len(data)).Msg("Uploaded image")
	return url, nil
}
