package httpclient

import (
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// HTTPClientBuilder assembles an HTTPClient. Asset fetching and uploads each
// build their own client so their timeouts and size caps stay independent.
type HTTPClientBuilder struct {
	config HTTPClientConfig
	logger zerolog.Logger
}

func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithFollowRedirects(false) returns 3xx answers as-is; upload backends
// must never be redirected with a request body.
func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

func (b *HTTPClientBuilder) WithMaxRedirects(max int) *HTTPClientBuilder {
	b.config.MaxRedirects = max
	return b
}

func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithMaxContentSize caps bodies accepted by FetchContent; 0 disables the cap.
func (b *HTTPClientBuilder) WithMaxContentSize(size int) *HTTPClientBuilder {
	b.config.MaxContentSize = size
	return b
}

// WithHeader adds a header sent with every request.
func (b *HTTPClientBuilder) WithHeader(key, value string) *HTTPClientBuilder {
	if b.config.CustomHeaders == nil {
		b.config.CustomHeaders = make(map[string]string)
	}
	b.config.CustomHeaders[key] = value
	return b
}

func (b *HTTPClientBuilder) WithHTTP2(enabled bool) *HTTPClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// Build validates the configuration and creates the client.
func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	switch {
	case b.config.Timeout <= 0:
		return nil, errorwrapper.NewValidationError("timeout", b.config.Timeout, "must be positive")
	case b.config.MaxContentSize < 0:
		return nil, errorwrapper.NewValidationError("max_content_size", b.config.MaxContentSize, "must not be negative")
	case b.config.MaxRedirects < 0:
		return nil, errorwrapper.NewValidationError("max_redirects", b.config.MaxRedirects, "must not be negative")
	}
	return NewHTTPClient(b.config, b.logger)
}
