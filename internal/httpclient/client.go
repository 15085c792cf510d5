package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps net/http.Client for asset fetches and uploads.
// Every call is a single attempt; callers decide whether a failure is fatal.
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := newTransport(config)
	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := &http.Client{
		Transport:     transport,
		Timeout:       config.Timeout,
		CheckRedirect: redirectPolicy(config),
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_content_size", config.MaxContentSize).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{client: client, config: config, logger: logger}, nil
}

func newTransport(config HTTPClientConfig) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}
}

// redirectPolicy returns nil for net/http's default of ten hops.
func redirectPolicy(config HTTPClientConfig) func(*http.Request, []*http.Request) error {
	switch {
	case !config.FollowRedirects:
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case config.MaxRedirects > 0:
		return func(_ *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	default:
		return nil
	}
}

// Do performs one request and reads the whole body. Non-2xx statuses are
// returned as responses, not errors. With MaxContentSize set, a larger
// body fails with ContentTooLargeError without being read past the cap.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}
	c.applyHeaders(httpReq, req.Headers)

	started := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(req.URL, resp.Body)
	if err != nil {
		return nil, err
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
		Body:       body,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			httpResp.Headers[key] = values[0]
		}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status_code", resp.StatusCode).
		Int("body_bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("HTTP request completed")
	return httpResp, nil
}

func (c *HTTPClient) applyHeaders(httpReq *http.Request, headers map[string]string) {
	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}
}

func (c *HTTPClient) readBody(url string, body io.Reader) ([]byte, error) {
	limit := c.config.MaxContentSize
	if limit <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, NewNetworkError(url, "failed to read response body", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, int64(limit)+1))
	if err != nil {
		return nil, NewNetworkError(url, "failed to read response body", err)
	}
	if len(data) > limit {
		return nil, &ContentTooLargeError{URL: url, Size: len(data), Limit: limit}
	}
	return data, nil
}

// FetchContentInput holds parameters for FetchContent.
type FetchContentInput struct {
	URL     string
	Accept  string
	Context context.Context
}

// FetchContentResult holds results from FetchContent.
type FetchContentResult struct {
	Content        []byte
	ContentType    string
	HTTPStatusCode int
}

// FetchContent performs a single GET and requires a 2xx answer. On a
// non-2xx answer the result carries the status but no content.
func (c *HTTPClient) FetchContent(input FetchContentInput) (*FetchContentResult, error) {
	headers := map[string]string{}
	if input.Accept != "" {
		headers["Accept"] = input.Accept
	}

	resp, err := c.Do(&HTTPRequest{
		URL:     input.URL,
		Method:  http.MethodGet,
		Headers: headers,
		Context: input.Context,
	})
	if err != nil {
		return nil, err
	}

	result := &FetchContentResult{
		ContentType:    resp.Headers["Content-Type"],
		HTTPStatusCode: resp.StatusCode,
	}
	if !resp.IsSuccess() {
		return result, NewHTTPError(resp.StatusCode, resp.Body, input.URL)
	}
	result.Content = resp.Body
	return result, nil
}
