package httpclient

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure; no HTTP status is available.
type NetworkError struct {
	URL     string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %s: %v", e.URL, e.Message, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewNetworkError(url, message string, err error) error {
	return &NetworkError{URL: url, Message: message, Err: err}
}

// HTTPError is a non-2xx answer. Body is truncated to the first KiB.
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s answered %d: %s", e.URL, e.StatusCode, e.Body)
}

func NewHTTPError(statusCode int, body []byte, url string) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{StatusCode: statusCode, Body: string(body), URL: url}
}

// ContentTooLargeError reports a body above the configured MaxContentSize.
type ContentTooLargeError struct {
	URL   string
	Size  int
	Limit int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("%s returned %d bytes, limit is %d", e.URL, e.Size, e.Limit)
}

const maxErrorBody = 1024

// StatusCode extracts the HTTP status from err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
