package assets

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// DefaultImageMIME is used when a payload's type cannot be determined.
const DefaultImageMIME = "image/png"

// EncodeDataURI wraps data as a base64 data URI. An empty mimeType defaults to PNG.
func EncodeDataURI(mimeType string, data []byte) string {
	mimeType = normalizeMIME(mimeType)
	if mimeType == "" {
		mimeType = DefaultImageMIME
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri has no payload separator")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data uri payload: %w", err)
	}
	if mimeType == "" {
		mimeType = DefaultImageMIME
	}
	return mimeType, data, nil
}

// IsDataURI reports whether s is an inline payload.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// detectMIME picks a type from the file extension, then from the content.
func detectMIME(name string, data []byte) string {
	if byExt := normalizeMIME(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	if sniffed := normalizeMIME(http.DetectContentType(data)); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return DefaultImageMIME
}

// normalizeMIME drops parameters such as "; charset=binary".
func normalizeMIME(v string) string {
	v, _, _ = strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(v))
}
