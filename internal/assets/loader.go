package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/httpclient"
	"github.com/rs/zerolog"
)

// ErrMissingFont is returned when a configured font file cannot be read.
var ErrMissingFont = errors.New("font file missing")

const maxLocalAssetBytes = 16 * 1024 * 1024

// Fonts holds the raw font binaries for both supported weights.
type Fonts struct {
	Regular []byte
	Bold    []byte
}

// Loader resolves fonts and images into embeddable payloads. Fonts and local
// images are cached for the lifetime of the Loader and never invalidated;
// remote images are fetched on every call.
type Loader struct {
	cfg         config.AssetsConfig
	httpClient  *httpclient.HTTPClient
	fileManager *filemanager.FileManager
	logger      zerolog.Logger

	mu     sync.RWMutex
	fonts  *Fonts
	images map[string]string
}

// NewLoader creates a Loader. A nil client is replaced by one built from cfg.
func NewLoader(cfg config.AssetsConfig, client *httpclient.HTTPClient, logger zerolog.Logger) (*Loader, error) {
	moduleLogger := logger.With().Str("module", "AssetLoader").Logger()

	if client == nil {
		timeout := time.Duration(cfg.RemoteFetchTimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = time.Duration(config.DefaultRemoteFetchTimeoutSecs) * time.Second
		}
		built, err := httpclient.NewHTTPClientBuilder(moduleLogger).
			WithTimeout(timeout).
			WithUserAgent(cfg.UserAgent).
			WithMaxContentSize(cfg.MaxRemoteImageBytes).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create asset http client: %w", err)
		}
		client = built
	}

	return &Loader{
		cfg:         cfg,
		httpClient:  client,
		fileManager: filemanager.NewFileManager(moduleLogger),
		logger:      moduleLogger,
		images:      make(map[string]string),
	}, nil
}

// LoadFonts returns both font weights, reading them from disk on first use.
// A missing file is fatal for the caller.
func (l *Loader) LoadFonts() (Fonts, error) {
	l.mu.RLock()
	cached := l.fonts
	l.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	regular, err := l.readFont("regular", l.cfg.FontRegularPath)
	if err != nil {
		return Fonts{}, err
	}
	bold, err := l.readFont("bold", l.cfg.FontBoldPath)
	if err != nil {
		return Fonts{}, err
	}

	fonts := &Fonts{Regular: regular, Bold: bold}
	l.mu.Lock()
	// two concurrent first loads read identical bytes; keep whichever landed first
	if l.fonts == nil {
		l.fonts = fonts
	}
	fonts = l.fonts
	l.mu.Unlock()

	l.logger.Info().
		Int("regular_bytes", len(fonts.Regular)).
		Int("bold_bytes", len(fonts.Bold)).
		Msg("Fonts loaded")
	return *fonts, nil
}

func (l *Loader) readFont(weight, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured for %s weight", ErrMissingFont, weight)
	}
	data, err := l.fileManager.ReadFile(path, filemanager.FileReadOptions{MaxSize: maxLocalAssetBytes})
	if err != nil {
		return nil, fmt.Errorf("%w: %s weight at %s: %v", ErrMissingFont, weight, path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s weight at %s is empty", ErrMissingFont, weight, path)
	}
	return data, nil
}

// LoadLocalImage returns name from the image directory as a data URI.
// Failures are logged and yield "" so the image renders blank.
func (l *Loader) LoadLocalImage(name string) string {
	if name == "" {
		return ""
	}

	l.mu.RLock()
	uri, ok := l.images[name]
	l.mu.RUnlock()
	if ok {
		return uri
	}

	clean := filepath.Clean(name)
	if !filepath.IsLocal(clean) {
		l.logger.Error().Str("image", name).Msg("Rejected local image outside the image directory")
		return ""
	}
	path := filepath.Join(l.cfg.ImageDir, clean)

	data, err := l.fileManager.ReadFile(path, filemanager.FileReadOptions{MaxSize: maxLocalAssetBytes})
	if err != nil {
		l.logger.Error().Err(err).Str("image", name).Str("path", path).Msg("Failed to load local image")
		return ""
	}

	uri = EncodeDataURI(detectMIME(name, data), data)
	l.mu.Lock()
	l.images[name] = uri
	l.mu.Unlock()
	return uri
}

// FetchRemoteImage performs one GET and returns the body as a data URI tagged
// with the response content type. Failures are logged and yield "".
func (l *Loader) FetchRemoteImage(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := l.httpClient.FetchContent(httpclient.FetchContentInput{
		URL:     url,
		Accept:  "image/*",
		Context: ctx,
	})
	if err != nil {
		event := l.logger.Error().Err(err).Str("url", url)
		if status := httpclient.StatusCode(err); status != 0 {
			event = event.Int("status_code", status)
		}
		event.Msg("Failed to fetch remote image")
		return ""
	}
	if len(result.Content) == 0 {
		l.logger.Error().Str("url", url).Msg("Remote image response was empty")
		return ""
	}

	return EncodeDataURI(result.ContentType, result.Content)
}

// ResolveImage turns an image reference into a data URI. Data URIs pass
// through, http(s) URLs are fetched and anything else is a local file name.
func (l *Loader) ResolveImage(ctx context.Context, ref string) string {
	switch {
	case ref == "":
		return ""
	case IsDataURI(ref):
		return ref
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.FetchRemoteImage(ctx, ref)
	default:
		return l.LoadLocalImage(ref)
	}
}

// CachedImageCount reports how many local images are cached.
func (l *Loader) CachedImageCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}
