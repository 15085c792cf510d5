package render

import (
	"fmt"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/layout"
	"github.com/rs/zerolog"
)

// Scale is the fixed upscaling factor applied to every raster.
const Scale = 4

// Renderer turns box trees into documents and PNG bytes. Fonts are parsed
// once; a Renderer is safe for concurrent use.
type Renderer struct {
	fonts  *FontSet
	scale  float64
	logger zerolog.Logger
}

// NewRenderer parses fonts and returns a Renderer.
func NewRenderer(fonts assets.Fonts, logger zerolog.Logger) (*Renderer, error) {
	set, err := NewFontSet(fonts)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		fonts:  set,
		scale:  Scale,
		logger: logger.With().Str("module", "Renderer").Logger(),
	}, nil
}

// Compose lays root out inside a width x height document.
func (r *Renderer) Compose(root *layout.Box, width, height float64) (*Document, error) {
	if err := checkSize(root, width, height); err != nil {
		return nil, err
	}
	faces := newFaceCache(r.fonts, r.scale)
	defer faces.close()

	doc, err := compose(root, faces, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to compose document: %w", err)
	}
	return doc, nil
}

// Render lays root out and rasterizes it at Scale. The result is
// (width*Scale) x (height*Scale) pixels and is byte-identical for identical input.
func (r *Renderer) Render(root *layout.Box, width, height float64) ([]byte, error) {
	png, _, err := r.render(root, width, height)
	return png, err
}

// RenderWithDocument is Render that also returns the intermediate document.
func (r *Renderer) RenderWithDocument(root *layout.Box, width, height float64) ([]byte, *Document, error) {
	return r.render(root, width, height)
}

func (r *Renderer) render(root *layout.Box, width, height float64) ([]byte, *Document, error) {
	if err := checkSize(root, width, height); err != nil {
		return nil, nil, err
	}
	faces := newFaceCache(r.fonts, r.scale)
	defer faces.close()

	doc, err := compose(root, faces, width, height)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compose document: %w", err)
	}
	png, err := rasterize(doc, faces, r.scale, r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errorwrapper.ErrRenderFailed, err)
	}

	r.logger.Debug().
		Float64("width", width).
		Float64("height", height).
		Int("ops", len(doc.Ops)).
		Int("png_bytes", len(png)).
		Msg("Rendered image")
	return png, doc, nil
}

func checkSize(root *layout.Box, width, height float64) error {
	if root == nil {
		return errorwrapper.NewValidationError("root", nil, "box tree is nil")
	}
	if width <= 0 || height <= 0 {
		return errorwrapper.NewValidationError("size", fmt.Sprintf("%gx%g", width, height), "width and height must be positive")
	}
	return nil
}
