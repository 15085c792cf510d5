package render

import (
	"errors"
	"fmt"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/aleister1102/weeklywrapped/internal/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrMissingFontWeight is returned when text asks for a weight the font set lacks.
var ErrMissingFontWeight = errors.New("font weight not available")

// FontSet holds parsed fonts. It is safe for concurrent use; faces are not,
// so each render builds its own faceCache.
type FontSet struct {
	fonts map[layout.Weight]*opentype.Font
}

// NewFontSet parses the supplied binaries. Empty binaries leave that weight
// unavailable; unparsable ones are an error.
func NewFontSet(fonts assets.Fonts) (*FontSet, error) {
	set := &FontSet{fonts: make(map[layout.Weight]*opentype.Font, 2)}
	for weight, data := range map[layout.Weight][]byte{
		layout.Regular: fonts.Regular,
		layout.Bold:    fonts.Bold,
	} {
		if len(data) == 0 {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", weight, err)
		}
		set.fonts[weight] = parsed
	}
	if len(set.fonts) == 0 {
		return nil, fmt.Errorf("%w: no fonts supplied", ErrMissingFontWeight)
	}
	return set, nil
}

// Has reports whether weight is available.
func (s *FontSet) Has(weight layout.Weight) bool {
	_, ok := s.fonts[weight]
	return ok
}

type faceKey struct {
	weight layout.Weight
	size   float64
}

// faceCache creates faces at size*scale and reports metrics in logical units,
// so layout and rasterization agree on every glyph advance.
type faceCache struct {
	set   *FontSet
	scale float64
	faces map[faceKey]font.Face
}

func newFaceCache(set *FontSet, scale float64) *faceCache {
	return &faceCache{set: set, scale: scale, faces: make(map[faceKey]font.Face)}
}

func (c *faceCache) face(weight layout.Weight, size float64) (font.Face, error) {
	key := faceKey{weight: weight, size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	parsed, ok := c.set.fonts[weight]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingFontWeight, weight)
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size * c.scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s face at %.1fpt: %w", weight, size, err)
	}
	c.faces[key] = f
	return f, nil
}

func (c *faceCache) measure(weight layout.Weight, size float64, s string) (float64, error) {
	f, err := c.face(weight, size)
	if err != nil {
		return 0, err
	}
	return fromFixed(font.MeasureString(f, s)) / c.scale, nil
}

// lineMetrics returns ascent and the font's natural line height in logical units.
func (c *faceCache) lineMetrics(weight layout.Weight, size float64) (ascent, height float64, err error) {
	f, err := c.face(weight, size)
	if err != nil {
		return 0, 0, err
	}
	m := f.Metrics()
	return fromFixed(m.Ascent) / c.scale, fromFixed(m.Height) / c.scale, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
