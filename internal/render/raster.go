package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

// rasterize paints doc at scale. Coordinates are multiplied explicitly and
// faces are built at the scaled size, so glyphs are rasterized at full
// resolution instead of being magnified.
func rasterize(doc *Document, faces *faceCache, scale float64, logger zerolog.Logger) ([]byte, error) {
	width := int(math.Round(doc.Width * scale))
	height := int(math.Round(doc.Height * scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	for i, op := range doc.Ops {
		switch op.Kind {
		case OpRect:
			dc.SetColor(op.Fill)
			drawRect(dc, op, scale)
			dc.Fill()
		case OpText:
			face, err := faces.face(op.Weight, op.Size)
			if err != nil {
				return nil, err
			}
			dc.SetFontFace(face)
			dc.SetColor(op.Fill)
			dc.DrawString(op.Content, op.X*scale, op.Y*scale)
		case OpImage:
			if err := drawImage(dc, op, scale); err != nil {
				// a broken decorative image renders blank
				logger.Warn().Err(err).Int("op", i).Msg("Skipping undecodable image")
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRect(dc *gg.Context, op Op, scale float64) {
	x, y, w, h := op.X*scale, op.Y*scale, op.W*scale, op.H*scale
	if r := effectiveRadius(op) * scale; r > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, r)
		return
	}
	dc.DrawRectangle(x, y, w, h)
}

func drawImage(dc *gg.Context, op Op, scale float64) error {
	_, data, err := assets.DecodeDataURI(op.Src)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	w := int(math.Round(op.W * scale))
	h := int(math.Round(op.H * scale))
	if w <= 0 || h <= 0 {
		return nil
	}
	fitted := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)

	x := int(math.Round(op.X * scale))
	y := int(math.Round(op.Y * scale))
	if effectiveRadius(op) > 0 {
		drawRect(dc, op, scale)
		dc.Clip()
		dc.DrawImage(fitted, x, y)
		dc.ResetClip()
		return nil
	}
	dc.DrawImage(fitted, x, y)
	return nil
}
