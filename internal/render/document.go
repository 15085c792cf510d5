package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"strconv"

	"github.com/aleister1102/weeklywrapped/internal/layout"
)

// OpKind discriminates display list entries.
type OpKind int

const (
	OpRect OpKind = iota
	OpText
	OpImage
)

// Op is one drawing instruction in logical pixels. Text ops are positioned at
// their baseline origin. Box is the ID of the box that emitted the op.
type Op struct {
	Kind   OpKind
	Box    string
	X, Y   float64
	W, H   float64
	Radius float64
	Fill   color.NRGBA

	Content string
	Size    float64
	Weight  layout.Weight

	Src string
}

// Document is a fixed-size vector document produced by laying out a box tree.
type Document struct {
	Width  float64
	Height float64
	Ops    []Op
}

// SVG serialises the document as standalone SVG markup. Output is a pure
// function of the document.
func (d *Document) SVG() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(d.Width), num(d.Height), num(d.Width), num(d.Height))
	b.WriteByte('\n')

	clipID := 0
	for _, op := range d.Ops {
		switch op.Kind {
		case OpRect:
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"%s/>`,
				num(op.X), num(op.Y), num(op.W), num(op.H), num(effectiveRadius(op)), hexColor(op.Fill), opacityAttr(op.Fill))
		case OpText:
			weight := "400"
			if op.Weight == layout.Bold {
				weight = "700"
			}
			fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="%s" font-weight="%s" fill="%s"%s>%s</text>`,
				num(op.X), num(op.Y), num(op.Size), weight, hexColor(op.Fill), opacityAttr(op.Fill), html.EscapeString(op.Content))
		case OpImage:
			clip := ""
			if r := effectiveRadius(op); r > 0 {
				clipID++
				fmt.Fprintf(&b, `<clipPath id="c%d"><rect x="%s" y="%s" width="%s" height="%s" rx="%s"/></clipPath>`,
					clipID, num(op.X), num(op.Y), num(op.W), num(op.H), num(r))
				b.WriteByte('\n')
				clip = fmt.Sprintf(` clip-path="url(#c%d)"`, clipID)
			}
			fmt.Fprintf(&b, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" href="%s"%s/>`,
				num(op.X), num(op.Y), num(op.W), num(op.H), html.EscapeString(op.Src), clip)
		}
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// effectiveRadius caps the corner radius so a rounded rect never self-intersects.
func effectiveRadius(op Op) float64 {
	r := op.Radius
	if half := op.W / 2; r > half {
		r = half
	}
	if half := op.H / 2; r > half {
		r = half
	}
	if r < 0 {
		return 0
	}
	return r
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacityAttr(c color.NRGBA) string {
	if c.A == 0xff {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%s"`, strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64))
}

// toNRGBA converts any color to non-premultiplied RGBA. nil is transparent.
func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
