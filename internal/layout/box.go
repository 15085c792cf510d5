package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Direction is the main axis along which a box stacks its flow children.
type Direction int

const (
	Column Direction = iota
	Row
)

// Align positions flow children on the cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Justify distributes free space on the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
)

// Position selects flow or absolute placement.
type Position int

const (
	Static Position = iota
	// Absolute boxes are placed at Left/Top relative to the parent's border box
	// and take no space in the flow.
	Absolute
)

// Weight is a font weight. Only the two weights shipped with the service exist.
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	switch w {
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	default:
		return fmt.Sprintf("weight(%d)", int(w))
	}
}

// TextAlign aligns each wrapped line inside its box.
type TextAlign int

const (
	TextLeft TextAlign = iota
	TextCenter
	TextRight
)

// Insets are per-edge paddings in logical pixels.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns equal insets on every edge.
func Uniform(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Symmetric returns vertical and horizontal insets.
func Symmetric(vertical, horizontal float64) Insets {
	return Insets{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Style controls how a box is sized, placed and painted.
// A zero Width or Height means the size is derived from content. Fixed boxes
// keep Width and Height as given, zero included.
type Style struct {
	Width      float64
	Height     float64
	Fixed      bool
	Direction  Direction
	Padding    Insets
	Gap        float64
	AlignItems Align
	Justify    Justify
	Background color.Color
	Radius     float64
	Position   Position
	Left       float64
	Top        float64
}

// Text is the textual content of a leaf box.
type Text struct {
	Content string
	Size    float64
	Weight  Weight
	Color   color.Color
	Align   TextAlign
}

// Box is a node of the layout tree. A box carries at most one of Text or
// Image; Image is an embeddable data URI and an empty Image paints nothing.
type Box struct {
	ID       string
	Style    Style
	Text     *Text
	Image    string
	Children []*Box
}

// Add appends children and returns b.
func (b *Box) Add(children ...*Box) *Box {
	b.Children = append(b.Children, children...)
	return b
}

// Find returns the first box in depth-first order with the given id.
func (b *Box) Find(id string) *Box {
	if b == nil {
		return nil
	}
	if b.ID == id {
		return b
	}
	for _, c := range b.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits b and every descendant in depth-first order.
func (b *Box) Walk(fn func(*Box)) {
	if b == nil {
		return
	}
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Label builds a text leaf.
func Label(content string, size float64, weight Weight, c color.Color, align TextAlign) *Box {
	return &Box{Text: &Text{Content: content, Size: size, Weight: weight, Color: c, Align: align}}
}

// Hex parses "#RRGGBB" or "#RRGGBBAA". Malformed input yields opaque black.
func Hex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	if len(s) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
