package render

import (
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/layout"
)

const defaultTextSize = 14.0

// node is a box with its resolved size.
type node struct {
	box      *layout.Box
	w, h     float64
	lines    []textLine
	baseline float64
	leading  float64
	children []*node
}

type textLine struct {
	content string
	width   float64
}

// composer lays a box tree out into a display list. It is single-use.
type composer struct {
	faces *faceCache
	ops   []Op
}

// compose lays out root inside a width x height canvas.
func compose(root *layout.Box, faces *faceCache, width, height float64) (*Document, error) {
	c := &composer{faces: faces}
	n, err := c.size(root, width)
	if err != nil {
		return nil, err
	}
	c.place(n, 0, 0)
	return &Document{Width: width, Height: height, Ops: c.ops}, nil
}

func (c *composer) size(b *layout.Box, availW float64) (*node, error) {
	st := b.Style
	pad := st.Padding
	n := &node{box: b}

	if b.Text != nil && b.Text.Content != "" {
		maxInner := availW - pad.Left - pad.Right
		if st.Width > 0 || st.Fixed {
			maxInner = st.Width - pad.Left - pad.Right
		}
		lines, err := c.wrap(b.Text, maxInner)
		if err != nil {
			return nil, err
		}
		ascent, glyphHeight, lineHeight, err := c.textMetrics(b.Text)
		if err != nil {
			return nil, err
		}
		n.lines = lines
		n.leading = lineHeight
		n.baseline = ascent + (lineHeight-glyphHeight)/2

		natural := 0.0
		for _, l := range lines {
			if l.width > natural {
				natural = l.width
			}
		}
		n.w = st.Width
		if n.w <= 0 && !st.Fixed {
			n.w = min(natural+pad.Left+pad.Right, availW)
		}
		n.h = st.Height
		if n.h <= 0 && !st.Fixed {
			n.h = float64(len(lines))*lineHeight + pad.Top + pad.Bottom
		}
		return n, nil
	}

	n.w = st.Width
	if n.w <= 0 && !st.Fixed {
		n.w = availW
	}
	innerW := max(n.w-pad.Left-pad.Right, 0)

	var flowMain, flowCross float64
	flowCount := 0
	for _, child := range b.Children {
		if child == nil {
			continue
		}
		avail := innerW
		if child.Style.Position == layout.Absolute {
			avail = n.w
		}
		cn, err := c.size(child, avail)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, cn)
		if child.Style.Position == layout.Absolute {
			continue
		}
		flowCount++
		if st.Direction == layout.Row {
			flowMain += cn.w
			flowCross = max(flowCross, cn.h)
		} else {
			flowMain += cn.h
			flowCross = max(flowCross, cn.w)
		}
	}
	if flowCount > 1 {
		flowMain += st.Gap * float64(flowCount-1)
	}

	n.h = st.Height
	if n.h <= 0 && !st.Fixed {
		content := flowMain
		if st.Direction == layout.Row {
			content = flowCross
		}
		n.h = content + pad.Top + pad.Bottom
	}
	return n, nil
}

func (c *composer) place(n *node, x, y float64) {
	b := n.box
	st := b.Style
	pad := st.Padding

	if st.Background != nil && n.w > 0 && n.h > 0 {
		if fill := toNRGBA(st.Background); fill.A > 0 {
			c.ops = append(c.ops, Op{Kind: OpRect, Box: b.ID, X: x, Y: y, W: n.w, H: n.h, Radius: st.Radius, Fill: fill})
		}
	}
	if b.Image != "" && n.w > 0 && n.h > 0 {
		c.ops = append(c.ops, Op{Kind: OpImage, Box: b.ID, X: x, Y: y, W: n.w, H: n.h, Radius: st.Radius, Src: b.Image})
	}
	if len(n.lines) > 0 {
		c.placeText(n, x, y)
	}

	innerX, innerY := x+pad.Left, y+pad.Top
	innerW := max(n.w-pad.Left-pad.Right, 0)
	innerH := max(n.h-pad.Top-pad.Bottom, 0)

	var flow []*node
	used := 0.0
	for _, cn := range n.children {
		if cn.box.Style.Position == layout.Absolute {
			continue
		}
		flow = append(flow, cn)
		if st.Direction == layout.Row {
			used += cn.w
		} else {
			used += cn.h
		}
	}
	if len(flow) > 1 {
		used += st.Gap * float64(len(flow)-1)
	}

	mainSize := innerH
	if st.Direction == layout.Row {
		mainSize = innerW
	}
	free := mainSize - used
	offset, gap := 0.0, st.Gap
	switch st.Justify {
	case layout.JustifyCenter:
		offset = free / 2
	case layout.JustifyEnd:
		offset = free
	case layout.JustifySpaceBetween:
		if len(flow) > 1 && free > 0 {
			gap += free / float64(len(flow)-1)
		}
	}

	cursor := offset
	for _, cn := range flow {
		if st.Direction == layout.Row {
			cy := innerY + crossOffset(st.AlignItems, innerH, cn.h)
			c.place(cn, innerX+cursor, cy)
			cursor += cn.w + gap
		} else {
			cx := innerX + crossOffset(st.AlignItems, innerW, cn.w)
			c.place(cn, cx, innerY+cursor)
			cursor += cn.h + gap
		}
	}

	for _, cn := range n.children {
		if cn.box.Style.Position == layout.Absolute {
			c.place(cn, x+cn.box.Style.Left, y+cn.box.Style.Top)
		}
	}
}

func (c *composer) placeText(n *node, x, y float64) {
	t := n.box.Text
	pad := n.box.Style.Padding
	innerW := max(n.w-pad.Left-pad.Right, 0)
	size := textSize(t)
	fill := toNRGBA(t.Color)
	if t.Color == nil {
		fill = toNRGBA(layout.ColorInk)
	}

	for i, line := range n.lines {
		lx := x + pad.Left
		switch t.Align {
		case layout.TextCenter:
			lx += (innerW - line.width) / 2
		case layout.TextRight:
			lx += innerW - line.width
		}
		c.ops = append(c.ops, Op{
			Kind:    OpText,
			Box:     n.box.ID,
			X:       lx,
			Y:       y + pad.Top + float64(i)*n.leading + n.baseline,
			Fill:    fill,
			Content: line.content,
			Size:    size,
			Weight:  t.Weight,
		})
	}
}

// wrap breaks text greedily on spaces. Explicit newlines always break and a
// word wider than maxW keeps a line of its own.
func (c *composer) wrap(t *layout.Text, maxW float64) ([]textLine, error) {
	size := textSize(t)
	measure := func(s string) (float64, error) {
		return c.faces.measure(t.Weight, size, s)
	}

	var lines []textLine
	for _, paragraph := range strings.Split(t.Content, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, textLine{})
			continue
		}
		current := words[0]
		currentW, err := measure(current)
		if err != nil {
			return nil, err
		}
		for _, word := range words[1:] {
			candidate := current + " " + word
			w, err := measure(candidate)
			if err != nil {
				return nil, err
			}
			if maxW > 0 && w > maxW {
				lines = append(lines, textLine{content: current, width: currentW})
				current = word
				if currentW, err = measure(word); err != nil {
					return nil, err
				}
				continue
			}
			current, currentW = candidate, w
		}
		lines = append(lines, textLine{content: current, width: currentW})
	}
	return lines, nil
}

func (c *composer) textMetrics(t *layout.Text) (ascent, glyphHeight, lineHeight float64, err error) {
	size := textSize(t)
	ascent, glyphHeight, err = c.faces.lineMetrics(t.Weight, size)
	if err != nil {
		return 0, 0, 0, err
	}
	return ascent, glyphHeight, max(glyphHeight, size*1.2), nil
}

func crossOffset(align layout.Align, space, size float64) float64 {
	switch align {
	case layout.AlignCenter:
		return (space - size) / 2
	case layout.AlignEnd:
		return space - size
	default:
		return 0
	}
}

func textSize(t *layout.Text) float64 {
	if t.Size <= 0 {
		return defaultTextSize
	}
	return t.Size
}
