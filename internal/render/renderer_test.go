package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/aleister1102/weeklywrapped/internal/assets"
	"github.com/aleister1102/weeklywrapped/internal/layout"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(assets.Fonts{Regular: goregular.TTF, Bold: gobold.TTF}, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertColor(t *testing.T, want color.NRGBA, got color.NRGBA, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2, msgAndArgs...)
	assert.InDelta(t, want.G, got.G, 2, msgAndArgs...)
	assert.InDelta(t, want.B, got.B, 2, msgAndArgs...)
	assert.InDelta(t, want.A, got.A, 2, msgAndArgs...)
}

func TestRender_OutputIsScaled(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.Render(layout.ProgressBar(layout.ProgressBarProps{Progress: 8}), 560, 48)
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, 560*Scale, img.Bounds().Dx())
	assert.Equal(t, 48*Scale, img.Bounds().Dy())
}

func TestRender_ProgressFillPixels(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		progress    float64
		filledAt    float64
		unfilledAt  float64
		expectFill  bool
		expectTrack bool
	}{
		{progress: 50, filledAt: 100, unfilledAt: 400, expectFill: true, expectTrack: true},
		{progress: -50, filledAt: 100, unfilledAt: 400, expectFill: false, expectTrack: true},
		{progress: 0, filledAt: 100, unfilledAt: 400, expectFill: false, expectTrack: true},
		{progress: 100, filledAt: 100, unfilledAt: 400, expectFill: true, expectTrack: false},
		{progress: 150, filledAt: 100, unfilledAt: 400, expectFill: true, expectTrack: false},
	}

	for _, tt := range tests {
		data, err := r.Render(layout.ProgressBar(layout.ProgressBarProps{Progress: tt.progress}), 560, 48)
		require.NoError(t, err, "progress %v", tt.progress)
		img := decodePNG(t, data)

		midY := 24 * Scale
		left := pixel(img, int(tt.filledAt)*Scale, midY)
		right := pixel(img, int(tt.unfilledAt)*Scale, midY)

		if tt.expectFill {
			assertColor(t, layout.ColorAccent, left, "progress %v left", tt.progress)
		} else {
			assertColor(t, layout.ColorTrack, left, "progress %v left", tt.progress)
		}
		if tt.expectTrack {
			assertColor(t, layout.ColorTrack, right, "progress %v right", tt.progress)
		} else {
			assertColor(t, layout.ColorAccent, right, "progress %v right", tt.progress)
		}
	}
}

func opsFor(doc *Document, box string) []Op {
	var ops []Op
	for _, op := range doc.Ops {
		if op.Box == box {
			ops = append(ops, op)
		}
	}
	return ops
}

func TestRender_ProgressFillOpWidth(t *testing.T) {
	r := newTestRenderer(t)
	track := layout.DefaultProgressWidth - 2*layout.DefaultMarkerDelta

	tests := []struct {
		progress float64
		want     float64
	}{
		{-50, 0},
		{0, 0},
		{50, track / 2},
		{100, track},
		{150, track},
	}

	for _, tt := range tests {
		_, doc, err := r.RenderWithDocument(layout.ProgressBar(layout.ProgressBarProps{Progress: tt.progress}), 560, 48)
		require.NoError(t, err, "progress %v", tt.progress)

		trackOps := opsFor(doc, "progress-track")
		require.Len(t, trackOps, 1, "progress %v", tt.progress)
		assert.Equal(t, track, trackOps[0].W)

		fill := opsFor(doc, "progress-fill")
		if tt.want == 0 {
			assert.Empty(t, fill, "progress %v paints no fill", tt.progress)
			continue
		}
		require.Len(t, fill, 1, "progress %v", tt.progress)
		assert.InDelta(t, tt.want, fill[0].W, 1e-9, "progress %v", tt.progress)
		assert.Equal(t, trackOps[0].X, fill[0].X)
		assert.LessOrEqual(t, fill[0].X+fill[0].W, trackOps[0].X+trackOps[0].W)
	}
}

func TestRender_ZeroValueBars(t *testing.T) {
	r := newTestRenderer(t)

	_, doc, err := r.RenderWithDocument(layout.BarChart(layout.BarChartProps{
		Past:    layout.Bar{Value: 0, Caption: "0h"},
		Present: layout.Bar{Value: 50, Caption: "1.5h"},
	}), layout.DefaultChartWidth, layout.DefaultChartHeight)
	require.NoError(t, err)

	assert.Empty(t, opsFor(doc, "chart-past-bar"))
	present := opsFor(doc, "chart-present-bar")
	require.Len(t, present, 1)
	assert.InDelta(t, layout.DefaultMaxBarHeight/2, present[0].H, 1e-9)
	assert.InDelta(t, layout.DefaultChartHeight, present[0].Y+present[0].H, 1e-9)
	assert.Equal(t, layout.DefaultBarWidth, present[0].W)

	_, doc, err = r.RenderWithDocument(layout.BarChart(layout.BarChartProps{}), layout.DefaultChartWidth, layout.DefaultChartHeight)
	require.NoError(t, err)
	assert.Empty(t, opsFor(doc, "chart-past-bar"))
	assert.Empty(t, opsFor(doc, "chart-present-bar"))

	var labels []string
	for _, op := range doc.Ops {
		if op.Kind == OpText {
			labels = append(labels, op.Content)
		}
	}
	assert.Equal(t, []string{"Last Week", "This Week"}, labels)
}

func TestCompose_TilesClearFooter(t *testing.T) {
	r := newTestRenderer(t)
	img := assets.EncodeDataURI("image/png", []byte{1})
	chrome := layout.CardChrome{
		HeaderIcon:  img,
		Title:       "My Week on TikTok",
		Subtitle:    "Week of 2024-06-03",
		Tiles:       []layout.Tile{{Label: "Cooking", Icon: img}, {Label: "Street food", Icon: img}, {Label: "Pets"}},
		FooterImage: img,
	}

	cards := map[string]*layout.Box{
		"stats-card": layout.StatsCard(layout.StatsCardProps{
			CardChrome: chrome,
			Headline:   "19.2h watched",
			StatLines:  []string{"128 videos", "1.2 km scrolled"},
			Past:       layout.Bar{Value: 100, Caption: "21.5h"},
			Present:    layout.Bar{Value: 89.46, Caption: "19.2h"},
			Comparison: "You watched 2.3 hours less than last week. Nice balance!",
		}),
		"trend-card": layout.TrendCard(layout.TrendCardProps{
			CardChrome:   chrome,
			TopicName:    "#matcha",
			RankText:     "12th of 3,400 discoverers",
			Progress:     8,
			ProgressText: "8%",
			MarkerImage:  img,
		}),
	}

	for id, card := range cards {
		doc, err := r.Compose(card, layout.DefaultCardWidth, layout.DefaultCardHeight)
		require.NoError(t, err, id)

		footer := opsFor(doc, id+"-footer")
		require.Len(t, footer, 1, id)
		footerY := footer[0].Y
		assert.Equal(t, layout.DefaultCardHeight-layout.DefaultFooterHeight, footerY)

		tiles := 0
		for _, op := range doc.Ops {
			if !strings.HasPrefix(op.Box, "tile-") {
				continue
			}
			tiles++
			if op.Kind == OpText {
				assert.Less(t, op.Y, footerY, "%s: %q baseline", id, op.Content)
				continue
			}
			assert.LessOrEqual(t, op.Y+op.H, footerY, "%s: %s at y=%v h=%v", id, op.Box, op.Y, op.H)
		}
		// three discs, two icons and three labels
		assert.Equal(t, 8, tiles, id)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	card := func() *layout.Box {
		return layout.StatsCard(layout.StatsCardProps{
			Headline:  "My TikTok Week",
			StatLines: []string{"128 videos", "19.2 hours watched"},
			Past:      layout.Bar{Value: 100, Caption: "21.5h"},
			Present:   layout.Bar{Value: 89.46, Caption: "19.2h"},
			CardChrome: layout.CardChrome{
				Title: "Weekly Wrapped",
				Tiles: []layout.Tile{{Label: "Cooking"}},
			},
		})
	}

	first, err := r.Render(card(), layout.DefaultCardWidth, layout.DefaultCardHeight)
	require.NoError(t, err)
	second, err := r.Render(card(), layout.DefaultCardWidth, layout.DefaultCardHeight)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))

	other, err := r.Render(layout.StatsCard(layout.StatsCardProps{Headline: "Different"}), layout.DefaultCardWidth, layout.DefaultCardHeight)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, other))
}

func TestRender_MissingFontWeight(t *testing.T) {
	r, err := NewRenderer(assets.Fonts{Regular: goregular.TTF}, zerolog.Nop())
	require.NoError(t, err)

	_, err = r.Render(layout.Label("regular is fine", 14, layout.Regular, nil, layout.TextLeft), 200, 40)
	require.NoError(t, err)

	_, err = r.Render(layout.Label("bold is not", 14, layout.Bold, nil, layout.TextLeft), 200, 40)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFontWeight))
}

func TestNewRenderer_Errors(t *testing.T) {
	_, err := NewRenderer(assets.Fonts{}, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrMissingFontWeight))

	_, err = NewRenderer(assets.Fonts{Regular: []byte("not a font")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRender_InvalidSize(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Render(&layout.Box{}, 0, 10)
	assert.Error(t, err)
	_, err = r.Render(nil, 10, 10)
	assert.Error(t, err)
}

func TestRender_ImageIsClippedAndFilled(t *testing.T) {
	r := newTestRenderer(t)

	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	blue := color.NRGBA{R: 0x10, G: 0x20, B: 0xF0, A: 0xFF}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, blue)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	box := &layout.Box{
		Style: layout.Style{Width: 40, Height: 40, Radius: 20},
		Image: assets.EncodeDataURI("image/png", buf.Bytes()),
	}
	data, err := r.Render(box, 40, 40)
	require.NoError(t, err)
	img := decodePNG(t, data)

	assertColor(t, blue, pixel(img, 20*Scale, 20*Scale), "centre")
	assert.Equal(t, uint8(0), pixel(img, 1, 1).A, "corner outside the circle stays transparent")
}

func TestRender_UndecodableImageRendersBlank(t *testing.T) {
	r := newTestRenderer(t)
	box := &layout.Box{
		Style: layout.Style{Width: 20, Height: 20},
		Image: assets.EncodeDataURI("image/png", []byte("garbage")),
	}
	data, err := r.Render(box, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), pixel(decodePNG(t, data), 40, 40).A)
}

func TestCompose_WrapsAndAlignsText(t *testing.T) {
	r := newTestRenderer(t)
	root := &layout.Box{
		Style: layout.Style{Width: 120, Padding: layout.Uniform(10)},
		Children: []*layout.Box{
			layout.Label("one two three four five six seven", 16, layout.Regular, nil, layout.TextLeft),
		},
	}

	doc, err := r.Compose(root, 120, 200)
	require.NoError(t, err)

	var texts []Op
	for _, op := range doc.Ops {
		if op.Kind == OpText {
			texts = append(texts, op)
		}
	}
	require.Greater(t, len(texts), 1, "long text wraps onto several lines")
	for i, op := range texts {
		assert.Equal(t, 10.0, op.X)
		if i > 0 {
			assert.Greater(t, op.Y, texts[i-1].Y)
		}
	}
}

func TestCompose_ColumnJustifyAndAbsolute(t *testing.T) {
	r := newTestRenderer(t)
	red := layout.Hex("#FF0000")
	root := &layout.Box{
		Style: layout.Style{Width: 100, Height: 100, Justify: layout.JustifyEnd, AlignItems: layout.AlignCenter},
		Children: []*layout.Box{
			{Style: layout.Style{Width: 20, Height: 30, Background: red}},
			{Style: layout.Style{Position: layout.Absolute, Left: 5, Top: 7, Width: 10, Height: 10, Background: red}},
		},
	}

	doc, err := r.Compose(root, 100, 100)
	require.NoError(t, err)
	require.Len(t, doc.Ops, 2)

	assert.Equal(t, Op{Kind: OpRect, X: 40, Y: 70, W: 20, H: 30, Fill: red}, doc.Ops[0])
	assert.Equal(t, 5.0, doc.Ops[1].X)
	assert.Equal(t, 7.0, doc.Ops[1].Y)
}

func TestDocument_SVG(t *testing.T) {
	r := newTestRenderer(t)
	doc, err := r.Compose(layout.TrendCard(layout.TrendCardProps{
		TopicName:    "#matcha <latte>",
		Progress:     8,
		ProgressText: "8%",
		MarkerImage:  assets.EncodeDataURI("image/png", []byte{1}),
	}), layout.DefaultCardWidth, layout.DefaultCardHeight)
	require.NoError(t, err)

	svg := string(doc.SVG())
	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="360" height="640"`))
	assert.Contains(t, svg, "#matcha &lt;latte&gt;")
	assert.Contains(t, svg, `font-weight="700"`)
	assert.Contains(t, svg, "<clipPath")
	assert.Equal(t, svg, string(doc.SVG()))
}
