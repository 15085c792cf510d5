package layout

import "image/color"

// Share card defaults in logical pixels.
const (
	DefaultCardWidth    = 360.0
	DefaultCardHeight   = 640.0
	DefaultCardPadding  = 24.0
	DefaultFooterHeight = 120.0
	DefaultTileIconSize = 64.0
	// TileSlots is the fixed number of content tiles on a card.
	TileSlots = 3
)

// Tile is one content icon with its label. An empty Icon renders a blank disc.
type Tile struct {
	Label string
	Icon  string
}

// CardChrome holds the parts shared by both share cards.
type CardChrome struct {
	Width       float64
	Height      float64
	HeaderIcon  string
	Title       string
	Subtitle    string
	Tiles       []Tile
	FooterImage string
	Background  color.Color
}

func (c CardChrome) withDefaults() CardChrome {
	c.Width = orDefault(c.Width, DefaultCardWidth)
	c.Height = orDefault(c.Height, DefaultCardHeight)
	if c.Background == nil {
		c.Background = ColorCard
	}
	return c
}

func (c CardChrome) innerWidth() float64 {
	w := c.Width - 2*DefaultCardPadding
	if w < 0 {
		return 0
	}
	return w
}

// TrendCardProps configures TrendCard. Progress must already be clamped and
// ProgressText formatted from the same value.
type TrendCardProps struct {
	CardChrome
	TopicName    string
	RankText     string
	Progress     float64
	ProgressText string
	MarkerImage  string
}

// StatsCardProps configures StatsCard. Bar values must already be clamped.
type StatsCardProps struct {
	CardChrome
	Headline   string
	StatLines  []string
	Past       Bar
	Present    Bar
	Comparison string
}

// TrendCard builds the vertical trend share card.
func TrendCard(p TrendCardProps) *Box {
	c := p.withDefaults()
	inner := c.innerWidth()

	body := []*Box{
		Label(p.TopicName, 26, Bold, ColorInk, TextLeft),
	}
	if p.RankText != "" {
		body = append(body, Label(p.RankText, 14, Regular, ColorMuted, TextLeft))
	}
	body = append(body,
		Label(p.ProgressText, 40, Bold, ColorAccent, TextLeft),
		ProgressBar(ProgressBarProps{
			Width:       inner,
			Height:      40,
			TrackHeight: 12,
			MarkerSize:  28,
			MarkerDelta: 14,
			Progress:    p.Progress,
			MarkerImage: p.MarkerImage,
		}),
	)
	return card("trend-card", c, body)
}

// StatsCard builds the vertical stats share card.
func StatsCard(p StatsCardProps) *Box {
	c := p.withDefaults()
	inner := c.innerWidth()

	body := []*Box{
		Label(p.Headline, 26, Bold, ColorInk, TextLeft),
	}
	for _, line := range p.StatLines {
		body = append(body, Label(line, 14, Regular, ColorMuted, TextLeft))
	}
	body = append(body, BarChart(BarChartProps{
		Width:        inner,
		Height:       116,
		MaxBarHeight: 64,
		BarWidth:     64,
		Gap:          48,
		LabelSize:    12,
		Past:         p.Past,
		Present:      p.Present,
	}))
	if p.Comparison != "" {
		body = append(body, Label(p.Comparison, 13, Regular, ColorInk, TextCenter))
	}
	return card("stats-card", c, body)
}

// card stacks the chrome around body. The footer band is reserved as bottom
// padding since the footer is painted after the flow content.
func card(id string, c CardChrome, body []*Box) *Box {
	inner := c.innerWidth()
	root := &Box{
		ID: id,
		Style: Style{
			Width: c.Width, Height: c.Height,
			Direction: Column, Gap: 10,
			Padding: Insets{
				Top: DefaultCardPadding, Right: DefaultCardPadding,
				Bottom: DefaultFooterHeight, Left: DefaultCardPadding,
			},
			Background: c.Background,
		},
	}
	root.Add(&Box{
		ID:    id + "-header-icon",
		Style: Style{Width: 48, Height: 48, Radius: 24, Background: ColorTileBlank},
		Image: c.HeaderIcon,
	})
	if c.Title != "" {
		root.Add(Label(c.Title, 18, Bold, ColorInk, TextLeft))
	}
	if c.Subtitle != "" {
		root.Add(Label(c.Subtitle, 13, Regular, ColorMuted, TextLeft))
	}
	root.Add(body...)
	root.Add(ContentTiles(c.Tiles, inner))
	root.Add(&Box{
		ID: id + "-footer",
		Style: Style{
			Position: Absolute, Left: 0, Top: c.Height - DefaultFooterHeight,
			Width: c.Width, Height: DefaultFooterHeight,
		},
		Image: c.FooterImage,
	})
	return root
}

// ContentTiles builds a row of exactly TileSlots circular tiles. Missing
// entries become blank tiles and extra entries are dropped.
func ContentTiles(tiles []Tile, width float64) *Box {
	const gap = 12.0
	slot := (width - gap*(TileSlots-1)) / TileSlots
	if slot < 0 {
		slot = 0
	}
	icon := DefaultTileIconSize
	if icon > slot {
		icon = slot
	}

	row := &Box{
		ID:    "tiles",
		Style: Style{Width: width, Direction: Row, Gap: gap, AlignItems: AlignStart},
	}
	for i := 0; i < TileSlots; i++ {
		var t Tile
		if i < len(tiles) {
			t = tiles[i]
		}
		row.Add(&Box{
			ID: "tile",
			Style: Style{
				Width: slot, Direction: Column, Gap: 8, AlignItems: AlignCenter,
			},
			Children: []*Box{
				{
					ID: "tile-icon",
					Style: Style{
						Width: icon, Height: icon, Radius: icon / 2,
						Background: ColorTileBlank,
					},
					Image: t.Icon,
				},
				{
					ID:    "tile-label",
					Style: Style{Width: slot, Height: 32},
					Text:  &Text{Content: t.Label, Size: 12, Weight: Regular, Color: ColorInk, Align: TextCenter},
				},
			},
		})
	}
	return row
}
