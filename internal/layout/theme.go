package layout

import "image/color"

// Palette used by every primitive.
var (
	ColorInk         = Hex("#161823")
	ColorMuted       = Hex("#8A8B91")
	ColorTrack       = Hex("#E9E9EB")
	ColorAccent      = Hex("#FE2C55")
	ColorAccentAlt   = Hex("#25F4EE")
	ColorPast        = Hex("#C4C4C8")
	ColorCard        = Hex("#FFFFFF")
	ColorTileBlank   = Hex("#F1F1F2")
	ColorTransparent = color.NRGBA{}
)
