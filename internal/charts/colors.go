package charts

import "image/color"

type colorValue = color.RGBA

// Palette shared with the HTML reports.
var (
	colorPrimary    = colorValue{R: 0x00, G: 0xD9, B: 0xFF, A: 0xFF} // cyan
	colorSecondary  = colorValue{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF} // coral
	colorTertiary   = colorValue{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF} // teal
	colorQuaternary = colorValue{R: 0xFF, G: 0xE6, B: 0x6D, A: 0xFF} // yellow
	colorAccent     = colorValue{R: 0xC4, G: 0x4D, B: 0xFF, A: 0xFF} // purple
	colorSuccess    = colorValue{R: 0x7A, G: 0xE5, B: 0x82, A: 0xFF} // green
)

var loadPalette = []colorValue{
	colorPrimary,
	colorSecondary,
	colorTertiary,
	colorQuaternary,
	colorAccent,
	colorSuccess,
}

func loadColor(i int) colorValue {
	return loadPalette[i%len(loadPalette)]
}
