package render

import (
	"fmt"
	"image/color"

	"github.com/runnerr0/grass/internal/grid"
)

// Palette is the colour set for one theme.
type Palette struct {
	Cells      [grid.NumLevels]color.RGBA
	Background color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA
	Banner     color.RGBA
	Frame      color.RGBA
	Empty      color.RGBA
}

var lightPalette = Palette{
	Cells: [grid.NumLevels]color.RGBA{
		hex("#f3f4f6"), hex("#dcfce7"), hex("#86efac"), hex("#22c55e"), hex("#15803d"),
	},
	Background: hex("#ffffff"),
	Text:       hex("#111827"),
	Muted:      hex("#6b7280"),
	Accent:     hex("#22c55e"),
	Banner:     hex("#f0fdf4"),
	Frame:      hex("#e5e7eb"),
	Empty:      hex("#f9fafb"),
}

var darkPalette = Palette{
	Cells: [grid.NumLevels]color.RGBA{
		hex("#1f2937"), hex("#14532d"), hex("#15803d"), hex("#16a34a"), hex("#22c55e"),
	},
	Background: hex("#1a1a1a"),
	Text:       hex("#ffffff"),
	Muted:      hex("#9ca3af"),
	Accent:     hex("#4ade80"),
	Banner:     hex("#0f2a1a"),
	Frame:      hex("#374151"),
	Empty:      hex("#1f2937"),
}

// PaletteFor returns the palette for theme; anything but "dark" is light.
func PaletteFor(theme string) Palette {
	if theme == "dark" {
		return darkPalette
	}
	return lightPalette
}

// BackgroundFor is the page background for theme.
func BackgroundFor(theme string) color.Color {
	return PaletteFor(theme).Background
}

// CellColor is the fill of a day cell with km distance.
func (p Palette) CellColor(km float64) color.RGBA {
	return p.Cells[grid.Intensity(km)]
}

// CellTextColor keeps labels readable on light and dark cells.
func (p Palette) CellTextColor(km float64) color.RGBA {
	if p.Background == darkPalette.Background || km >= 10 {
		return hex("#ffffff")
	}
	return hex("#111827")
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func hex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		panic(fmt.Sprintf("render: bad colour %q", s))
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
