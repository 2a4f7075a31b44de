package draw

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

var (
	White     = color.RGBA{255, 255, 255, 255}
	Red       = color.RGBA{230, 41, 55, 255}
	Green     = color.RGBA{0, 228, 48, 255}
	Blue      = color.RGBA{0, 121, 241, 255}
	Yellow    = color.RGBA{253, 249, 0, 255}
	Orange    = color.RGBA{255, 161, 0, 255}
	Pink      = color.RGBA{255, 109, 194, 255}
	Purple    = color.RGBA{200, 122, 255, 255}
	Violet    = color.RGBA{135, 60, 190, 255}
	SkyBlue   = color.RGBA{102, 191, 255, 255}
	Lime      = color.RGBA{0, 158, 47, 255}
	Gold      = color.RGBA{255, 203, 0, 255}
	Magenta   = color.RGBA{255, 0, 255, 255}
	Beige     = color.RGBA{211, 176, 131, 255}
	Brown     = color.RGBA{127, 106, 79, 255}
	Gray      = color.RGBA{130, 130, 130, 255}
	DarkGray  = color.RGBA{80, 80, 80, 255}
	DarkBlue  = color.RGBA{0, 82, 172, 255}
	Maroon    = color.RGBA{190, 33, 55, 255}
	DarkGreen = color.RGBA{0, 117, 44, 255}
)

// Palette is the set random link colours are drawn from.
var Palette = []color.RGBA{
	White, Red, Green, Blue, Yellow, Orange, Pink, Purple, Violet, SkyBlue,
	Lime, Gold, Magenta, Beige, Brown, DarkBlue, Maroon, DarkGreen,
}

func RandomColor(rng *rand.Rand) color.RGBA {
	return Palette[rng.IntN(len(Palette))]
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
