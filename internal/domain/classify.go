package domain

import "image/color"

// RainThreshold is the normalized intensity above which a sample counts as rain.
const RainThreshold = 0.1

// minOpaqueAlpha is the lowest alpha treated as a rendered echo.
const minOpaqueAlpha = 128

type paletteEntry struct {
	r, g, b int
	level   float64
}

// palette is ordered by increasing severity. Order matters: on equal
// distance the earliest entry wins.
var palette = [...]paletteEntry{
	{8, 70, 254, 15},
	{0, 120, 254, 18},
	{0, 174, 253, 21},
	{0, 220, 254, 24},
	{4, 216, 131, 27},
	{66, 235, 66, 30},
	{108, 249, 0, 33},
	{184, 250, 0, 36},
	{249, 250, 1, 39},
	{254, 198, 0, 42},
	{254, 132, 0, 45},
	{255, 62, 1, 48},
	{211, 0, 0, 51},
	{181, 3, 3, 54},
	{203, 0, 204, 57},
}

// maxLevel is the level of the last palette entry.
var maxLevel = palette[len(palette)-1].level

// Classify maps a radar pixel to a precipitation intensity in [0, 1].
// Pixels with alpha below half opacity carry no echo and return 0.
func Classify(px color.NRGBA) float64 {
	if px.A < minOpaqueAlpha {
		return 0
	}

	best := 0.0
	bestDist := -1
	for _, p := range palette {
		dr := p.r - int(px.R)
		dg := p.g - int(px.G)
		db := p.b - int(px.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = p.level
		}
	}
	return best / maxLevel
}

// IsRaining reports whether a normalized intensity counts as rain.
func IsRaining(intensity float64) bool {
	return intensity > RainThreshold
}
