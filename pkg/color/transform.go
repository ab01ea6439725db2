package color

import (
	"fmt"
	"math"
)

// RGB8 is an 8-bit per channel sRGB triple.
type RGB8 struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String implements fmt.Stringer
func (c RGB8) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the #rrggbb form of the triple
func (c RGB8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// sRGB primaries with a D65 white point. rgbToXYZ maps linear RGB to XYZ,
// xyzToRGB is its inverse.
var (
	rgbToXYZ = [3][3]float64{
		{0.412453, 0.357580, 0.180423},
		{0.212671, 0.715160, 0.072169},
		{0.019334, 0.119193, 0.950227},
	}
	xyzToRGB = [3][3]float64{
		{3.2404813, -1.5371515, -0.4985363},
		{-0.9692549, 1.8759900, 0.0415559},
		{0.0556466, -0.2040413, 1.0573111},
	}
)

// whitePoint is the D65 chromaticity, used for inputs without any light
var whitePoint = Point{x: 0.3127, y: 0.3290}

// WhitePoint returns the D65 white point
func WhitePoint() Point { return whitePoint }

// GammaCorrect linearizes an sRGB encoded channel in [0, 1]
func GammaCorrect(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

// GammaInverse encodes a linear channel back to sRGB
func GammaInverse(c float64) float64 {
	if c > 0.0031308 {
		return 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return 12.92 * c
}

func mul(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// XYFromRGB8 converts an RGB triple to the chromaticity a light with this
// gamut should be set to. The result is always restrained into the gamut.
// Black carries no chromaticity and maps to the restrained white point.
func (g Gamut) XYFromRGB8(rgb RGB8) Point {
	if rgb == (RGB8{}) {
		return g.Restrain(whitePoint)
	}

	linear := [3]float64{
		GammaCorrect(float64(rgb.R) / 255),
		GammaCorrect(float64(rgb.G) / 255),
		GammaCorrect(float64(rgb.B) / 255),
	}
	xyz := mul(rgbToXYZ, linear)
	sum := xyz[0] + xyz[1] + xyz[2]
	if sum <= 0 {
		return g.Restrain(whitePoint)
	}

	return g.Restrain(Point{
		x: float32(xyz[0] / sum),
		y: float32(xyz[1] / sum),
	})
}

// RGB8FromXY converts a chromaticity to an RGB triple at full brightness,
// taking the luminance Y as 1. The point is restrained into the gamut first.
func (g Gamut) RGB8FromXY(p Point) RGB8 {
	p = g.Restrain(p)

	x, y := float64(p.x), float64(p.y)
	if y <= 0 {
		return RGB8{}
	}
	linear := mul(xyzToRGB, [3]float64{x / y, 1, (1 - x - y) / y})

	return RGB8{
		R: toChannel(linear[0]),
		G: toChannel(linear[1]),
		B: toChannel(linear[2]),
	}
}

// channelEpsilon absorbs the rounding that leaves a full channel at
// 254.99999 before truncation.
const channelEpsilon = 1e-9

// toChannel encodes a linear value and truncates it to [0, 255]
func toChannel(linear float64) uint8 {
	v := GammaInverse(linear)*255 + channelEpsilon
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
