package color

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXYFromRGB8_ReferenceValues(t *testing.T) {
	g := testGamut(t)

	tests := []struct {
		name string
		rgb  RGB8
		x, y float32
	}{
		{"red", RGB8{255, 0, 0}, 0.6399, 0.3300},
		{"green", RGB8{0, 255, 0}, 0.300, 0.600},
		{"blue", RGB8{0, 0, 255}, 0.1535, 0.0599},
		{"gray", RGB8{128, 128, 128}, 0.31273, 0.32902},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := g.XYFromRGB8(tt.rgb)
			assert.InDelta(t, tt.x, p.X(), 1e-4)
			assert.InDelta(t, tt.y, p.Y(), 1e-4)
			assert.True(t, g.Contains(p))
		})
	}
}

func TestXYFromRGB8_Black(t *testing.T) {
	g := testGamut(t)
	p := g.XYFromRGB8(RGB8{})
	assert.Equal(t, g.Restrain(WhitePoint()), p)
	assert.True(t, g.Contains(p))
}

func TestXYFromRGB8_AlwaysInGamut(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, g := range []Gamut{GamutA, GamutB, GamutC} {
		for i := 0; i < 2000; i++ {
			rgb := RGB8{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
			p := g.XYFromRGB8(rgb)
			require.True(t, g.Contains(p), "%v -> %v", rgb, p)
		}
	}
}

func TestRGB8FromXY(t *testing.T) {
	g := testGamut(t)

	rgb := g.RGB8FromXY(mustPoint(t, 0.6399, 0.3300))
	assert.InDelta(t, 255, int(rgb.R), 1)
	assert.InDelta(t, 0, int(rgb.G), 1)
	assert.InDelta(t, 0, int(rgb.B), 1)
}

func TestRGB8FromXY_WhiteIsFullBrightness(t *testing.T) {
	white := RGB8{255, 255, 255}
	for name, g := range map[string]Gamut{"test": testGamut(t), "A": GamutA, "C": GamutC} {
		t.Run(name, func(t *testing.T) {
			for _, rgb := range []RGB8{g.RGB8FromXY(WhitePoint()), g.RGB8FromXY(g.XYFromRGB8(white))} {
				assert.InDelta(t, 255, int(rgb.R), 1, "%v", rgb)
				assert.InDelta(t, 255, int(rgb.G), 1, "%v", rgb)
				assert.InDelta(t, 255, int(rgb.B), 1, "%v", rgb)
			}
		})
	}
}

func TestRGB8FromXY_RestrainsFirst(t *testing.T) {
	g := testGamut(t)
	outside := mustPoint(t, 0.9, 0.1)
	assert.Equal(t, g.RGB8FromXY(g.Restrain(outside)), g.RGB8FromXY(outside))
}

func TestGammaRoundTrip(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		c := float64(i) / 1000
		assert.InDelta(t, c, GammaInverse(GammaCorrect(c)), 1e-6, "c=%v", c)
	}
	assert.Equal(t, 0.0, GammaCorrect(0))
	assert.InDelta(t, 1.0, GammaCorrect(1), 1e-12)
}

func TestToChannel(t *testing.T) {
	assert.Equal(t, uint8(0), toChannel(-0.5))
	assert.Equal(t, uint8(0), toChannel(0))
	assert.Equal(t, uint8(255), toChannel(1))
	assert.Equal(t, uint8(255), toChannel(0.99999999999))
	assert.Equal(t, uint8(127), toChannel(GammaCorrect(127.5/255)))
	assert.Equal(t, uint8(255), toChannel(3.2))
}

func TestRGB8Format(t *testing.T) {
	c := RGB8{R: 255, G: 16, B: 0}
	assert.Equal(t, "rgb(255, 16, 0)", c.String())
	assert.Equal(t, "#ff1000", c.Hex())
}
