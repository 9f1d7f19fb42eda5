package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arena/vmath"
)

// RGB is an 8-bit color triple
type RGB struct {
	R, G, B uint8
}

// Palette
var (
	RGBBackground = RGB{12, 12, 20}
	RGBWall       = RGB{90, 90, 120}
	RGBHealthLow  = RGB{230, 40, 40}
	RGBHealthMid  = RGB{240, 200, 40}
	RGBHealthHigh = RGB{60, 220, 90}
	RGBDying      = RGB{110, 110, 110}
	RGBLabel      = RGB{220, 220, 235}
	RGBHUD        = RGB{0, 200, 220}
	RGBBanner     = RGB{255, 215, 0}
)

func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// LerpRGB interpolates channel-wise, t clamped to [0,1]
func LerpRGB(a, b RGB, t float64) RGB {
	t = vmath.Clamp(t, 0, 1)
	ch := func(x, y uint8) uint8 {
		return uint8(vmath.Lerp(float64(x), float64(y), t) + 0.5)
	}
	return RGB{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B)}
}

// HealthColor maps a health fraction through low, mid and high
func HealthColor(f float64) RGB {
	if f < 0.5 {
		return LerpRGB(RGBHealthLow, RGBHealthMid, f*2)
	}
	return LerpRGB(RGBHealthMid, RGBHealthHigh, (f-0.5)*2)
}
