package render

import (
	"image/color"

	"github.com/taigrr/tinyrasta/pkg/math3d"
)

// PackARGB packs an RGBA colour with channels in [0,1] into
// A<<24 | R<<16 | G<<8 | B. Channels are clamped, then scaled by 255 and
// truncated.
func PackARGB(c math3d.Vec4) uint32 {
	return channel(c.W)<<24 | channel(c.X)<<16 | channel(c.Y)<<8 | channel(c.Z)
}

func channel(v float32) uint32 {
	switch {
	case v >= 1:
		return 255
	case v > 0:
		return uint32(v * 255)
	default:
		// Negative and NaN
		return 0
	}
}

// UnpackARGB converts a packed pixel to a non-premultiplied colour.
func UnpackARGB(p uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(p >> 16),
		G: uint8(p >> 8),
		B: uint8(p),
		A: uint8(p >> 24),
	}
}
