package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

const maxChannel = 255.0

// ErrChannelOverflow is returned by F32ToU8Strict when a scaled channel does
// not fit in a byte.
var ErrChannelOverflow = errors.New("channel out of 8-bit range")

var channelNames = [4]string{"red", "green", "blue", "alpha"}

// U8ToF32 maps every channel, alpha included, from [0,255] to v/255.
func U8ToF32(c U8x4Rgba) F32x4Rgba {
	return F32x4Rgba{
		R: float32(c.R) / maxChannel,
		G: float32(c.G) / maxChannel,
		B: float32(c.B) / maxChannel,
		A: float32(c.A) / maxChannel,
	}
}

// F32ToU8 maps every channel to round(v*255), rounding half away from zero.
// Scaled values below 0 saturate to 0, values above 255 saturate to 255 and
// NaN maps to 0.
func F32ToU8(c F32x4Rgba) U8x4Rgba {
	return U8x4Rgba{
		R: saturate(c.R),
		G: saturate(c.G),
		B: saturate(c.B),
		A: saturate(c.A),
	}
}

// F32ToU8Strict is F32ToU8 without saturation: a channel whose rounded,
// scaled value falls outside [0,255], or is NaN, yields an error wrapping
// ErrChannelOverflow.
func F32ToU8Strict(c F32x4Rgba) (U8x4Rgba, error) {
	var out [4]uint8
	for i, v := range c.Channels() {
		x := scale(v)
		if math.IsNaN(x) || x < 0 || x > 255 {
			return U8x4Rgba{}, fmt.Errorf("%w: %s channel %v", ErrChannelOverflow, channelNames[i], v)
		}
		out[i] = uint8(x)
	}
	return New(out[0], out[1], out[2], out[3]), nil
}

// FromColor converts any color.Color to straight float channels.
func FromColor(c color.Color) F32x4Rgba {
	if n, ok := c.(color.NRGBA); ok {
		return U8ToF32(FromNRGBA(n))
	}
	return U8ToF32(FromNRGBA(color.NRGBAModel.Convert(c).(color.NRGBA)))
}

// FromNRGBA copies the channels of an image/color NRGBA value.
func FromNRGBA(c color.NRGBA) U8x4Rgba {
	return U8x4Rgba{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ToNRGBA is the inverse of FromNRGBA.
func ToNRGBA(c U8x4Rgba) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// --- helpers ---

// scale returns round(v*255) with halves rounded away from zero.
func scale(v float32) float64 {
	return math.Round(float64(v * maxChannel))
}

func saturate(v float32) uint8 {
	x := scale(v)
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return uint8(x)
}
