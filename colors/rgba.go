// Package colors holds the four-channel RGBA value types the compositor
// works on and the conversions between their 8-bit and float32 encodings.
package colors

import "golang.org/x/exp/constraints"

// Channel is the set of numeric types a color channel may hold.
type Channel interface {
	constraints.Integer | constraints.Float
}

// Rgba is a straight (not premultiplied) RGBA color. No range is enforced on
// any channel; blending may leave values outside the encoding's usual domain.
type Rgba[C Channel] struct {
	R, G, B, A C
}

// U8x4Rgba stores each channel in [0,255].
type U8x4Rgba = Rgba[uint8]

// F32x4Rgba stores each channel as a float32, nominally in [0,1].
type F32x4Rgba = Rgba[float32]

// New returns the color (r, g, b, a).
func New[C Channel](r, g, b, a C) Rgba[C] {
	return Rgba[C]{R: r, G: g, B: b, A: a}
}

// Zeroed returns the color with all four channels set to zero.
func Zeroed[C Channel]() Rgba[C] {
	return Rgba[C]{}
}

func (c Rgba[C]) Red() C   { return c.R }
func (c Rgba[C]) Green() C { return c.G }
func (c Rgba[C]) Blue() C  { return c.B }
func (c Rgba[C]) Alpha() C { return c.A }

// Channels returns the four channels in R, G, B, A order.
func (c Rgba[C]) Channels() [4]C {
	return [4]C{c.R, c.G, c.B, c.A}
}

// Opaque primaries and neutrals.

func Red() F32x4Rgba {
	return F32x4Rgba{R: 1, G: 0, B: 0, A: 1}
}

func Blue() F32x4Rgba {
	return F32x4Rgba{R: 0, G: 0, B: 1, A: 1}
}

func Green() F32x4Rgba {
	return F32x4Rgba{R: 0, G: 1, B: 0, A: 1}
}

func White() F32x4Rgba {
	return F32x4Rgba{R: 1, G: 1, B: 1, A: 1}
}

func Black() F32x4Rgba {
	return F32x4Rgba{R: 0, G: 0, B: 0, A: 1}
}

// Transparent is the zero color.
func Transparent() F32x4Rgba {
	return F32x4Rgba{}
}
