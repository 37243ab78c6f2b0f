// Package vectors provides the four-lane float32 vector the blend formula
// is evaluated on.
package vectors

import "github.com/echoflaresat/alphablend/colors"

// F32x4 is a vector with four float32 lanes. Lanes W, X, Y, Z line up with
// the R, G, B, A channels of colors.F32x4Rgba.
type F32x4 struct {
	W, X, Y, Z float32
}

func New(w, x, y, z float32) F32x4 {
	return F32x4{W: w, X: x, Y: y, Z: z}
}

func Zero() F32x4 {
	return F32x4{}
}

// Splat returns a vector with every lane set to s.
func Splat(s float32) F32x4 {
	return F32x4{W: s, X: s, Y: s, Z: s}
}

// FromRGBA copies the channels of c into the lanes in R, G, B, A order.
func FromRGBA(c colors.F32x4Rgba) F32x4 {
	return F32x4{W: c.R, X: c.G, Y: c.B, Z: c.A}
}

// RGBA copies the lanes back into a color.
func (v F32x4) RGBA() colors.F32x4Rgba {
	return colors.F32x4Rgba{R: v.W, G: v.X, B: v.Y, A: v.Z}
}

// Lanes returns the four lanes in W, X, Y, Z order.
func (v F32x4) Lanes() [4]float32 {
	return [4]float32{v.W, v.X, v.Y, v.Z}
}

// Add returns v + o.
func (v F32x4) Add(o F32x4) F32x4 {
	return F32x4{v.W + o.W, v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// AddScalar returns v + s in every lane.
func (v F32x4) AddScalar(s float32) F32x4 {
	return F32x4{v.W + s, v.X + s, v.Y + s, v.Z + s}
}

// Mul returns v * o (lane-wise). The conversions keep each product rounded
// to float32 so a following Add is never fused into an FMA.
func (v F32x4) Mul(o F32x4) F32x4 {
	return F32x4{
		float32(v.W * o.W),
		float32(v.X * o.X),
		float32(v.Y * o.Y),
		float32(v.Z * o.Z),
	}
}

// Scale returns v * s in every lane.
func (v F32x4) Scale(s float32) F32x4 {
	return v.Mul(Splat(s))
}
