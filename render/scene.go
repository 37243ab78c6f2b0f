// Package render builds the demo scene and composites it with every blend
// mode.
package render

import (
	"image"

	"github.com/echoflaresat/alphablend/canvas"
	"github.com/echoflaresat/alphablend/colors"
)

// Scene describes two overlapping squares on a transparent square canvas.
// Src covers the bottom-left three quarters, Dst the top-right three
// quarters.
type Scene struct {
	Size int
	Src  colors.F32x4Rgba
	Dst  colors.F32x4Rgba
}

// DefaultScene is a half-transparent blue square blended onto a
// half-transparent red one.
func DefaultScene(size int) Scene {
	return Scene{
		Size: size,
		Src:  colors.New[float32](0, 0, 1, 0.5),
		Dst:  colors.New[float32](1, 0, 0, 0.5),
	}
}

// Layers returns the source and destination canvases.
func (s Scene) Layers() (src, dst *canvas.Canvas) {
	edge := s.Size * 3 / 4
	offset := s.Size - edge

	src = canvas.New(s.Size, s.Size)
	src.FillRect(image.Rect(0, offset, edge, s.Size), s.Src)

	dst = canvas.New(s.Size, s.Size)
	dst.FillRect(image.Rect(offset, 0, s.Size, edge), s.Dst)
	return src, dst
}
