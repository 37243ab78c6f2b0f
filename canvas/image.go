package canvas

import (
	"fmt"
	"image"

	"github.com/echoflaresat/alphablend/colors"
)

// FromImage converts img into a canvas with its origin moved to (0,0).
func FromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := New(b.Dx(), b.Dy())

	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				px := n.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				c.Pix[y*c.Width+x] = colors.U8ToF32(colors.FromNRGBA(px))
			}
		}
		return c
	}

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.Pix[y*c.Width+x] = colors.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return c
}

// NRGBA converts the canvas to 8-bit channels, saturating values outside
// [0,1].
func (c *Canvas) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(c.Bounds())
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.SetNRGBA(x, y, colors.ToNRGBA(colors.F32ToU8(c.Pix[y*c.Width+x])))
		}
	}
	return img
}

// NRGBAStrict is NRGBA but fails on the first pixel with a channel outside
// the 8-bit range.
func (c *Canvas) NRGBAStrict() (*image.NRGBA, error) {
	img := image.NewNRGBA(c.Bounds())
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			px, err := colors.F32ToU8Strict(c.Pix[y*c.Width+x])
			if err != nil {
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			img.SetNRGBA(x, y, colors.ToNRGBA(px))
		}
	}
	return img, nil
}
