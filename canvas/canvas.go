// Package canvas holds float RGBA pixel buffers and composites them with a
// blend.Blender.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"github.com/echoflaresat/alphablend/blend"
	"github.com/echoflaresat/alphablend/colors"
	"golang.org/x/sync/errgroup"
)

// ErrSizeMismatch is returned when two canvases of different sizes are
// composited.
var ErrSizeMismatch = errors.New("canvas size mismatch")

// Canvas is a row-major buffer of straight-alpha float pixels.
type Canvas struct {
	Width  int
	Height int
	Pix    []colors.F32x4Rgba
}

// New returns a transparent canvas of the given size.
func New(width, height int) *Canvas {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("canvas: negative size %dx%d", width, height))
	}
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]colors.F32x4Rgba, width*height),
	}
}

func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

func (c *Canvas) offset(x, y int) int {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		panic(fmt.Sprintf("canvas: pixel (%d,%d) outside %dx%d", x, y, c.Width, c.Height))
	}
	return y*c.Width + x
}

func (c *Canvas) At(x, y int) colors.F32x4Rgba {
	return c.Pix[c.offset(x, y)]
}

func (c *Canvas) Set(x, y int, col colors.F32x4Rgba) {
	c.Pix[c.offset(x, y)] = col
}

// Fill sets every pixel to col.
func (c *Canvas) Fill(col colors.F32x4Rgba) {
	for i := range c.Pix {
		c.Pix[i] = col
	}
}

// FillRect sets the pixels of r, clipped to the canvas, to col.
func (c *Canvas) FillRect(r image.Rectangle, col colors.F32x4Rgba) {
	r = r.Intersect(c.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.Pix[y*c.Width : (y+1)*c.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = col
		}
	}
}

func (c *Canvas) Clone() *Canvas {
	out := &Canvas{Width: c.Width, Height: c.Height, Pix: make([]colors.F32x4Rgba, len(c.Pix))}
	copy(out.Pix, c.Pix)
	return out
}

// Composite blends every pixel of src onto the matching pixel of dst and
// returns the result as a new canvas. Rows are spread over at most workers
// goroutines; workers <= 0 uses GOMAXPROCS.
func Composite(ctx context.Context, src, dst *Canvas, b blend.Blender, workers int) (*Canvas, error) {
	if src.Width != dst.Width || src.Height != dst.Height {
		return nil, fmt.Errorf("%w: source %dx%d, destination %dx%d",
			ErrSizeMismatch, src.Width, src.Height, dst.Width, dst.Height)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	slog.Debug("compositing", "width", src.Width, "height", src.Height, "workers", workers)

	out := New(src.Width, src.Height)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < src.Height; y++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lo, hi := y*src.Width, (y+1)*src.Width
			s, d, o := src.Pix[lo:hi], dst.Pix[lo:hi], out.Pix[lo:hi]
			for x := range o {
				o[x] = b.Apply(s[x], d[x])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop may have stopped early without any goroutine observing it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
