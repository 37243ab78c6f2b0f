// Package texture loads input layers from disk into float canvases.
package texture

import (
	"errors"
	"image"
	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
	"io"
	"log/slog"
	"os"

	"github.com/echoflaresat/alphablend/canvas"
	"github.com/echoflaresat/alphablend/texture/tiff"
	ftiff "github.com/echoflaresat/tiff"
	"golang.org/x/image/draw"
)

// Load reads the image at path into a canvas. Plain 8-bit TIFFs are read
// through a memory mapping; anything else goes through the TIFF decoder and
// then the registered image codecs.
func Load(path string) (*canvas.Canvas, error) {
	img, closer, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return canvas.FromImage(img), nil
}

func loadImage(path string) (image.Image, io.Closer, error) {
	striped, err := tiff.LoadStriped(path)
	if err == nil {
		return striped, striped, nil
	}
	if errors.Is(err, tiff.ErrTruncated) {
		return nil, nil, err
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		slog.Debug("not a plain striped TIFF", "path", path, "error", err)
	}

	tiled, err := tiff.LoadTiled(path)
	if err == nil {
		return tiled, tiled, nil
	}
	if errors.Is(err, tiff.ErrTruncated) {
		return nil, nil, err
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		slog.Warn("failed to load tiled TIFF", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	img, err := ftiff.Decode(f)
	if err == nil {
		return img, f, nil
	}

	// fallback to image codecs
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, err
	}
	img, _, err = image.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return img, f, nil
}

// Fit returns c rescaled to width x height with bilinear filtering, or c
// itself when it already has that size.
func Fit(c *canvas.Canvas, width, height int) *canvas.Canvas {
	if c.Width == width && c.Height == height {
		return c
	}
	slog.Debug("rescaling layer", "from", c.Bounds().Size(), "to", image.Pt(width, height))

	src := c.NRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return canvas.FromImage(dst)
}
