package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/echoflaresat/alphablend/blend"
	"github.com/echoflaresat/alphablend/canvas"
	"github.com/echoflaresat/alphablend/render"
	"github.com/echoflaresat/alphablend/texture"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <cols>x<rows> <output> <tile1> <tile2> ...\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1], os.Args[2], os.Args[3:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, layout, output string, inputFiles []string) error {
	cols, rows, err := parseLayout(layout)
	if err != nil {
		return err
	}
	if len(inputFiles) != cols*rows {
		return fmt.Errorf("expected %d input files, got %d", cols*rows, len(inputFiles))
	}

	format, err := render.FormatFromPath(output)
	if err != nil {
		return err
	}

	tiles := make([]*canvas.Canvas, len(inputFiles))
	for i, path := range inputFiles {
		fmt.Printf("Processing %s\n", path)
		if tiles[i], err = texture.Load(path); err != nil {
			return fmt.Errorf("could not load input file %q: %w", path, err)
		}
	}

	mosaic, err := merge(ctx, cols, tiles)
	if err != nil {
		return err
	}

	fmt.Printf("-> creating %s\n", output)
	return save(output, mosaic, format)
}

// save writes the mosaic and removes the output again if encoding fails.
func save(output string, mosaic *canvas.Canvas, format render.Format) error {
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", output, err)
	}
	if err := render.Encode(out, mosaic.NRGBA(), format); err != nil {
		out.Close()
		os.Remove(output)
		return fmt.Errorf("failed to encode %s: %w", output, err)
	}
	return out.Close()
}

func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid tile format: %s (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols %q", parts[0])
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows %q", parts[1])
	}
	return cols, rows, nil
}

// merge lays tiles out row-major, each composited SourceOver onto a
// transparent mosaic. All tiles must share the first tile's size.
func merge(ctx context.Context, cols int, tiles []*canvas.Canvas) (*canvas.Canvas, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("no tiles")
	}
	tileW, tileH := tiles[0].Width, tiles[0].Height
	rows := (len(tiles) + cols - 1) / cols
	mosaic := canvas.New(cols*tileW, rows*tileH)

	for idx, tile := range tiles {
		if tile.Width != tileW || tile.Height != tileH {
			return nil, fmt.Errorf("tile %d: expected %dx%d, got %dx%d: %w",
				idx, tileW, tileH, tile.Width, tile.Height, canvas.ErrSizeMismatch)
		}
		at := image.Pt((idx%cols)*tileW, (idx/cols)*tileH)

		under := crop(mosaic, image.Rectangle{Min: at, Max: at.Add(image.Pt(tileW, tileH))})
		blended, err := canvas.Composite(ctx, tile, under, blend.SourceOver, 0)
		if err != nil {
			return nil, err
		}
		paste(mosaic, blended, at)
	}
	return mosaic, nil
}

func crop(c *canvas.Canvas, r image.Rectangle) *canvas.Canvas {
	out := canvas.New(r.Dx(), r.Dy())
	for y := 0; y < out.Height; y++ {
		copy(out.Pix[y*out.Width:(y+1)*out.Width], c.Pix[(r.Min.Y+y)*c.Width+r.Min.X:])
	}
	return out
}

func paste(c, tile *canvas.Canvas, at image.Point) {
	for y := 0; y < tile.Height; y++ {
		copy(c.Pix[(at.Y+y)*c.Width+at.X:], tile.Pix[y*tile.Width:(y+1)*tile.Width])
	}
}
