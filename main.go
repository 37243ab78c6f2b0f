package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/echoflaresat/alphablend/blend"
	"github.com/echoflaresat/alphablend/canvas"
	"github.com/echoflaresat/alphablend/render"
	"github.com/echoflaresat/alphablend/texture"
)

type config struct {
	mode, format  *string
	src, dst, out *string
	size, workers *int
	strict        *bool
	verbose       *bool
	showHelp      *bool
}

func defineFlags() config {
	return config{
		mode:    flag.String("mode", "all", "Blend mode name (e.g. SourceOver) or \"all\""),
		size:    flag.Int("size", 100, "Side of the generated scene in pixels"),
		workers: flag.Int("workers", 0, "Compositing goroutines (0 = GOMAXPROCS)"),
		strict:  flag.Bool("strict", false, "Fail on channels outside [0,1] instead of saturating"),

		src: flag.String("src", "", "Source layer image; requires -dst"),
		dst: flag.String("dst", "", "Destination layer image; the source is rescaled to its size"),

		out:    flag.String("out", "out", "Output directory"),
		format: flag.String("format", "png", "Output format: png, jpeg, tiff or bmp"),

		verbose:  flag.Bool("v", false, "Verbose logging"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Alpha Blend - Porter-Duff compositing demo

Usage:
  %[1]s [options]

Writes blend_<Mode>.<ext> into the output directory for each selected mode.

`, os.Args[0])

	printGroup("Blending Options", []string{"mode", "size", "workers", "strict"})
	printGroup("Layers", []string{"src", "dst"})
	printGroup("Output", []string{"out", "format"})
	printGroup("Misc", []string{"v", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-8s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {

	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	level := slog.LevelInfo
	if *cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config) error {
	modes, err := selectModes(*cfg.mode)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(*cfg.format)
	if err != nil {
		return err
	}

	src, dst, err := loadLayers(*cfg.src, *cfg.dst, *cfg.size)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*cfg.out, 0o755); err != nil {
		return err
	}

	for _, mode := range modes {
		c, err := render.RenderMode(ctx, src, dst, mode, *cfg.workers)
		if err != nil {
			return err
		}

		img := c.NRGBA()
		if *cfg.strict {
			if img, err = c.NRGBAStrict(); err != nil {
				return fmt.Errorf("%s: %w", mode, err)
			}
		}

		name := "blend_" + mode.String() + format.Ext()
		if err := writeImage(filepath.Join(*cfg.out, name), img, format); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Printf("Wrote blended canvas for %s to %s\n", mode, name)
	}
	return nil
}

func selectModes(name string) ([]blend.Mode, error) {
	if name == "all" {
		return blend.Modes(), nil
	}
	mode, err := blend.ParseMode(name)
	if err != nil {
		return nil, err
	}
	return []blend.Mode{mode}, nil
}

// loadLayers returns the default scene unless both layer paths are set.
func loadLayers(srcPath, dstPath string, size int) (src, dst *canvas.Canvas, err error) {
	if srcPath == "" && dstPath == "" {
		if size <= 0 {
			return nil, nil, fmt.Errorf("invalid size %d", size)
		}
		src, dst = render.DefaultScene(size).Layers()
		return src, dst, nil
	}
	if srcPath == "" || dstPath == "" {
		return nil, nil, errors.New("-src and -dst must be given together")
	}

	if src, err = texture.Load(srcPath); err != nil {
		return nil, nil, fmt.Errorf("loading source layer: %w", err)
	}
	if dst, err = texture.Load(dstPath); err != nil {
		return nil, nil, fmt.Errorf("loading destination layer: %w", err)
	}
	return texture.Fit(src, dst.Width, dst.Height), dst, nil
}

func writeImage(path string, img image.Image, format render.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
