package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/echoflaresat/alphablend/blend"
	"github.com/echoflaresat/alphablend/canvas"
)

// RenderMode composites src onto dst with a single mode.
func RenderMode(ctx context.Context, src, dst *canvas.Canvas, mode blend.Mode, workers int) (*canvas.Canvas, error) {
	out, err := canvas.Composite(ctx, src, dst, mode, workers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mode, err)
	}
	return out, nil
}

// RenderAll composites src onto dst once per mode in blend.Modes.
func RenderAll(ctx context.Context, src, dst *canvas.Canvas, workers int) (map[blend.Mode]*canvas.Canvas, error) {
	out := make(map[blend.Mode]*canvas.Canvas, len(blend.Modes()))
	for _, mode := range blend.Modes() {
		c, err := RenderMode(ctx, src, dst, mode, workers)
		if err != nil {
			return nil, err
		}
		slog.Debug("rendered", "mode", mode)
		out[mode] = c
	}
	return out, nil
}
