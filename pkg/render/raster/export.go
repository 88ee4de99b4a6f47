package raster

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/logging"
	"github.com/ha1tch/archdiag/pkg/render"
)

// Export writes the canvas to path as PNG. The image goes to a temporary
// file in the same directory first, so a failed export never leaves a
// partial file at path.
func (c *Canvas) Export(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".archdiag-*.png")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	tmpName := tmp.Name()

	err = c.Encode(tmp)
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	return nil
}

// RenderPNG lays out a scene and writes it to w as PNG.
func RenderPNG(scene *diagram.Scene, size diagram.BoxSize, w io.Writer, opts Options) (*diagram.Plan, error) {
	plan, c, err := drawScene(scene, size, opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return plan, c.Encode(w)
}

// RenderFile runs the whole pipeline for one scene: layout, draw, export.
// Layout errors abort before any file is touched.
func RenderFile(ctx context.Context, scene *diagram.Scene, size diagram.BoxSize, opts Options, path string) (*diagram.Plan, error) {
	if logging.RenderID(ctx) == "" {
		ctx = logging.WithRenderID(ctx, "")
	}
	start := time.Now()

	plan, c, err := drawScene(scene, size, opts)
	if err != nil {
		logging.ErrorContext(ctx, "render aborted", "error", err)
		return nil, err
	}
	defer c.Close()
	logging.DebugContext(ctx, "scene drawn",
		"boxes", len(plan.Boxes), "connectors", len(plan.Connectors))
	for _, id := range offFigure(plan, opts.World) {
		logging.WarnContext(ctx, "box outside figure", "node", id)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Export(path); err != nil {
		logging.ErrorContext(ctx, "export failed", "path", path, "error", err)
		return nil, err
	}

	b := c.Image().Bounds()
	logging.InfoContext(ctx, "wrote diagram",
		"path", path, "width", b.Dx(), "height", b.Dy(), "dpi", opts.DPI,
		"duration", time.Since(start).Round(time.Millisecond))
	return plan, nil
}

// offFigure returns the ids of boxes not fully inside the world window.
// Such boxes are clipped in the output.
func offFigure(plan *diagram.Plan, world diagram.Rect) []string {
	var ids []string
	for _, b := range plan.Boxes {
		r := b.Rect
		if !world.Contains(diagram.Point{X: r.Left, Y: r.Bottom}) ||
			!world.Contains(diagram.Point{X: r.Right, Y: r.Top}) {
			ids = append(ids, b.Node.ID)
		}
	}
	return ids
}

// drawScene builds a fresh canvas and renders the scene onto it.
func drawScene(scene *diagram.Scene, size diagram.BoxSize, opts Options) (*diagram.Plan, *Canvas, error) {
	plan, err := diagram.Layout(scene, size)
	if err != nil {
		return nil, nil, err
	}
	c, err := NewCanvas(opts)
	if err != nil {
		return nil, nil, err
	}
	render.Render(plan, c)
	return plan, c, nil
}
