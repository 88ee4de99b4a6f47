package raster

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ha1tch/archdiag/pkg/diagram"
)

// Errors returned by the raster surface.
var (
	ErrInvalidOptions = errors.New("invalid raster options")
	ErrExport         = errors.New("export failed")
)

// Options configures PNG rendering.
type Options struct {
	FigureWidth  float64 // inches
	FigureHeight float64 // inches
	DPI          float64
	World        diagram.Rect // world area mapped onto the figure
	Background   color.RGBA
	Supersample  int     // render at N x and downsample; 1 disables
	Trim         bool    // crop to drawn content
	TrimPad      float64 // inches kept around the content when trimming
	ShrinkPt     float64 // gap between arrow ends and box edges
	LineWidthPt  float64
	ArrowHeadPt  float64
	CornerRadius float64 // world units
	NodeFontPt   float64
	LegendFontPt float64
}

// DefaultOptions returns the settings of the reference diagram:
// a 16x12 inch figure at 300 dpi over x in [0,10], y in [0,12].
func DefaultOptions() Options {
	return Options{
		FigureWidth:  16,
		FigureHeight: 12,
		DPI:          300,
		World:        diagram.Rect{Left: 0, Right: 10, Top: 12, Bottom: 0},
		Background:   color.RGBA{255, 255, 255, 255},
		Supersample:  1,
		Trim:         true,
		TrimPad:      0.1,
		ShrinkPt:     5,
		LineWidthPt:  2,
		ArrowHeadPt:  10,
		CornerRadius: 0.1,
		NodeFontPt:   9,
		LegendFontPt: 10,
	}
}

// Validate checks that the options describe a drawable canvas.
func (o Options) Validate() error {
	switch {
	case !(o.FigureWidth > 0) || !(o.FigureHeight > 0):
		return fmt.Errorf("%w: figure size %gx%g", ErrInvalidOptions, o.FigureWidth, o.FigureHeight)
	case !(o.DPI > 0):
		return fmt.Errorf("%w: dpi %g", ErrInvalidOptions, o.DPI)
	case !(o.World.Width() > 0) || !(o.World.Height() > 0):
		return fmt.Errorf("%w: empty world %+v", ErrInvalidOptions, o.World)
	case o.Supersample < 0:
		return fmt.Errorf("%w: supersample %d", ErrInvalidOptions, o.Supersample)
	case o.NodeFontPt <= 0 || o.LegendFontPt <= 0:
		return fmt.Errorf("%w: font sizes must be positive", ErrInvalidOptions)
	}
	return nil
}

// PixelSize returns the output size before trimming.
func (o Options) PixelSize() (int, int) {
	return int(o.FigureWidth*o.DPI + 0.5), int(o.FigureHeight*o.DPI + 0.5)
}
