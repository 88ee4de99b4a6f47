// Package render draws a resolved diagram plan onto a drawing surface.
package render

import (
	"image/color"

	"github.com/ha1tch/archdiag/pkg/diagram"
)

// Font sizes in points, as used by the reference diagram.
const (
	LabelSize = 8
	TitleSize = 16
)

// TextStyle describes free text drawn on a surface.
type TextStyle struct {
	Size       float64 // points
	Bold       bool
	Background bool // opaque patch behind the text
}

// Surface is the minimal drawing capability the renderer needs.
// Coordinates are world coordinates; surfaces map them to their own space.
type Surface interface {
	DrawBox(r diagram.Rect, fill color.Color, label string)
	DrawArrow(from, to diagram.Point)
	DrawText(at diagram.Point, text string, style TextStyle)
	DrawLegend(items []diagram.LegendItem)
}

// Exporter writes a finished surface to a file.
type Exporter interface {
	Export(path string) error
}

// Render draws the plan: boxes, then arrows and their labels, then the
// title, then the legend.
func Render(p *diagram.Plan, s Surface) {
	for _, b := range p.Boxes {
		s.DrawBox(b.Rect, b.Fill, b.Node.Label)
	}
	for _, c := range p.Connectors {
		s.DrawArrow(c.Start, c.End)
		if c.HasLabel() {
			s.DrawText(c.LabelAt, c.Label, TextStyle{Size: LabelSize, Background: true})
		}
	}
	if p.Title != "" {
		s.DrawText(p.TitleAt, p.Title, TextStyle{Size: TitleSize, Bold: true})
	}
	if len(p.Legend) > 0 {
		s.DrawLegend(p.Legend)
	}
}

// Draw lays out a scene and renders it. Nothing is drawn when layout fails.
func Draw(scene *diagram.Scene, size diagram.BoxSize, s Surface) (*diagram.Plan, error) {
	p, err := diagram.Layout(scene, size)
	if err != nil {
		return nil, err
	}
	Render(p, s)
	return p, nil
}
