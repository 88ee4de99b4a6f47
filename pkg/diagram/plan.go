// Plan holds the fully resolved geometry of a scene.
// Surfaces draw from a Plan and never look at the Scene directly.

package diagram

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// PlacedBox is a node with its resolved rectangle and fill.
type PlacedBox struct {
	Node Node
	Rect Rect
	Fill color.RGBA
}

// LegendItem is a resolved legend row.
type LegendItem struct {
	Category Category
	Name     string
	Fill     color.RGBA
}

// Plan contains everything a surface needs to draw a scene.
type Plan struct {
	Title      string
	TitleAt    Point
	Boxes      []PlacedBox
	Connectors []Connector
	Legend     []LegendItem
	Bounds     Rect // union of all boxes
	BoxSize    BoxSize
}

// Layout validates a scene and resolves its geometry. It fails on the first
// configuration defect; no partial plan is returned.
func Layout(s *Scene, size BoxSize) (*Plan, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	styles, err := NewStyleMap(s.Colors)
	if err != nil {
		return nil, err
	}
	nodes, err := s.Index()
	if err != nil {
		return nil, err
	}

	p := &Plan{Title: s.Title, BoxSize: size}

	for i, n := range s.Nodes {
		if !n.Center.Finite() {
			return nil, fmt.Errorf("node %q: %w: centre (%g, %g)", n.ID, ErrInvalidGeometry, n.Center.X, n.Center.Y)
		}
		fill, err := styles.ColorOf(n.Category)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		r := BoxOf(n, size)
		if i == 0 {
			p.Bounds = r
		} else {
			p.Bounds = p.Bounds.Union(r)
		}
		p.Boxes = append(p.Boxes, PlacedBox{Node: n, Rect: r, Fill: fill})
	}

	for i, c := range s.Connections {
		from, ok := nodes[c.From]
		if !ok {
			return nil, fmt.Errorf("connection %d (%s -> %s): %w: %q", i, c.From, c.To, ErrUnknownNode, c.From)
		}
		to, ok := nodes[c.To]
		if !ok {
			return nil, fmt.Errorf("connection %d (%s -> %s): %w: %q", i, c.From, c.To, ErrUnknownNode, c.To)
		}
		conn, err := Route(from, to, size)
		if err != nil {
			return nil, fmt.Errorf("connection %d (%s -> %s): %w", i, c.From, c.To, err)
		}
		conn.Label = c.Label
		p.Connectors = append(p.Connectors, conn)
	}

	for _, e := range s.Legend {
		fill, err := styles.ColorOf(e.Category)
		if err != nil {
			return nil, fmt.Errorf("legend %q: %w", e.Name, err)
		}
		p.Legend = append(p.Legend, LegendItem{Category: e.Category, Name: e.Name, Fill: fill})
	}

	if s.TitleAt != nil {
		if !s.TitleAt.Finite() {
			return nil, fmt.Errorf("title: %w: position (%g, %g)", ErrInvalidGeometry, s.TitleAt.X, s.TitleAt.Y)
		}
		p.TitleAt = *s.TitleAt
	} else {
		// Centred above the boxes, one and a half half-heights clear of them.
		p.TitleAt = Point{p.Bounds.Center().X, p.Bounds.Top + size.HalfHeight*1.5}
	}

	return p, nil
}

// WriteText writes a stable, line-oriented description of the plan.
func (p *Plan) WriteText(w io.Writer) error {
	var sb strings.Builder

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf("title %q at %s\n", p.Title, fmtPoint(p.TitleAt)))
	}
	for _, b := range p.Boxes {
		sb.WriteString(fmt.Sprintf("box %s %s [l=%.3f r=%.3f t=%.3f b=%.3f] %s %s\n",
			b.Node.ID, fmtPoint(b.Node.Center),
			b.Rect.Left, b.Rect.Right, b.Rect.Top, b.Rect.Bottom,
			b.Node.Category, hexColor(b.Fill)))
	}
	for _, c := range p.Connectors {
		sb.WriteString(fmt.Sprintf("conn %s -> %s %s %s -> %s",
			c.From, c.To, c.Direction, fmtPoint(c.Start), fmtPoint(c.End)))
		if c.HasLabel() {
			sb.WriteString(fmt.Sprintf(" label %q at %s", c.Label, fmtPoint(c.LabelAt)))
		}
		sb.WriteString("\n")
	}
	for _, l := range p.Legend {
		sb.WriteString(fmt.Sprintf("legend %s %q %s\n", l.Category, l.Name, hexColor(l.Fill)))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func fmtPoint(pt Point) string {
	return fmt.Sprintf("(%.3f, %.3f)", pt.X, pt.Y)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
