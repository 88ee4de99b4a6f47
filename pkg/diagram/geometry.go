// Box geometry for diagram nodes.
// World coordinates grow rightward in X and upward in Y.

package diagram

import (
	"fmt"
	"math"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Side names one of the four edges of a box.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Rect is an axis-aligned rectangle. Top is greater than Bottom.
type Rect struct {
	Left, Right float64
	Top, Bottom float64
}

// Contains checks if a point is inside the rectangle (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right &&
		p.Y >= r.Bottom && p.Y <= r.Top
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: (r.Left + r.Right) / 2,
		Y: (r.Top + r.Bottom) / 2,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Top - r.Bottom
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Right:  math.Max(r.Right, o.Right),
		Top:    math.Max(r.Top, o.Top),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
}

// BoxSize is the half extent shared by every node box.
type BoxSize struct {
	HalfWidth  float64
	HalfHeight float64
}

// DefaultBoxSize returns the 1.6 x 1.2 box used by the reference diagram.
func DefaultBoxSize() BoxSize {
	return BoxSize{HalfWidth: 0.8, HalfHeight: 0.6}
}

// Validate rejects non-positive or non-finite dimensions.
func (b BoxSize) Validate() error {
	for _, v := range []float64{b.HalfWidth, b.HalfHeight} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: half size %gx%g", ErrInvalidGeometry, b.HalfWidth, b.HalfHeight)
		}
	}
	return nil
}

// BoxOf returns the bounding rectangle of a node.
func BoxOf(n Node, size BoxSize) Rect {
	return Rect{
		Left:   n.Center.X - size.HalfWidth,
		Right:  n.Center.X + size.HalfWidth,
		Top:    n.Center.Y + size.HalfHeight,
		Bottom: n.Center.Y - size.HalfHeight,
	}
}

// EdgeMidpoint returns the midpoint of one side of r.
func EdgeMidpoint(r Rect, s Side) Point {
	c := r.Center()
	switch s {
	case SideLeft:
		return Point{r.Left, c.Y}
	case SideRight:
		return Point{r.Right, c.Y}
	case SideTop:
		return Point{c.X, r.Top}
	case SideBottom:
		return Point{c.X, r.Bottom}
	}
	return c
}

// Shrink pulls both ends of the segment a-b inward, a by da and b by db.
// A segment too short for both margins collapses to its midpoint.
func Shrink(a, b Point, da, db float64) (Point, Point) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 || da+db >= dist {
		m := Midpoint(a, b)
		return m, m
	}
	nx := dx / dist
	ny := dy / dist
	return Point{a.X + nx*da, a.Y + ny*da}, Point{b.X - nx*db, b.Y - ny*db}
}
