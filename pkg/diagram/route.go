// Connector routing between node boxes.

package diagram

import "fmt"

// Direction is the dominant direction of a connection.
type Direction int

const (
	DirDegenerate Direction = iota // identical centres, no direction
	DirRight
	DirLeft
	DirDown
	DirUp
)

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	}
	return "degenerate"
}

// Horizontal reports whether the connection runs along the X axis.
func (d Direction) Horizontal() bool {
	return d == DirRight || d == DirLeft
}

// anchorSides maps a direction to the side of the source box and the side of
// the target box the connector attaches to.
var anchorSides = map[Direction][2]Side{
	DirRight: {SideRight, SideLeft},
	DirLeft:  {SideLeft, SideRight},
	DirDown:  {SideBottom, SideTop},
	DirUp:    {SideTop, SideBottom},
}

// Classify returns the direction of a connection from c1 to c2.
// X is compared before Y: any connection whose centres differ in X is
// horizontal, even when they also differ in Y.
func Classify(c1, c2 Point) Direction {
	switch {
	case c1.X < c2.X:
		return DirRight
	case c1.X > c2.X:
		return DirLeft
	case c1.Y > c2.Y:
		return DirDown
	case c1.Y < c2.Y:
		return DirUp
	}
	return DirDegenerate
}

// Connector is a routed connection: where the arrow starts and ends and
// where its label goes.
type Connector struct {
	From, To  string
	Direction Direction
	Start     Point // on the source box edge
	End       Point // on the target box edge
	Label     string
	LabelAt   Point // midpoint of Start and End
}

// HasLabel reports whether the connector carries a label.
func (c Connector) HasLabel() bool {
	return c.Label != ""
}

// Route computes the anchors of a connection between two nodes.
func Route(from, to Node, size BoxSize) (Connector, error) {
	dir := Classify(from.Center, to.Center)
	sides, ok := anchorSides[dir]
	if !ok {
		return Connector{}, fmt.Errorf("%w: %q and %q share centre (%g, %g)",
			ErrDegenerateConnection, from.ID, to.ID, from.Center.X, from.Center.Y)
	}

	start := EdgeMidpoint(BoxOf(from, size), sides[0])
	end := EdgeMidpoint(BoxOf(to, size), sides[1])
	return Connector{
		From:      from.ID,
		To:        to.ID,
		Direction: dir,
		Start:     start,
		End:       end,
		LabelAt:   Midpoint(start, end),
	}, nil
}
