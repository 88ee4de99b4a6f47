// Package diagram models a static architecture diagram and resolves its
// geometry: node boxes, connector anchors and label positions.
package diagram

import (
	"errors"
	"fmt"
)

// Errors returned while resolving a scene. All of them abort the render.
var (
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownNode          = errors.New("unknown node reference")
	ErrDegenerateConnection = errors.New("degenerate connection")
	ErrInvalidGeometry      = errors.New("invalid box geometry")
	ErrDuplicateNode        = errors.New("duplicate node id")
	ErrInvalidColor         = errors.New("invalid color")
)

// Category groups nodes that share a fill colour and a legend entry.
type Category string

// Node is a labeled, positioned, categorized box.
type Node struct {
	ID       string
	Center   Point
	Label    string // may contain '\n'
	Category Category
}

// Connection is a directed arrow From -> To with an optional label.
type Connection struct {
	From  string
	To    string
	Label string
}

// LegendEntry names a category in the legend.
type LegendEntry struct {
	Category Category
	Name     string
}

// Scene is the complete description of one diagram.
type Scene struct {
	Title       string
	TitleAt     *Point // nil centres the title above the boxes
	Nodes       []Node // drawing order
	Connections []Connection
	Colors      map[Category]string // hex colours
	Legend      []LegendEntry
}

// AddNode appends a node to the scene.
func (s *Scene) AddNode(id string, x, y float64, label string, cat Category) {
	s.Nodes = append(s.Nodes, Node{ID: id, Center: Point{x, y}, Label: label, Category: cat})
}

// Connect appends a connection to the scene.
func (s *Scene) Connect(from, to, label string) {
	s.Connections = append(s.Connections, Connection{From: from, To: to, Label: label})
}

// Index returns the nodes keyed by id. It fails on empty or repeated ids.
func (s *Scene) Index() (map[string]Node, error) {
	idx := make(map[string]Node, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: empty id", i)
		}
		if _, exists := idx[n.ID]; exists {
			return nil, fmt.Errorf("node %d: %w: %q", i, ErrDuplicateNode, n.ID)
		}
		idx[n.ID] = n
	}
	return idx, nil
}

// Categories returns the distinct categories used by nodes, in first-use order.
func (s *Scene) Categories() []Category {
	seen := make(map[Category]bool)
	var cats []Category
	for _, n := range s.Nodes {
		if !seen[n.Category] {
			seen[n.Category] = true
			cats = append(cats, n.Category)
		}
	}
	return cats
}
