package diagram

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// StyleMap resolves a category to its fill colour.
type StyleMap struct {
	colors map[Category]color.RGBA
}

// NewStyleMap parses a table of hex colours (#RRGGBB or #RGB). Categories
// are checked in sorted order, so the first bad one is always reported.
func NewStyleMap(colors map[Category]string) (StyleMap, error) {
	cats := make([]Category, 0, len(colors))
	for cat := range colors {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	sm := StyleMap{colors: make(map[Category]color.RGBA, len(colors))}
	for _, cat := range cats {
		hex := colors[cat]
		c, err := ParseColor(hex)
		if err != nil {
			return StyleMap{}, fmt.Errorf("category %q: %w", cat, err)
		}
		sm.colors[cat] = c
	}
	return sm, nil
}

// ColorOf returns the fill colour for a category.
func (sm StyleMap) ColorOf(c Category) (color.RGBA, error) {
	col, ok := sm.colors[c]
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return col, nil
}

// ParseColor parses a hex colour into an opaque RGBA value.
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}
