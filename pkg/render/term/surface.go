// Package term previews a diagram plan in the terminal using tcell.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/render"
)

var (
	styleDefault = tcell.StyleDefault
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorBlack)
	styleArrow   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTitle   = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleLegend  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Surface draws onto a tcell screen, mapping a world rectangle onto the
// whole screen. Cells are coarse, so boxes are grown to at least 3x3.
type Surface struct {
	screen tcell.Screen
	world  diagram.Rect
	w, h   int
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a surface for the screen's current size.
func NewSurface(screen tcell.Screen, world diagram.Rect) *Surface {
	w, h := screen.Size()
	return &Surface{screen: screen, world: world, w: w, h: h}
}

// cell maps a world point to a screen cell (row 0 at the top).
func (s *Surface) cell(p diagram.Point) (int, int) {
	fx := (p.X - s.world.Left) / s.world.Width()
	fy := (s.world.Top - p.Y) / s.world.Height()
	return int(math.Round(fx * float64(s.w-1))), int(math.Round(fy * float64(s.h-1)))
}

// DrawBox draws a bordered box filled with the category colour.
func (s *Surface) DrawBox(r diagram.Rect, fill color.Color, label string) {
	x0, y0 := s.cell(diagram.Point{X: r.Left, Y: r.Top})
	x1, y1 := s.cell(diagram.Point{X: r.Right, Y: r.Bottom})
	if x1-x0 < 2 {
		x1 = x0 + 2
	}
	if y1-y0 < 2 {
		y1 = y0 + 2
	}

	bg := tcellColor(fill)
	border := styleBorder.Background(bg)
	body := styleDefault.Background(bg).Foreground(tcell.ColorBlack).Bold(true)

	s.set(x0, y0, '┌', border)
	s.set(x1, y0, '┐', border)
	s.set(x0, y1, '└', border)
	s.set(x1, y1, '┘', border)
	for x := x0 + 1; x < x1; x++ {
		s.set(x, y0, '─', border)
		s.set(x, y1, '─', border)
	}
	for y := y0 + 1; y < y1; y++ {
		s.set(x0, y, '│', border)
		s.set(x1, y, '│', border)
		for x := x0 + 1; x < x1; x++ {
			s.set(x, y, ' ', body)
		}
	}

	inner := x1 - x0 - 1
	lines := strings.Split(label, "\n")
	rows := y1 - y0 - 1
	if len(lines) > rows {
		lines = lines[:rows]
	}
	top := y0 + 1 + (rows-len(lines))/2
	for i, line := range lines {
		line = runewidth.Truncate(line, inner, "…")
		s.drawString((x0+x1+1)/2-runewidth.StringWidth(line)/2, top+i, line, body)
	}
}

// DrawArrow draws a cell line between the anchors. The anchors sit on box
// borders, so only the cells strictly between them are drawn and the head
// takes the last of those.
func (s *Surface) DrawArrow(from, to diagram.Point) {
	x0, y0 := s.cell(from)
	x1, y1 := s.cell(to)
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	if n < 2 {
		return
	}

	dir := cellDirection(dx, dy)
	line := lineRune(dir, dx, dy)
	for i := 1; i < n-1; i++ {
		x := x0 + int(math.Round(float64(dx*i)/float64(n)))
		y := y0 + int(math.Round(float64(dy*i)/float64(n)))
		s.set(x, y, line, styleArrow)
	}
	hx := x0 + int(math.Round(float64(dx*(n-1))/float64(n)))
	hy := y0 + int(math.Round(float64(dy*(n-1))/float64(n)))
	s.set(hx, hy, headRunes[dir], styleArrow)
}

// DrawText draws text centred on a world point.
func (s *Surface) DrawText(at diagram.Point, text string, style render.TextStyle) {
	st := styleLabel
	if style.Bold {
		st = styleTitle
	}
	x, y := s.cell(at)
	lines := strings.Split(text, "\n")
	top := y - (len(lines)-1)/2
	for i, line := range lines {
		s.drawString(x-runewidth.StringWidth(line)/2, top+i, line, st)
	}
}

// DrawLegend lists the legend items below the world's upper-left corner,
// each with a colour swatch.
func (s *Surface) DrawLegend(items []diagram.LegendItem) {
	x, y := s.cell(diagram.Point{X: s.world.Left, Y: s.world.Bottom + 0.95*s.world.Height()})
	for i, it := range items {
		swatch := styleDefault.Foreground(tcellColor(it.Fill))
		s.drawString(x, y+i, "██", swatch)
		s.drawString(x+3, y+i, it.Name, styleLegend)
	}
}

func (s *Surface) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.screen.SetContent(x, y, r, nil, style)
}

func (s *Surface) drawString(x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.set(x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}

func tcellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// cellDirection is the dominant direction of a cell delta. Screen rows grow
// downward.
func cellDirection(dx, dy int) diagram.Direction {
	switch {
	case abs(dx) >= abs(dy) && dx > 0:
		return diagram.DirRight
	case abs(dx) >= abs(dy):
		return diagram.DirLeft
	case dy > 0:
		return diagram.DirDown
	}
	return diagram.DirUp
}

var headRunes = map[diagram.Direction]rune{
	diagram.DirRight: '▶',
	diagram.DirLeft:  '◀',
	diagram.DirDown:  '▼',
	diagram.DirUp:    '▲',
}

// lineRune picks a straight rune when the run is mostly along dir's axis
// and a diagonal otherwise.
func lineRune(dir diagram.Direction, dx, dy int) rune {
	switch {
	case dir.Horizontal() && abs(dx) >= 2*abs(dy):
		return '─'
	case !dir.Horizontal() && abs(dy) >= 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
