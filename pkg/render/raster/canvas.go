// Native PNG rendering for architecture diagrams.
// Shapes are filled with golang.org/x/image/vector; text uses the embedded Go fonts.

package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/render"
)

// Colors used in rendering
var (
	colorInk     = color.RGBA{0, 0, 0, 255}
	colorLabelBg = color.NRGBA{255, 255, 255, 204} // 80% opaque white
	colorFrame   = color.RGBA{204, 204, 204, 255}   // #ccc
	colorLegend  = color.NRGBA{255, 255, 255, 204}
)

// Canvas is a raster drawing surface for a single render.
// It implements render.Surface and render.Exporter.
type Canvas struct {
	opts  Options
	img   *image.RGBA
	ss    int     // supersampling factor
	ppt   float64 // pixels per point
	sx    float64 // pixels per world unit, X
	sy    float64 // pixels per world unit, Y
	ras   *vector.Rasterizer
	fonts *fontSet
	ink   image.Rectangle // bounds of everything drawn
}

var (
	_ render.Surface  = (*Canvas)(nil)
	_ render.Exporter = (*Canvas)(nil)
)

// NewCanvas creates a blank canvas filled with the background colour.
func NewCanvas(opts Options) (*Canvas, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}

	w, h := opts.PixelSize()
	img := image.NewRGBA(image.Rect(0, 0, w*ss, h*ss))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	fonts, err := newFontSet(opts.DPI * float64(ss))
	if err != nil {
		return nil, err
	}

	return &Canvas{
		opts:  opts,
		img:   img,
		ss:    ss,
		ppt:   opts.DPI * float64(ss) / 72,
		sx:    float64(w*ss) / opts.World.Width(),
		sy:    float64(h*ss) / opts.World.Height(),
		ras:   vector.NewRasterizer(1, 1),
		fonts: fonts,
	}, nil
}

// Close releases the font faces held by the canvas.
func (c *Canvas) Close() error {
	return c.fonts.Close()
}

// toPx maps a world point to pixel coordinates (Y down).
func (c *Canvas) toPx(p diagram.Point) (float64, float64) {
	return (p.X - c.opts.World.Left) * c.sx, (c.opts.World.Top - p.Y) * c.sy
}

// pt converts points to pixels.
func (c *Canvas) pt(v float64) float64 {
	return v * c.ppt
}

// DrawBox draws a rounded, bordered box with a centred label.
func (c *Canvas) DrawBox(r diagram.Rect, fill color.Color, label string) {
	x0, y0 := c.toPx(diagram.Point{X: r.Left, Y: r.Top})
	x1, y1 := c.toPx(diagram.Point{X: r.Right, Y: r.Bottom})
	radius := c.opts.CornerRadius * math.Min(c.sx, c.sy)
	half := c.pt(c.opts.LineWidthPt) / 2

	// The border straddles the geometric edge so anchors sit on its centre line.
	c.fillRoundRect(x0-half, y0-half, x1+half, y1+half, radius+half, colorInk)
	c.fillRoundRect(x0+half, y0+half, x1-half, y1-half, math.Max(radius-half, 0), fill)

	face := c.fonts.face(c.opts.NodeFontPt, true)
	c.drawText((x0+x1)/2, (y0+y1)/2, label, face, colorInk, true)
}

// DrawArrow draws a straight arrow, pulled back from both anchors.
func (c *Canvas) DrawArrow(from, to diagram.Point) {
	ax, ay := c.toPx(from)
	bx, by := c.toPx(to)
	shrink := c.pt(c.opts.ShrinkPt)
	s, e := diagram.Shrink(diagram.Point{X: ax, Y: ay}, diagram.Point{X: bx, Y: by}, shrink, shrink)

	dx := e.X - s.X
	dy := e.Y - s.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		return
	}
	nx := dx / dist
	ny := dy / dist

	lw := c.pt(c.opts.LineWidthPt)
	head := math.Min(c.pt(c.opts.ArrowHeadPt), dist)
	wing := head * 0.4

	// Shaft stops inside the head so no gap shows at the base
	baseX := e.X - nx*head
	baseY := e.Y - ny*head
	c.strokeLine(s.X, s.Y, baseX+nx*lw, baseY+ny*lw, lw, colorInk)

	c.fillPolygon(colorInk,
		e.X, e.Y,
		baseX+ny*wing, baseY-nx*wing,
		baseX-ny*wing, baseY+nx*wing,
	)
}

// DrawText draws centred text, optionally on a translucent white patch.
func (c *Canvas) DrawText(at diagram.Point, text string, style render.TextStyle) {
	x, y := c.toPx(at)
	face := c.fonts.face(style.Size, style.Bold)
	if style.Background {
		w, h := measureBlock(face, text)
		pad := c.pt(style.Size * 0.3)
		c.fillRoundRect(x-w/2-pad, y-h/2-pad, x+w/2+pad, y+h/2+pad, pad, colorLabelBg)
	}
	c.drawText(x, y, text, face, colorInk, true)
}

// DrawLegend draws a framed legend below the upper-left corner of the world.
func (c *Canvas) DrawLegend(items []diagram.LegendItem) {
	if len(items) == 0 {
		return
	}
	fs := c.pt(c.opts.LegendFontPt)
	face := c.fonts.face(c.opts.LegendFontPt, false)

	world := c.opts.World
	ax, ay := c.toPx(diagram.Point{X: world.Left, Y: world.Bottom + 0.95*world.Height()})
	x0 := ax + 0.5*fs
	y0 := ay + 0.5*fs

	pad := 0.4 * fs
	swatchW, swatchH := 2*fs, 0.7*fs
	gap := 0.8 * fs
	spacing := 0.5 * fs
	lineH := float64(face.Metrics().Height.Ceil())
	rowH := math.Max(lineH, swatchH)

	var textW float64
	for _, it := range items {
		w, _ := measureBlock(face, it.Name)
		textW = math.Max(textW, w)
	}
	n := float64(len(items))
	x1 := x0 + 2*pad + swatchW + gap + textW
	y1 := y0 + 2*pad + n*rowH + (n-1)*spacing

	border := c.pt(1)
	radius := 0.2 * fs
	c.fillRoundRect(x0, y0, x1, y1, radius, colorFrame)
	c.fillRoundRect(x0+border, y0+border, x1-border, y1-border, math.Max(radius-border, 0), colorLegend)

	for i, it := range items {
		cy := y0 + pad + float64(i)*(rowH+spacing) + rowH/2
		sx := x0 + pad
		c.fillRoundRect(sx, cy-swatchH/2, sx+swatchW, cy+swatchH/2, 0, it.Fill)
		c.drawText(sx+swatchW+gap, cy, it.Name, face, colorInk, false)
	}
}

// Image returns the finished image, downsampled and trimmed as configured.
func (c *Canvas) Image() image.Image {
	img := c.img
	ink := c.ink
	if c.ss > 1 {
		w, h := c.opts.PixelSize()
		small := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(small, small.Bounds(), c.img, c.img.Bounds(), draw.Over, nil)
		img = small
		ink = image.Rect(ink.Min.X/c.ss, ink.Min.Y/c.ss,
			(ink.Max.X+c.ss-1)/c.ss, (ink.Max.Y+c.ss-1)/c.ss)
	}
	if !c.opts.Trim || ink.Empty() {
		return img
	}
	pad := int(math.Round(c.opts.TrimPad * c.opts.DPI))
	return img.SubImage(ink.Inset(-pad).Intersect(img.Bounds()))
}

// Encode writes the finished image as PNG.
func (c *Canvas) Encode(w io.Writer) error {
	return png.Encode(w, c.Image())
}

// pen builds rasterizer paths in canvas pixel coordinates.
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
	w, h   float64
}

func (p pen) at(x, y float64) (float32, float32) {
	x = math.Max(0, math.Min(p.w, x-p.ox))
	y = math.Max(0, math.Min(p.h, y-p.oy))
	return float32(x), float32(y)
}

func (p pen) moveTo(x, y float64) { p.z.MoveTo(p.at(x, y)) }
func (p pen) lineTo(x, y float64) { p.z.LineTo(p.at(x, y)) }

func (p pen) quadTo(bx, by, cx, cy float64) {
	x1, y1 := p.at(bx, by)
	x2, y2 := p.at(cx, cy)
	p.z.QuadTo(x1, y1, x2, y2)
}

// fill rasterizes the path built by fn, clipped to the canvas, in colour col.
func (c *Canvas) fill(minX, minY, maxX, maxY float64, col color.Color, fn func(p pen)) {
	r := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	c.ras.Reset(r.Dx(), r.Dy())
	fn(pen{z: c.ras, ox: float64(r.Min.X), oy: float64(r.Min.Y), w: float64(r.Dx()), h: float64(r.Dy())})
	c.ras.Draw(c.img, r, image.NewUniform(col), image.Point{})
	c.ink = c.ink.Union(r)
}

func (c *Canvas) fillRoundRect(x0, y0, x1, y1, radius float64, col color.Color) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min((x1-x0)/2, (y1-y0)/2)))
	c.fill(x0, y0, x1, y1, col, func(p pen) {
		p.moveTo(x0+radius, y0)
		p.lineTo(x1-radius, y0)
		p.quadTo(x1, y0, x1, y0+radius)
		p.lineTo(x1, y1-radius)
		p.quadTo(x1, y1, x1-radius, y1)
		p.lineTo(x0+radius, y1)
		p.quadTo(x0, y1, x0, y1-radius)
		p.lineTo(x0, y0+radius)
		p.quadTo(x0, y0, x0+radius, y0)
		p.z.ClosePath()
	})
}

// fillPolygon fills the polygon given as x,y pairs.
func (c *Canvas) fillPolygon(col color.Color, xy ...float64) {
	if len(xy) < 6 {
		return
	}
	minX, minY := xy[0], xy[1]
	maxX, maxY := minX, minY
	for i := 2; i < len(xy); i += 2 {
		minX, maxX = math.Min(minX, xy[i]), math.Max(maxX, xy[i])
		minY, maxY = math.Min(minY, xy[i+1]), math.Max(maxY, xy[i+1])
	}
	c.fill(minX, minY, maxX, maxY, col, func(p pen) {
		p.moveTo(xy[0], xy[1])
		for i := 2; i < len(xy); i += 2 {
			p.lineTo(xy[i], xy[i+1])
		}
		p.z.ClosePath()
	})
}

// strokeLine draws a line of the given width as a filled quad.
func (c *Canvas) strokeLine(x1, y1, x2, y2, width float64, col color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return
	}
	px := -dy / dist * width / 2
	py := dx / dist * width / 2
	c.fillPolygon(col,
		x1+px, y1+py,
		x2+px, y2+py,
		x2-px, y2-py,
		x1-px, y1-py,
	)
}

// drawText draws possibly multi-line text vertically centred on y, either
// centred on x or starting at x.
func (c *Canvas) drawText(x, y float64, text string, face font.Face, col color.Color, centred bool) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	m := face.Metrics()
	lineH := m.Height.Ceil()
	ascent := m.Ascent.Ceil()
	top := int(math.Round(y)) - lineH*len(lines)/2

	src := image.NewUniform(col)
	for i, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		lx := int(math.Round(x))
		if centred {
			lx -= w / 2
		}
		d := &font.Drawer{
			Dst:  c.img,
			Src:  src,
			Face: face,
			Dot:  fixed.P(lx, top+i*lineH+ascent),
		}
		d.DrawString(line)
		c.ink = c.ink.Union(image.Rect(lx, top+i*lineH, lx+w, top+(i+1)*lineH).Intersect(c.img.Bounds()))
	}
}

// measureBlock returns the pixel width and height of multi-line text.
func measureBlock(face font.Face, text string) (float64, float64) {
	lines := strings.Split(text, "\n")
	var w int
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > w {
			w = lw
		}
	}
	return float64(w), float64(face.Metrics().Height.Ceil() * len(lines))
}
