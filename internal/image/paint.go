package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/vector"
)

// ErrBadColor is returned by ParseHexColor for malformed input.
var ErrBadColor = errors.New("bad hex color")

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is ParseHexColor for package-level constants; it panics on error.
func MustHex(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LinearGradient is an unbounded image whose colour varies along the segment
// (X0,Y0)-(X1,Y1). Stops are spaced evenly; points beyond either end take the
// end colour. It can be used as the fill of FillRoundedRect.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	stops          []color.NRGBA
}

// NewLinearGradient returns a gradient through colors in order.
func NewLinearGradient(x0, y0, x1, y1 float64, colors ...color.Color) *LinearGradient {
	g := &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
	for _, c := range colors {
		g.stops = append(g.stops, color.NRGBAModel.Convert(c).(color.NRGBA))
	}
	return g
}

func (g *LinearGradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *LinearGradient) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (g *LinearGradient) At(x, y int) color.Color {
	switch len(g.stops) {
	case 0:
		return color.NRGBA{}
	case 1:
		return g.stops[0]
	}
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	var t float64
	if l2 := dx*dx + dy*dy; l2 > 0 {
		px, py := float64(x)+0.5-g.X0, float64(y)+0.5-g.Y0
		t = (px*dx + py*dy) / l2
	}
	t = math.Max(0, math.Min(1, t))

	seg := t * float64(len(g.stops)-1)
	i := int(seg)
	if i >= len(g.stops)-1 {
		return g.stops[len(g.stops)-1]
	}
	f := seg - float64(i)
	a, b := g.stops[i], g.stops[i+1]
	lerp := func(p, q uint8) uint8 { return uint8(math.Round(float64(p) + (float64(q)-float64(p))*f)) }
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// Stroke outlines a rounded rectangle.
type Stroke struct {
	Color color.Color
	Width float64
}

// FillRoundedRect fills r with corners of the given radius using fill (a
// uniform colour or any image, e.g. a LinearGradient, in surface
// coordinates). A non-nil stroke is drawn centred on the outline afterwards.
func (s *Surface) FillRoundedRect(r image.Rectangle, radius float64, fill image.Image, stroke *Stroke) {
	if r.Empty() {
		return
	}
	radius = math.Max(0, math.Min(radius, float64(min(r.Dx(), r.Dy()))/2))
	outline := rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)}

	if fill != nil {
		z := newShapeRasterizer(r)
		z.roundedRect(outline, radius, false)
		s.paint(z.mask(), fill)
	}
	if stroke != nil && stroke.Width > 0 && stroke.Color != nil {
		half := stroke.Width / 2
		z := newShapeRasterizer(r.Inset(-int(math.Ceil(half)) - 1))
		z.roundedRect(outline.inset(-half), radius+half, false)
		if inner := outline.inset(half); inner.x1 > inner.x0 && inner.y1 > inner.y0 {
			// Opposite winding cuts the inner outline out of the outer one.
			z.roundedRect(inner, math.Max(0, radius-half), true)
		}
		s.paint(z.mask(), image.NewUniform(stroke.Color))
	}
}

type rect struct{ x0, y0, x1, y1 float64 }

func (r rect) inset(d float64) rect { return rect{r.x0 + d, r.y0 + d, r.x1 - d, r.y1 - d} }

// shapeRasterizer accumulates paths in surface coordinates into a coverage
// mask covering bounds.
type shapeRasterizer struct {
	bounds image.Rectangle
	z      *vector.Rasterizer
}

func newShapeRasterizer(bounds image.Rectangle) *shapeRasterizer {
	return &shapeRasterizer{bounds: bounds, z: vector.NewRasterizer(bounds.Dx(), bounds.Dy())}
}

// pt converts a surface point to rasterizer space.
func (sr *shapeRasterizer) pt(x, y float64) (float32, float32) {
	return float32(x - float64(sr.bounds.Min.X)), float32(y - float64(sr.bounds.Min.Y))
}

// kappa places cubic control points so that a quarter curve approximates a
// circular arc.
const kappa = 0.5522847498

// roundedRect adds a closed rounded rectangle, clockwise on screen unless
// reverse is set.
func (sr *shapeRasterizer) roundedRect(r rect, radius float64, reverse bool) {
	k := radius * (1 - kappa)
	type seg struct{ c1x, c1y, c2x, c2y, x, y float64 }
	startX, startY := r.x0+radius, r.y0
	segs := []seg{
		{0, 0, 0, 0, r.x1 - radius, r.y0},
		{r.x1 - k, r.y0, r.x1, r.y0 + k, r.x1, r.y0 + radius},
		{0, 0, 0, 0, r.x1, r.y1 - radius},
		{r.x1, r.y1 - k, r.x1 - k, r.y1, r.x1 - radius, r.y1},
		{0, 0, 0, 0, r.x0 + radius, r.y1},
		{r.x0 + k, r.y1, r.x0, r.y1 - k, r.x0, r.y1 - radius},
		{0, 0, 0, 0, r.x0, r.y0 + radius},
		{r.x0, r.y0 + k, r.x0 + k, r.y0, startX, startY},
	}
	curve := func(i int) bool { return i%2 == 1 && radius > 0 }

	sr.z.MoveTo(sr.pt(startX, startY))
	if !reverse {
		for i, sg := range segs {
			sr.segment(curve(i), sg.c1x, sg.c1y, sg.c2x, sg.c2y, sg.x, sg.y)
		}
	} else {
		for i := len(segs) - 1; i >= 0; i-- {
			sg := segs[i]
			toX, toY := startX, startY
			if i > 0 {
				toX, toY = segs[i-1].x, segs[i-1].y
			}
			sr.segment(curve(i), sg.c2x, sg.c2y, sg.c1x, sg.c1y, toX, toY)
		}
	}
	sr.z.ClosePath()
}

func (sr *shapeRasterizer) segment(curve bool, c1x, c1y, c2x, c2y, x, y float64) {
	if !curve {
		sr.z.LineTo(sr.pt(x, y))
		return
	}
	ax, ay := sr.pt(c1x, c1y)
	bx, by := sr.pt(c2x, c2y)
	cx, cy := sr.pt(x, y)
	sr.z.CubeTo(ax, ay, bx, by, cx, cy)
}

// mask rasterizes the accumulated paths.
func (sr *shapeRasterizer) mask() *image.Alpha {
	m := image.NewAlpha(sr.bounds)
	sr.z.Draw(m, sr.bounds, image.Opaque, image.Point{})
	return m
}
