package imagepkg

import (
	"image"
	"image/color"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Align selects the horizontal anchor of drawn text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle controls DrawText.
type TextStyle struct {
	Family string
	SizePx float64
	Color  color.Color
	Align  Align
	// MaxWidth > 0 wraps the text so that no line is wider than MaxWidth.
	MaxWidth float64
}

const defaultTextSize = 20

func (s *Surface) face(family string, sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		sizePx = defaultTextSize
	}
	k := faceKey{family: family, size: sizePx}
	if f, ok := s.faces[k]; ok {
		return f, nil
	}
	f, err := s.fonts.NewFace(family, sizePx)
	if err != nil {
		return nil, err
	}
	s.faces[k] = f
	return f, nil
}

// MeasureText returns the advance width of text in pixels.
func (s *Surface) MeasureText(text string, sizePx float64, family string) float64 {
	f, err := s.face(family, sizePx)
	if err != nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(f, text))
}

// DrawText draws text anchored at (x, y). y is the vertical middle of the
// first line's em box; x is the left edge, centre or right edge per
// style.Align. Wrapped lines continue downwards at the face's line height.
func (s *Surface) DrawText(text string, x, y int, style TextStyle) {
	if text == "" {
		return
	}
	f, err := s.face(style.Family, style.SizePx)
	if err != nil {
		return
	}
	c := style.Color
	if c == nil {
		c = color.White
	}

	lines := []string{text}
	if style.MaxWidth > 0 {
		lines = wrapLines(f, text, floatToFixed(style.MaxWidth))
	}

	m := f.Metrics()
	baseline := fixed.I(y) + (m.Ascent-m.Descent)/2
	dots := make([]fixed.Point26_6, len(lines))
	var bounds image.Rectangle
	for i, line := range lines {
		adv := font.MeasureString(f, line)
		dot := fixed.Point26_6{X: fixed.I(x), Y: baseline + fixed.Int26_6(i)*m.Height}
		switch style.Align {
		case AlignCenter:
			dot.X -= adv / 2
		case AlignRight:
			dot.X -= adv
		}
		dots[i] = dot

		lb, _ := font.BoundString(f, line)
		r := image.Rect(
			(dot.X + lb.Min.X).Floor(), (dot.Y + lb.Min.Y).Floor(),
			(dot.X + lb.Max.X).Ceil(), (dot.Y + lb.Max.Y).Ceil(),
		)
		bounds = bounds.Union(r)
	}
	bounds = bounds.Intersect(s.dst.Bounds())
	if bounds.Empty() {
		return
	}

	mask := image.NewAlpha(bounds)
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: f}
	for i, line := range lines {
		d.Dot = dots[i]
		d.DrawString(line)
	}
	s.paint(mask, image.NewUniform(c))
}

// wrapLines breaks text into lines no wider than maxWidth, preferring
// whitespace breaks and splitting single words that do not fit on their own.
// Explicit newlines always break.
func wrapLines(f font.Face, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.FieldsFunc(para, unicode.IsSpace)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur string
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if font.MeasureString(f, candidate) <= maxWidth {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			if font.MeasureString(f, w) <= maxWidth {
				cur = w
				continue
			}
			pieces := splitWord(f, w, maxWidth)
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
		}
		lines = append(lines, cur)
	}
	return lines
}

// splitWord cuts w into rune runs that each fit maxWidth. A single rune wider
// than maxWidth is kept on its own line.
func splitWord(f font.Face, w string, maxWidth fixed.Int26_6) []string {
	var out []string
	var cur []rune
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && font.MeasureString(f, string(next)) > maxWidth {
			out = append(out, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(out, string(cur))
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
