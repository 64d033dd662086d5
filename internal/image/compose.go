package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"

	"github.com/youruser/profilecard/internal/fonts"
)

// Shadow describes a drop shadow applied to subsequent draws.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX int
	OffsetY int
}

// DefaultShadow matches a canvas shadow of #000 with blur 5 offset (2,2).
func DefaultShadow() Shadow {
	return Shadow{Color: color.Black, Blur: 5, OffsetX: 2, OffsetY: 2}
}

type faceKey struct {
	family string
	size   float64
}

// Surface is a raster drawing target with origin top-left and y growing down.
// A Surface is not safe for concurrent use.
type Surface struct {
	dst    *image.RGBA
	fonts  *fonts.Registry
	faces  map[faceKey]font.Face
	shadow *Shadow
}

// NewSurface returns a transparent width x height surface. reg resolves font
// families for text; nil means every family uses the host default face.
func NewSurface(width, height int, reg *fonts.Registry) *Surface {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &Surface{
		dst:   image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts: reg,
		faces: make(map[faceKey]font.Face),
	}
}

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.dst.Bounds() }

// Image exposes the current pixels, e.g. for blitting one surface onto another.
func (s *Surface) Image() image.Image { return s.dst }

// Close releases the font faces created for this surface.
func (s *Surface) Close() error {
	for k, f := range s.faces {
		_ = f.Close()
		delete(s.faces, k)
	}
	return nil
}

// SetShadow enables a drop shadow for every following blit, text and fill.
func (s *Surface) SetShadow(sh Shadow) {
	if sh.Color == nil {
		sh.Color = color.Black
	}
	s.shadow = &sh
}

// ResetShadow turns the drop shadow off.
func (s *Surface) ResetShadow() { s.shadow = nil }

// Blit draws img with its top-left corner at (x, y). When both width and
// height are positive the image is stretched to that box without keeping the
// aspect ratio; otherwise it is drawn at its native size.
func (s *Surface) Blit(img image.Image, x, y, width, height int) {
	if img == nil {
		return
	}
	src := scaled(img, width, height)
	r := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y).Add(src.Bounds().Size())}
	if s.shadow != nil {
		mask := image.NewAlpha(r)
		draw.Draw(mask, r, src, src.Bounds().Min, draw.Src)
		s.drawShadow(mask)
	}
	draw.Draw(s.dst, r, src, src.Bounds().Min, draw.Over)
}

// scaled returns img resized to width x height, or img itself when no
// resize is requested or needed.
func scaled(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// paint composites src through mask over the surface, shadow first.
func (s *Surface) paint(mask *image.Alpha, src image.Image) {
	r := mask.Bounds()
	if r.Empty() {
		return
	}
	if s.shadow != nil {
		s.drawShadow(mask)
	}
	draw.DrawMask(s.dst, r, src, r.Min, mask, r.Min, draw.Over)
}

// drawShadow paints the shadow colour through a blurred, offset copy of mask.
func (s *Surface) drawShadow(mask *image.Alpha) {
	sh := s.shadow
	// Canvas shadowBlur is twice the gaussian sigma; three sigmas cover the tail.
	sigma := sh.Blur / 2
	pad := int(math.Ceil(3 * sigma))
	b := mask.Bounds().Inset(-pad)

	c := color.NRGBAModel.Convert(sh.Color).(color.NRGBA)
	layer := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A
			if a == 0 {
				continue
			}
			i := layer.PixOffset(x, y)
			layer.Pix[i+0] = c.R
			layer.Pix[i+1] = c.G
			layer.Pix[i+2] = c.B
			layer.Pix[i+3] = uint8(uint32(a) * uint32(c.A) / 0xff)
		}
	}

	var src image.Image = layer
	if sigma > 0 {
		src = imaging.Blur(layer, sigma)
	}
	at := b.Min.Add(image.Pt(sh.OffsetX, sh.OffsetY))
	draw.Draw(s.dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, image.Point{}, draw.Over)
}
