package imagepkg

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// CompositeMaskThenBackground builds the masked avatar in three ordered
// passes:
//
//  1. picture is drawn stretched into box (source-over);
//  2. destination-in with mask stretched over the whole surface keeps the
//     current pixels only where the mask is opaque, scaled by its alpha;
//  3. destination-over with background stretched over the whole surface
//     fills what is still transparent, underneath the masked picture.
//
// Afterwards the surface is back in source-over mode; shadows are not applied
// to any of the passes.
func (s *Surface) CompositeMaskThenBackground(picture, mask, background image.Image, box image.Rectangle) {
	b := s.dst.Bounds()
	if picture != nil && !box.Empty() {
		src := scaled(picture, box.Dx(), box.Dy())
		draw.Draw(s.dst, box, src, src.Bounds().Min, draw.Over)
	}
	if mask != nil {
		destinationIn(s.dst, nrgbaSized(mask, b.Dx(), b.Dy()))
	}
	if background != nil {
		destinationOver(s.dst, nrgbaSized(background, b.Dx(), b.Dy()))
	}
}

// nrgbaSized returns img as a zero-origin NRGBA of exactly width x height.
func nrgbaSized(img image.Image, width, height int) *image.NRGBA {
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// destinationIn applies D' = D * Sa. dst holds premultiplied pixels, so every
// channel scales by the mask alpha. mask must share dst's size, origin (0,0).
func destinationIn(dst *image.RGBA, mask *image.NRGBA) {
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		di := dst.PixOffset(b.Min.X, b.Min.Y+y)
		mi := mask.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			sa := uint32(mask.Pix[mi+3])
			switch sa {
			case 0xff:
			case 0:
				dst.Pix[di+0] = 0
				dst.Pix[di+1] = 0
				dst.Pix[di+2] = 0
				dst.Pix[di+3] = 0
			default:
				for c := 0; c < 4; c++ {
					dst.Pix[di+c] = uint8(mul8(uint32(dst.Pix[di+c]), sa))
				}
			}
			di += 4
			mi += 4
		}
	}
}

// destinationOver applies D' = D + S * (1 - Da), painting src only where dst
// is not already opaque. src is straight alpha and must share dst's size,
// origin (0,0).
func destinationOver(dst *image.RGBA, src *image.NRGBA) {
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		di := dst.PixOffset(b.Min.X, b.Min.Y+y)
		si := src.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			da := uint32(dst.Pix[di+3])
			sa := uint32(src.Pix[si+3])
			if da != 0xff && sa != 0 {
				inv := 0xff - da
				for c := 0; c < 3; c++ {
					// premultiply the source channel, then weight it
					sp := mul8(uint32(src.Pix[si+c]), sa)
					dst.Pix[di+c] = uint8(uint32(dst.Pix[di+c]) + mul8(sp, inv))
				}
				dst.Pix[di+3] = uint8(da + mul8(sa, inv))
			}
			di += 4
			si += 4
		}
	}
}

// mul8 returns round(a*b/255) for a, b in [0, 255].
func mul8(a, b uint32) uint32 {
	t := a*b + 0x80
	return (t + t>>8) >> 8
}
