package profile

import (
	"context"
	"image"

	"github.com/youruser/profilecard/internal/assets"
	"github.com/youruser/profilecard/internal/fonts"
	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/source"
)

// Surface is the set of drawing operations a card is built from.
// *imagepkg.Surface implements it.
type Surface interface {
	Blit(img image.Image, x, y, width, height int)
	DrawText(text string, x, y int, style imagepkg.TextStyle)
	MeasureText(text string, sizePx float64, family string) float64
	CompositeMaskThenBackground(picture, mask, background image.Image, box image.Rectangle)
	FillRoundedRect(r image.Rectangle, radius float64, fill image.Image, stroke *imagepkg.Stroke)
	SetShadow(sh imagepkg.Shadow)
	ResetShadow()
	Encode(format imagepkg.Format, quality int) ([]byte, error)
	EncodeBase64(format imagepkg.Format, quality int) (string, error)
	Image() image.Image
	Close() error
}

var _ Surface = (*imagepkg.Surface)(nil)

// SurfaceFactory creates a transparent surface of the given size.
type SurfaceFactory func(width, height int) Surface

// RasterSurfaces returns a factory for raster surfaces resolving fonts in reg.
func RasterSurfaces(reg *fonts.Registry) SurfaceFactory {
	return func(width, height int) Surface {
		return imagepkg.NewSurface(width, height, reg)
	}
}

// Assets supplies decoded images and the display font.
// *assets.Cache implements it.
type Assets interface {
	LoadLocal(ctx context.Context, path string) (image.Image, error)
	LoadRemote(ctx context.Context, url, fallbackPath string) (image.Image, error)
	ResolveIconFor(ctx context.Context, category string) (image.Image, error)
	RegisterDisplayFont(ctx context.Context)
	FontFamily() string
	FontRegistered() bool
	Fonts() *fonts.Registry
	Paths() assets.AssetPaths
}

var _ Assets = (*assets.Cache)(nil)

// Fetcher loads the record for a uid.
type Fetcher interface {
	FetchRecord(ctx context.Context, uid string) (*source.Record, error)
}

// Writer persists encoded output.
type Writer interface {
	WriteBytes(ctx context.Context, path string, data []byte) error
}
