package profile

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/youruser/profilecard/internal/assets"
	"github.com/youruser/profilecard/internal/fonts"
	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/source"
)

// op is one recorded drawing call.
type op struct {
	surface    int
	kind       string
	img        image.Image
	x, y, w, h int
	text       string
	style      imagepkg.TextStyle
	box        image.Rectangle
	mask, bg   image.Image
}

// recorder creates recordingSurfaces and collects their calls in order.
type recorder struct {
	mu        sync.Mutex
	ops       []op
	surfaces  []*recordingSurface
	encodeErr error
}

func (rec *recorder) factory(width, height int) Surface {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	s := &recordingSurface{
		id:  len(rec.surfaces),
		rec: rec,
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	rec.surfaces = append(rec.surfaces, s)
	return s
}

func (rec *recorder) add(o op) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.ops = append(rec.ops, o)
}

// on returns the calls of kind made on surface id.
func (rec *recorder) on(id int, kind string) []op {
	var out []op
	for _, o := range rec.ops {
		if o.surface == id && o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// texts returns the strings drawn on the card surface.
func (rec *recorder) texts() []string {
	var out []string
	for _, o := range rec.on(0, "text") {
		out = append(out, o.text)
	}
	return out
}

// blitOf returns the card surface blits of img.
func (rec *recorder) blitOf(img image.Image) []op {
	var out []op
	for _, o := range rec.on(0, "blit") {
		if o.img == img {
			out = append(out, o)
		}
	}
	return out
}

// blitAt returns the card surface blits whose origin is (x, y).
func (rec *recorder) blitAt(x, y int) []op {
	var out []op
	for _, o := range rec.on(0, "blit") {
		if o.x == x && o.y == y {
			out = append(out, o)
		}
	}
	return out
}

type recordingSurface struct {
	id  int
	rec *recorder
	img *image.RGBA
}

func (s *recordingSurface) Blit(img image.Image, x, y, width, height int) {
	s.rec.add(op{surface: s.id, kind: "blit", img: img, x: x, y: y, w: width, h: height})
}

func (s *recordingSurface) DrawText(text string, x, y int, style imagepkg.TextStyle) {
	s.rec.add(op{surface: s.id, kind: "text", text: text, x: x, y: y, style: style})
}

func (s *recordingSurface) MeasureText(text string, sizePx float64, _ string) float64 {
	return float64(len(text)) * sizePx / 2
}

func (s *recordingSurface) CompositeMaskThenBackground(picture, mask, background image.Image, box image.Rectangle) {
	s.rec.add(op{surface: s.id, kind: "composite", img: picture, mask: mask, bg: background, box: box})
}

func (s *recordingSurface) FillRoundedRect(r image.Rectangle, _ float64, fill image.Image, _ *imagepkg.Stroke) {
	s.rec.add(op{surface: s.id, kind: "fill", box: r, img: fill})
}

func (s *recordingSurface) SetShadow(imagepkg.Shadow) { s.rec.add(op{surface: s.id, kind: "shadow"}) }

func (s *recordingSurface) ResetShadow() { s.rec.add(op{surface: s.id, kind: "reset"}) }

func (s *recordingSurface) Encode(format imagepkg.Format, _ int) ([]byte, error) {
	if s.rec.encodeErr != nil {
		return nil, s.rec.encodeErr
	}
	return []byte("card." + string(format)), nil
}

func (s *recordingSurface) EncodeBase64(format imagepkg.Format, quality int) (string, error) {
	b, err := s.Encode(format, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (s *recordingSurface) Image() image.Image { return s.img }

func (s *recordingSurface) Close() error { return nil }

// fakeAssets serves distinct 1x1 images by path and url. Anything not
// registered fails the way the real cache does.
type fakeAssets struct {
	paths  assets.AssetPaths
	local  map[string]image.Image
	remote map[string]image.Image

	mu         sync.Mutex
	fontCalls  int
	fontFailed bool
	remoteHits map[string]int
}

func newFakeAssets() *fakeAssets {
	a := &fakeAssets{
		paths:      assets.DefaultPaths(),
		local:      map[string]image.Image{},
		remote:     map[string]image.Image{},
		remoteHits: map[string]int{},
	}
	for _, p := range a.paths.Images() {
		a.local[p] = pixel()
	}
	return a
}

var pixelSeq atomic.Uint32

// pixel returns a 1x1 image whose colour is unique within the test binary.
func pixel() image.Image {
	n := pixelSeq.Add(1)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: uint8(n), G: uint8(n >> 8), B: uint8(n >> 16), A: 0xff})
	return img
}

func (a *fakeAssets) addRemote(url string) image.Image {
	img := pixel()
	a.remote[url] = img
	return img
}

func (a *fakeAssets) LoadLocal(_ context.Context, path string) (image.Image, error) {
	if img, ok := a.local[path]; ok {
		return img, nil
	}
	return nil, &assets.AssetLoadError{Path: path, Err: fs.ErrNotExist}
}

func (a *fakeAssets) LoadRemote(ctx context.Context, url, fallback string) (image.Image, error) {
	a.mu.Lock()
	a.remoteHits[url]++
	a.mu.Unlock()
	if img, ok := a.remote[url]; ok {
		return img, nil
	}
	if fallback != "" {
		return a.LoadLocal(ctx, fallback)
	}
	return nil, &assets.RemoteAssetError{URL: url, Err: errors.New("status 404")}
}

func (a *fakeAssets) ResolveIconFor(ctx context.Context, category string) (image.Image, error) {
	return a.LoadLocal(ctx, a.paths.ElementIcons[assets.NormalizeElement(category)])
}

func (a *fakeAssets) RegisterDisplayFont(context.Context) {
	a.mu.Lock()
	a.fontCalls++
	a.mu.Unlock()
}

func (a *fakeAssets) FontFamily() string { return "Display" }

func (a *fakeAssets) FontRegistered() bool { return !a.fontFailed }

func (a *fakeAssets) Fonts() *fonts.Registry { return fonts.NewRegistry() }

func (a *fakeAssets) Paths() assets.AssetPaths { return a.paths.Clone() }

func (a *fakeAssets) icon(e assets.Element) image.Image { return a.local[a.paths.ElementIcons[e]] }

type fakeFetcher struct {
	rec   *source.Record
	err   error
	calls int
}

func (f *fakeFetcher) FetchRecord(context.Context, string) (*source.Record, error) {
	f.calls++
	return f.rec, f.err
}

type memWriter struct {
	path string
	data []byte
	err  error
}

func (w *memWriter) WriteBytes(_ context.Context, path string, data []byte) error {
	if w.err != nil {
		return w.err
	}
	w.path, w.data = path, data
	return nil
}
