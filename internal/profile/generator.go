// Package profile lays out and renders profile cards.
package profile

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/youruser/profilecard/internal/assets"
	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/source"
	"github.com/youruser/profilecard/internal/store"
	"github.com/youruser/profilecard/pkg/logger"
	"github.com/youruser/profilecard/pkg/metrics"
)

// Generator renders cards. It is safe for concurrent use; every render owns
// its surfaces and shares only the asset cache.
type Generator struct {
	assets     Assets
	fetcher    Fetcher
	writer     Writer
	newSurface SurfaceFactory
	randomUID  func() string
	now        func() time.Time
	logger     logger.Logger
}

// New returns a generator drawing with a and reading records from f. The
// display font is registered before New returns.
func New(a Assets, f Fetcher, opts ...Option) *Generator {
	g := &Generator{
		assets:    a,
		fetcher:   f,
		writer:    store.NewFileWriter(""),
		randomUID: randomUID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.newSurface == nil {
		g.newSurface = RasterSurfaces(a.Fonts())
	}
	if g.logger == nil {
		g.logger = logger.Get().Named("profile")
	}
	a.RegisterDisplayFont(context.Background())
	return g
}

// randomUID returns a uniformly random number in [100000000, 999999999].
func randomUID() string {
	return strconv.Itoa(100000000 + rand.Intn(900000000))
}

// Generate fetches the record for uid and renders its card. Only invalid
// options and fetch failures are returned as errors; a region whose assets
// fail is skipped and the render continues.
func (g *Generator) Generate(ctx context.Context, uid string, opts Options) (*Result, error) {
	start := g.now()
	res, status, err := g.generate(ctx, uid, opts)
	metrics.RecordRender(status, float64(g.now().Sub(start).Milliseconds()))
	if err != nil {
		g.logger.Error(ctx, "render failed",
			logger.String("uid", uid), logger.String("status", status), logger.Error(err))
		return nil, err
	}
	g.logger.Info(ctx, "render complete",
		logger.String("uid", uid),
		logger.String("format", string(res.Format)),
		logger.Int("bytes", len(res.Buffer)))
	return res, nil
}

func (g *Generator) generate(ctx context.Context, uid string, opts Options) (*Result, string, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, metrics.StatusConfigError, err
	}

	rec, err := g.fetcher.FetchRecord(ctx, uid)
	if err == nil && rec == nil {
		err = source.ErrMalformed
	}
	if err != nil {
		return nil, metrics.StatusFetchError, &FetchError{UID: uid, Err: err}
	}

	s := g.newSurface(CanvasWidth, CanvasHeight)
	defer s.Close()

	r := &render{
		g:      g,
		ctx:    ctx,
		s:      s,
		rec:    rec,
		paths:  g.assets.Paths(),
		family: g.displayFamily(),
	}
	r.background()
	r.leftPanel(uid, opts.HideUID)
	r.rightPanel(opts.LinkQR)

	res, err := g.finalize(ctx, s, uid, rec, opts)
	if err != nil {
		return nil, metrics.StatusEncodeError, err
	}
	return res, metrics.StatusOK, nil
}

func (g *Generator) finalize(ctx context.Context, s Surface, uid string, rec *source.Record, opts Options) (*Result, error) {
	res := &Result{
		Format:      opts.Format,
		ContentType: opts.Format.ContentType(),
		Metadata: Metadata{
			UID:         uid,
			PlayerName:  rec.PlayerInfo.Nickname,
			GeneratedAt: g.now(),
			Dimensions:  Dimensions{Width: CanvasWidth, Height: CanvasHeight},
		},
	}

	switch opts.Output {
	case OutputBase64:
		b64, err := s.EncodeBase64(opts.Format, opts.Quality)
		if err != nil {
			return nil, err
		}
		res.Base64 = b64
	case OutputPath:
		data, err := s.Encode(opts.Format, opts.Quality)
		if err != nil {
			return nil, err
		}
		if err := g.writer.WriteBytes(ctx, opts.OutputPath, data); err != nil {
			return nil, err
		}
		res.Path = opts.OutputPath
	default:
		data, err := s.Encode(opts.Format, opts.Quality)
		if err != nil {
			return nil, err
		}
		res.Buffer = data
	}
	return res, nil
}

// render carries the state of one Generate call through its regions.
type render struct {
	g      *Generator
	ctx    context.Context
	s      Surface
	rec    *source.Record
	paths  assets.AssetPaths
	family string
}

// region runs fn and turns its error into a logged, counted skip.
func (r *render) region(name string, fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	metrics.RecordRegionSkip(name)
	fields := []logger.Field{logger.String("region", name), logger.Error(err)}
	var le *assets.AssetLoadError
	if errors.As(err, &le) {
		fields = append(fields, logger.String("path", le.Path))
	}
	var re *assets.RemoteAssetError
	if errors.As(err, &re) {
		fields = append(fields, logger.String("url", re.URL))
	}
	r.g.logger.Warn(r.ctx, "region skipped", fields...)
}

// displayFamily is the bundled font's family, or "" for the surface default
// when the font failed to register.
func (g *Generator) displayFamily() string {
	if !g.assets.FontRegistered() {
		return ""
	}
	return g.assets.FontFamily()
}

func (r *render) text(text string, x, y int, style imagepkg.TextStyle) {
	style.Family = r.family
	r.s.DrawText(text, x, y, style)
}
