// Package assets loads and memoizes the images and font the renderer draws
// with.
package assets

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/youruser/profilecard/internal/fonts"
	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/util"
	"github.com/youruser/profilecard/pkg/logger"
	"github.com/youruser/profilecard/pkg/metrics"
)

const (
	// DefaultFontFamily is the family the bundled font is registered under.
	DefaultFontFamily = "Genshin Impact"

	defaultRemoteRate  = 20
	defaultRemoteBurst = 8
	warmConcurrency    = 4
)

// DecodeFunc turns encoded bytes into a rasterized image.
type DecodeFunc func(r io.Reader) (image.Image, error)

// Cache loads local assets once and keeps the decoded images for reuse.
// It is safe for concurrent use by many renders.
type Cache struct {
	fsys   fs.FS
	paths  AssetPaths
	images *cache.Cache
	group  singleflight.Group
	decode DecodeFunc

	// gen counts Clear calls. A decode started before a Clear must not
	// repopulate the flushed cache.
	clearMu sync.Mutex
	gen     uint64

	client  *http.Client
	limiter *rate.Limiter

	fonts          *fonts.Registry
	fontFamily     string
	fontOnce       sync.Once
	fontRegistered atomic.Bool

	logger logger.Logger
}

// New returns a cache reading local assets from fsys.
func New(fsys fs.FS, opts ...Option) *Cache {
	c := &Cache{
		fsys:       fsys,
		paths:      DefaultPaths(),
		images:     cache.New(cache.NoExpiration, 0),
		decode:     imagepkg.Decode,
		client:     util.NewClient(0),
		limiter:    rate.NewLimiter(defaultRemoteRate, defaultRemoteBurst),
		fontFamily: DefaultFontFamily,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fonts == nil {
		c.fonts = fonts.NewRegistry()
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("assets")
	}
	return c
}

// LoadLocal returns the decoded image at path, decoding it on first use.
// Concurrent misses for the same path share one decode. Failures are not
// cached.
func (c *Cache) LoadLocal(ctx context.Context, path string) (image.Image, error) {
	if v, ok := c.images.Get(path); ok {
		metrics.RecordCacheHit()
		return v.(image.Image), nil
	}

	gen := c.generation()
	key := fmt.Sprintf("%d\x00%s", gen, path)
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.images.Get(path); ok {
			return v, nil
		}
		metrics.RecordCacheMiss()
		img, err := c.decodeFile(path)
		if err != nil {
			metrics.RecordDecodeError()
			return nil, err
		}
		c.clearMu.Lock()
		stale := c.gen != gen
		if !stale {
			c.images.Set(path, img, cache.NoExpiration)
		}
		c.clearMu.Unlock()
		c.logger.Debug(ctx, "asset decoded", logger.String("path", path), logger.Bool("stale", stale))
		return img, nil
	})
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	return v.(image.Image), nil
}

func (c *Cache) decodeFile(path string) (image.Image, error) {
	f, err := c.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := c.decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// LoadRemote downloads and decodes url. Remote images are never cached. On
// failure the local fallbackPath is loaded instead when it is non-empty.
func (c *Cache) LoadRemote(ctx context.Context, url, fallbackPath string) (image.Image, error) {
	img, err := c.fetchRemote(ctx, url)
	if err == nil {
		return img, nil
	}
	metrics.RecordRemoteError()
	if fallbackPath != "" {
		c.logger.Warn(ctx, "remote image failed, using fallback",
			logger.String("url", url), logger.String("fallback", fallbackPath), logger.Error(err))
		return c.LoadLocal(ctx, fallbackPath)
	}
	return nil, &RemoteAssetError{URL: url, Err: err}
}

func (c *Cache) fetchRemote(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return imagepkg.DownloadImage(ctx, c.client, url)
}

// ResolveIconFor returns the icon of the canonical element for category.
// Unknown categories resolve to DefaultElement's icon.
func (c *Cache) ResolveIconFor(ctx context.Context, category string) (image.Image, error) {
	return c.LoadLocal(ctx, c.paths.ElementIcons[NormalizeElement(category)])
}

// RegisterDisplayFont registers the bundled font under the display family.
// Only the first call does any work. A failure is logged and text keeps
// using the host default face.
func (c *Cache) RegisterDisplayFont(ctx context.Context) {
	c.fontOnce.Do(func() {
		data, err := fs.ReadFile(c.fsys, c.paths.Font)
		if err == nil {
			err = c.fonts.Register(c.fontFamily, data)
		}
		if err != nil {
			c.logger.Warn(ctx, "display font not registered, falling back to host default",
				logger.String("path", c.paths.Font), logger.Error(err))
			return
		}
		c.fontRegistered.Store(true)
		c.logger.Info(ctx, "display font registered", logger.String("family", c.fontFamily))
	})
}

// FontRegistered reports whether RegisterDisplayFont succeeded.
func (c *Cache) FontRegistered() bool { return c.fontRegistered.Load() }

// FontFamily is the family name text should request.
func (c *Cache) FontFamily() string { return c.fontFamily }

// Fonts returns the registry surfaces resolve families against.
func (c *Cache) Fonts() *fonts.Registry { return c.fonts }

// Paths returns a copy of the asset path table.
func (c *Cache) Paths() AssetPaths { return c.paths.Clone() }

// Clear drops every decoded image. Decodes already in flight still answer
// their callers but are not cached. Font registration is unaffected.
func (c *Cache) Clear() {
	c.clearMu.Lock()
	defer c.clearMu.Unlock()
	c.gen++
	c.images.Flush()
}

func (c *Cache) generation() uint64 {
	c.clearMu.Lock()
	defer c.clearMu.Unlock()
	return c.gen
}

// Len is the number of cached images.
func (c *Cache) Len() int { return c.images.ItemCount() }

// Warm decodes paths (all static images when none are given) concurrently
// and returns the first failure.
func (c *Cache) Warm(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		paths = c.paths.Images()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			_, err := c.LoadLocal(gctx, p)
			return err
		})
	}
	return g.Wait()
}
