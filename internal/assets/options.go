package assets

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/youruser/profilecard/internal/fonts"
	"github.com/youruser/profilecard/pkg/logger"
)

// Option configures a Cache.
type Option func(*Cache)

// WithPaths replaces the asset path table.
func WithPaths(p AssetPaths) Option {
	return func(c *Cache) { c.paths = p.Clone() }
}

// WithDecoder replaces the image decoder.
func WithDecoder(d DecodeFunc) Option {
	return func(c *Cache) {
		if d != nil {
			c.decode = d
		}
	}
}

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		if client != nil {
			c.client = client
		}
	}
}

// WithRemoteRate limits remote downloads to perSecond with the given burst.
func WithRemoteRate(perSecond float64, burst int) Option {
	return func(c *Cache) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithFontRegistry shares an existing font registry.
func WithFontRegistry(r *fonts.Registry) Option {
	return func(c *Cache) { c.fonts = r }
}

// WithFontFamily changes the family the bundled font is registered under.
func WithFontFamily(family string) Option {
	return func(c *Cache) {
		if family != "" {
			c.fontFamily = family
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
