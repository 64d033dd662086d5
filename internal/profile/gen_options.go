package profile

import (
	"time"

	"github.com/youruser/profilecard/pkg/logger"
)

// Option configures a Generator.
type Option func(*Generator)

// WithSurfaceFactory replaces how surfaces are created.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(g *Generator) { g.newSurface = f }
}

// WithWriter sets where path output is written.
func WithWriter(w Writer) Option {
	return func(g *Generator) {
		if w != nil {
			g.writer = w
		}
	}
}

// WithRandomUID replaces the generator of substitute uids.
func WithRandomUID(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.randomUID = fn
		}
	}
}

// WithClock sets the time source used for metadata and timings.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}
