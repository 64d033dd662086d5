// Package fonts keeps the parsed font families available to text drawing.
//
// A family that was never registered resolves to the host default face
// (Go Regular), mirroring how a browser canvas falls back when a named
// font is missing.
package fonts

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DPI used for every face; at 72 DPI one point equals one pixel.
const DPI = 72

// ErrEmptyFamily is returned when registering under a blank family name.
var ErrEmptyFamily = errors.New("fonts: empty family name")

// Registry maps family names to parsed fonts. It is safe for concurrent use;
// the faces it creates are not.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*opentype.Font
	fallback *opentype.Font
}

// NewRegistry returns an empty registry with the host default font loaded.
func NewRegistry() *Registry {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// goregular is compiled in; a parse failure is a broken build.
		panic(fmt.Sprintf("fonts: parse Go Regular: %v", err))
	}
	return &Registry{
		families: make(map[string]*opentype.Font),
		fallback: fallback,
	}
}

// Register parses data and stores it under family, replacing any previous
// font of the same name.
func (r *Registry) Register(family string, data []byte) error {
	if family == "" {
		return ErrEmptyFamily
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("fonts: parse %q: %w", family, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[family] = f
	return nil
}

// Has reports whether family has been registered.
func (r *Registry) Has(family string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[family]
	return ok
}

// NewFace returns a new face for family at sizePx, falling back to the host
// default when family is unknown. The face belongs to the caller and must
// not be shared between goroutines.
func (r *Registry) NewFace(family string, sizePx float64) (font.Face, error) {
	if sizePx <= 0 || math.IsNaN(sizePx) {
		return nil, fmt.Errorf("fonts: invalid size %v", sizePx)
	}

	r.mu.RLock()
	src, ok := r.families[family]
	r.mu.RUnlock()
	if !ok {
		src = r.fallback
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("fonts: face %q@%v: %w", family, sizePx, err)
	}
	return face, nil
}
