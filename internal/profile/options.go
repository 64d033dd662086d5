package profile

import (
	"fmt"
	"strings"
	"time"

	imagepkg "github.com/youruser/profilecard/internal/image"
)

// OutputMode selects how Generate returns the encoded card.
type OutputMode string

const (
	OutputBuffer OutputMode = "buffer"
	OutputBase64 OutputMode = "base64"
	OutputPath   OutputMode = "path"
)

// Options controls a single render.
type Options struct {
	// HideUID replaces the uid with a random 9-digit number.
	HideUID bool
	// Output defaults to OutputBuffer.
	Output OutputMode
	// OutputPath is required when Output is OutputPath.
	OutputPath string
	// Format defaults to PNG.
	Format imagepkg.Format
	// Quality applies to JPEG only and is ignored otherwise. Zero uses the
	// encoder default.
	Quality int
	// LinkQR, when set, adds a QR code badge encoding it.
	LinkQR string
}

// normalized fills defaults and validates the combination.
func (o Options) normalized() (Options, error) {
	mode := OutputMode(strings.ToLower(strings.TrimSpace(string(o.Output))))
	switch mode {
	case "":
		mode = OutputBuffer
	case OutputBuffer, OutputBase64:
	case OutputPath:
		if strings.TrimSpace(o.OutputPath) == "" {
			return o, &ConfigurationError{Field: "output_path", Err: ErrMissingOutputPath}
		}
	default:
		return o, &ConfigurationError{Field: "output", Err: fmt.Errorf("%w: %q", ErrUnsupportedOutput, o.Output)}
	}
	o.Output = mode

	if o.Format == "" {
		o.Format = imagepkg.FormatPNG
	} else {
		f, err := imagepkg.ParseFormat(string(o.Format))
		if err != nil {
			return o, &ConfigurationError{Field: "format", Err: err}
		}
		o.Format = f
	}
	if o.Format != imagepkg.FormatJPEG {
		o.Quality = 0
	} else if o.Quality < 0 || o.Quality > 100 {
		return o, &ConfigurationError{Field: "quality", Err: ErrInvalidQuality}
	}
	return o, nil
}

// Dimensions is the pixel size of a card.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Metadata describes a rendered card.
type Metadata struct {
	UID         string     `json:"uid"`
	PlayerName  string     `json:"playerName"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Dimensions  Dimensions `json:"dimensions"`
}

// Result holds the card in exactly one of Buffer, Base64 or Path, chosen by
// Options.Output.
type Result struct {
	Buffer      []byte          `json:"-"`
	Base64      string          `json:"base64,omitempty"`
	Path        string          `json:"path,omitempty"`
	Format      imagepkg.Format `json:"format"`
	ContentType string          `json:"contentType"`
	Metadata    Metadata        `json:"metadata"`
}
