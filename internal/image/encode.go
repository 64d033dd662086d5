package imagepkg

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Format selects the encoder used by Encode.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ErrUnsupportedFormat is returned for formats other than png and jpeg.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat maps "", "png", "jpg" and "jpeg" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode serialises the surface. quality (1-100) only affects jpeg; any other
// value keeps the encoder default.
func (s *Surface) Encode(format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG, "":
		err = imaging.Encode(&buf, s.dst, imaging.PNG)
	case FormatJPEG:
		var opts []imaging.EncodeOption
		if quality >= 1 && quality <= 100 {
			opts = append(opts, imaging.JPEGQuality(quality))
		}
		err = imaging.Encode(&buf, s.dst, imaging.JPEG, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 is Encode followed by standard base64.
func (s *Surface) EncodeBase64(format Format, quality int) (string, error) {
	b, err := s.Encode(format, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
