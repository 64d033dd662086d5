package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOutputPath is reported when path output has no destination.
	ErrMissingOutputPath = errors.New("output path is required for path output")
	// ErrUnsupportedOutput is reported for an unknown output mode.
	ErrUnsupportedOutput = errors.New("unsupported output mode")
	// ErrInvalidQuality is reported for a JPEG quality outside 0..100.
	ErrInvalidQuality = errors.New("quality must be between 0 and 100")
)

// FetchError wraps a failure of the record source. The render is aborted.
type FetchError struct {
	UID string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to generate profile for uid %s: %v", e.UID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ConfigurationError reports invalid options. It is returned before any
// fetch or drawing happens.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
