package assets

import (
	"errors"
	"fmt"
)

// ErrEmptyURL is returned by LoadRemote for a blank URL.
var ErrEmptyURL = errors.New("empty image url")

// AssetLoadError reports a local asset that could not be opened or decoded.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load asset %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// RemoteAssetError reports a remote image that could not be fetched or
// decoded when no fallback was given.
type RemoteAssetError struct {
	URL string
	Err error
}

func (e *RemoteAssetError) Error() string {
	return fmt.Sprintf("load remote image %s: %v", e.URL, e.Err)
}

func (e *RemoteAssetError) Unwrap() error { return e.Err }
