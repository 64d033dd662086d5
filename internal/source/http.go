// Package source fetches player records from the profile data service.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/youruser/profilecard/internal/util"
	"github.com/youruser/profilecard/pkg/logger"
)

var (
	// ErrNotFound is returned when the service has no record for a uid.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyUID is returned for a blank uid.
	ErrEmptyUID = errors.New("empty uid")
	// ErrMalformed is returned when the response is not a usable record.
	ErrMalformed = errors.New("malformed record")
)

// HTTPSource reads records from {BaseURL}/{uid}.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Logger  logger.Logger
}

// NewHTTPSource returns a source rooted at baseURL.
func NewHTTPSource(baseURL string, client *http.Client, l logger.Logger) *HTTPSource {
	if l == nil {
		l = logger.Nop()
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Logger:  l,
	}
}

// FetchRecord performs a single GET for uid. There is no retry.
func (s *HTTPSource) FetchRecord(ctx context.Context, uid string) (*Record, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrEmptyUID
	}
	u := s.BaseURL + "/" + url.PathEscape(uid)

	body, err := util.GetBytes(ctx, s.Client, u)
	if err != nil {
		var se *util.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uid)
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rec.PlayerInfo.UID == "" {
		rec.PlayerInfo.UID = uid
	}
	s.Logger.Debug(ctx, "record fetched",
		logger.String("uid", uid),
		logger.Int("showcase", len(rec.ShowAvatars)))
	return &rec, nil
}
