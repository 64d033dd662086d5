package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/profilecard/internal/image"
	"github.com/youruser/profilecard/internal/profile"
	"github.com/youruser/profilecard/internal/source"
	"github.com/youruser/profilecard/pkg/logger"
)

// Renderer produces profile cards.
type Renderer interface {
	Generate(ctx context.Context, uid string, opts profile.Options) (*profile.Result, error)
}

// AssetCache is the part of the asset cache the API manages.
type AssetCache interface {
	Clear()
	Len() int
}

// Handler serves the HTTP API.
type Handler struct {
	renderer Renderer
	cache    AssetCache
	logger   logger.Logger
}

// NewHandler returns a handler rendering with r.
func NewHandler(r Renderer, cache AssetCache, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Nop()
	}
	return &Handler{renderer: r, cache: cache, logger: l}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// profileCard renders the card for :uid. Query parameters: hide_uid,
// output (buffer|base64|path), format (png|jpeg), quality, qr.
func (h *Handler) profileCard(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("uid"))
	opts, err := optionsFromQuery(c, uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.renderer.Generate(c.Request.Context(), uid, opts)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn(c.Request.Context(), "profile request failed",
			logger.String("uid", uid),
			logger.String("request_id", c.GetString(requestIDKey)),
			logger.Int("status", status),
			logger.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if opts.Output == profile.OutputBuffer {
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, res.ContentType, res.Buffer)
		return
	}
	c.JSON(http.StatusOK, res)
}

func optionsFromQuery(c *gin.Context, uid string) (profile.Options, error) {
	opts := profile.Options{
		Output: profile.OutputMode(strings.ToLower(c.DefaultQuery("output", string(profile.OutputBuffer)))),
		LinkQR: c.Query("qr"),
	}
	if v := c.Query("hide_uid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("hide_uid must be a boolean")
		}
		opts.HideUID = b
	}
	format, err := imagepkg.ParseFormat(c.Query("format"))
	if err != nil {
		return opts, err
	}
	opts.Format = format
	if v := c.Query("quality"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("quality must be an integer")
		}
		opts.Quality = q
	}
	// Clients never choose the destination; path output goes to
	// {uid}.{ext} under the server's output directory.
	if opts.Output == profile.OutputPath {
		opts.OutputPath = safeName(uid) + "." + extension(format)
	}
	return opts, nil
}

func extension(f imagepkg.Format) string {
	if f == imagepkg.FormatJPEG {
		return "jpg"
	}
	return "png"
}

// safeName keeps only characters that are safe in a file name.
func safeName(uid string) string {
	var b strings.Builder
	for _, r := range uid {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "card"
	}
	return b.String()
}

func statusFor(err error) int {
	var ce *profile.ConfigurationError
	var fe *profile.FetchError
	switch {
	case errors.As(err, &ce):
		return http.StatusBadRequest
	case errors.As(err, &fe) && errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fe):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) clearCache(c *gin.Context) {
	n := h.cache.Len()
	h.cache.Clear()
	h.logger.Info(c.Request.Context(), "asset cache cleared", logger.Int("entries", n))
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}
