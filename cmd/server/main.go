package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/profilecard/internal/api"
	"github.com/youruser/profilecard/internal/assets"
	"github.com/youruser/profilecard/internal/config"
	"github.com/youruser/profilecard/internal/profile"
	"github.com/youruser/profilecard/internal/source"
	"github.com/youruser/profilecard/internal/store"
	"github.com/youruser/profilecard/internal/util"
	"github.com/youruser/profilecard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("server")

	client := util.NewClient(cfg.HTTPTimeout())
	cache := assets.New(os.DirFS(cfg.AssetsDir),
		assets.WithHTTPClient(client),
		assets.WithRemoteRate(cfg.RemoteRatePerSec, cfg.RemoteBurst),
		assets.WithFontFamily(cfg.FontFamily),
	)
	if cfg.CacheWarm {
		// Missing assets only degrade their regions, so start anyway.
		if err := cache.Warm(ctx); err != nil {
			log.Warn(ctx, "asset warm-up incomplete", logger.Error(err))
		}
	}

	gen := profile.New(cache,
		source.NewHTTPSource(cfg.SourceURL, client, logger.Named("source")),
		profile.WithWriter(store.NewFileWriter(cfg.OutputDir)),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, api.NewHandler(gen, cache, logger.Named("api")))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
