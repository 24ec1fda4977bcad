package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"homeforge/config"
	"homeforge/internal/global/database"
	"homeforge/internal/global/httpclient"
	"homeforge/internal/global/logger"
	"homeforge/internal/global/middleware"
	internalOtel "homeforge/internal/global/otel"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/redis"
	internalSentry "homeforge/internal/global/sentry"
	"homeforge/internal/global/session"
	"homeforge/internal/module"
	"homeforge/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

// Init brings up every global in dependency order, then the modules.
func Init() {
	config.Init()
	log = logger.New("Server")

	if err := internalSentry.Init(); err != nil {
		log.Error("sentry disabled", "error", err)
	}

	if err := internalOtel.Init(context.Background()); err != nil {
		log.Error("otel disabled", "error", err)
	} else if internalOtel.Enabled() {
		log.Info("OTel Enabled")
	}

	tools.PanicOnErr(redis.Init())
	database.Init()
	tools.PanicOnErr(session.Init())
	tools.PanicOnErr(pictureBed.Init(context.Background()))
	httpclient.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// Engine builds the gin engine with the global middleware and every module's routes.
func Engine() *gin.Engine {
	cfg := config.Get()
	gin.SetMode(string(cfg.Mode))
	r := gin.New()

	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(internalSentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if internalOtel.Enabled() {
		r.Use(middleware.Trace())
	}

	if pictureBed.Default.Driver == pictureBed.DriverLocal && strings.HasPrefix(pictureBed.Default.BaseURL, "/") {
		r.Static(pictureBed.Default.BaseURL, pictureBed.Default.SaveDir)
	}

	api := r.Group("/" + cfg.Prefix)
	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(api)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then drains requests and flushes telemetry.
func Run() {
	cfg := config.Get()
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	Close(shutdownCtx)
}

// Close releases the globals opened by Init.
func Close(ctx context.Context) {
	if err := internalOtel.Shutdown(ctx); err != nil {
		log.Error("otel shutdown", "error", err)
	}
	if err := redis.Close(); err != nil {
		log.Error("redis close", "error", err)
	}
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	internalSentry.Flush(2 * time.Second)
}
