package logger

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"homeforge/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// multiHandler fans a record out to every handler that accepts its level.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}

// Get returns the process logger. The first call fixes its handlers from config.Get().
func Get() *slog.Logger {
	once.Do(func() {
		cfg := config.Get()
		opts := &slog.HandlerOptions{
			AddSource: cfg.Mode == config.ModeRelease,
			Level:     getLogLevel(cfg.Log.Level),
		}

		var baseHandler slog.Handler
		if cfg.Mode == config.ModeRelease && cfg.Log.FilePath != "" {
			lumberjackLogger := &lumberjack.Logger{
				Filename:   cfg.Log.FilePath,
				MaxSize:    cfg.Log.MaxSize,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAge,
				Compress:   cfg.Log.Compress,
			}
			baseHandler = slog.NewJSONHandler(lumberjackLogger, opts)
		} else {
			baseHandler = slog.NewTextHandler(os.Stdout, opts)
		}

		var finalHandler slog.Handler = baseHandler

		if cfg.Sentry.Dsn != "" {
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
				AddSource:  cfg.Mode == config.ModeRelease,
			}.NewSentryHandler(context.Background())

			finalHandler = newMultiHandler(baseHandler, sentryHandler)
		}

		instance = slog.New(finalHandler).With(
			"app_name", "homeforge",
			"env", string(cfg.Mode),
		)
	})
	return instance
}

// New returns a child logger tagged with the module name.
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// CallerKey is the gin.Context key under which the auth layer stores the signed-in
// caller. The value should implement slog.LogValuer.
const CallerKey = "log.caller"

// RouteIDs names the path parameters of the current route by what they identify,
// e.g. project_id for /projects/:id and board_item_id for /design-board/:itemId.
func RouteIDs(c *gin.Context) map[string]string {
	ids := map[string]string{}
	route := c.FullPath()
	if id := c.Param("id"); id != "" {
		switch {
		case strings.Contains(route, "/projects/:id"):
			ids["project_id"] = id
		case strings.Contains(route, "/spaces/:id"):
			ids["space_id"] = id
		case strings.Contains(route, "/users/:id"):
			ids["target_user_id"] = id
		}
	}
	if id := c.Param("itemId"); id != "" {
		ids["board_item_id"] = id
	}
	if id := c.Param("photoId"); id != "" {
		ids["photo_id"] = id
	}
	return ids
}

// WithContext ties base to the request: client address, route, the ids it
// touches and, once authenticated, the caller and session.
func WithContext(base *slog.Logger, c *gin.Context) *slog.Logger {
	l := base.With("client_ip", c.ClientIP())

	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		l = l.With("x_forwarded_for", forwardedFor)
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		l = l.With("x_real_ip", realIP)
	}
	if route := c.FullPath(); route != "" {
		l = l.With("route", route)
	}

	ids := RouteIDs(c)
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		l = l.With(k, ids[k])
	}

	if caller, ok := c.Get(CallerKey); ok {
		l = l.With("caller", caller)
	}
	return l
}

func getLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
