package sentry

import (
	"fmt"
	"strings"
	"time"

	"homeforge/config"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/logger"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError carries an HTTP status; only 5xx codes are reported.
type CodedError interface {
	error
	GetCode() int32
}

// Init configures the SDK. Without a DSN it does nothing.
func Init() error {
	cfg := config.Get()

	if cfg.Sentry.Dsn == "" {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}

	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "homeforge@1.0.0",
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	})

	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

func Middleware() gin.HandlerFunc {
	cfg := config.Get()

	if cfg.Sentry.Dsn == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException reports err with the request attached. Client errors are skipped.
func CaptureException(c *gin.Context, err error) {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return
	}

	if !shouldReport(err) {
		return
	}

	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetRequest(c.Request)
			scope.SetTag("path", c.Request.URL.Path)
			scope.SetTag("method", c.Request.Method)
			if route := c.FullPath(); route != "" {
				scope.SetTag("route", route)
			}
			scope.SetTags(logger.RouteIDs(c))
			scope.SetTag("upload_driver", cfg.Upload.Driver)
			scope.SetTag("session_store", cfg.Session.Store)

			if p, ok := jwt.GetUserPayload(c); ok {
				scope.SetUser(sentry.User{
					ID:        p.UserID,
					Username:  p.Username,
					IPAddress: c.ClientIP(),
				})
			}

			hub.CaptureException(err)
		})
	}
}

// credentialRoutes carry passwords in their bodies.
var credentialRoutes = []string{"/auth/login", "/auth/register", "/auth/users/"}

// scrubEvent drops the session cookie and, for credential routes, the request body.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event.Request == nil {
		return event
	}
	delete(event.Request.Headers, "Cookie")
	delete(event.Request.Headers, "Set-Cookie")
	event.Request.Cookies = ""
	for _, route := range credentialRoutes {
		if strings.Contains(event.Request.URL, route) {
			event.Request.Data = ""
			break
		}
	}
	return event
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 500 && e.GetCode() < 600
	}
	return true
}

// Flush blocks until buffered events are sent or timeout passes.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
