package middleware

import (
	"bytes"
	"log/slog"
	"time"

	"homeforge/internal/global/logger"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxResponseLogSize caps how much of a failed response body is logged.
const maxResponseLogSize = 4 * 1024

// responseBodyWriter tees the response body into a bounded buffer.
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if remaining := maxResponseLogSize - w.body.Len(); remaining > 0 {
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger writes one record per request. Bodies are only logged for error responses,
// since successful ones carry household data and photos.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		blw := &responseBodyWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency", time.Since(startTime).String(),
		}
		reqLog := logger.WithContext(log, c)
		switch {
		case status >= 500:
			reqLog.Error("HTTP Request", append(attrs, "response_body", blw.body.String())...)
		case status >= 400:
			reqLog.Warn("HTTP Request", append(attrs, "response_body", blw.body.String())...)
		default:
			reqLog.Info("HTTP Request", attrs...)
		}
	}
}

// SentryEnrichIP tags the Sentry scope with the client address. It must run after sentry.Middleware.
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: clientIP})
				scope.SetTag("client_ip", clientIP)
				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
			})
		}
		c.Next()
	}
}
