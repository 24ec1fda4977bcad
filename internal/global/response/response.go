package response

import (
	"errors"
	"log/slog"
	"net/http"

	"homeforge/config"
	"homeforge/internal/global/logger"
	internalSentry "homeforge/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidRequest     = newError(http.StatusBadRequest, "Invalid request")
	ErrUnauthorized       = newError(http.StatusUnauthorized, "Authentication required")
	ErrInvalidCredentials = newError(http.StatusUnauthorized, "Invalid username or password")
	ErrForbidden          = newError(http.StatusForbidden, "Permission denied")
	ErrNotFound           = newError(http.StatusNotFound, "Not found")
	ErrAlreadyExists      = newError(http.StatusConflict, "Already exists")
	ErrTooManyRequests    = newError(http.StatusTooManyRequests, "Too many attempts, please try again later")
	ErrServerInternal     = newError(http.StatusInternalServerError, "Internal server error")
	ErrDatabase           = newError(http.StatusInternalServerError, "Database error")
	ErrFileStorage        = newError(http.StatusInternalServerError, "File storage error")
)

// ResponseBody is the shape of every failure body.
type ResponseBody struct {
	Error  string `json:"error"`
	Origin string `json:"origin,omitempty"`
}

// Success writes data as the whole JSON body.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK writes {"ok": true}.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Fail aborts the request with err. Errors that are not *Error become ErrServerInternal.
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}

	_ = c.Error(e)
	c.Set(ErrorContextKey, e)

	body := ResponseBody{Error: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	if e.Code >= http.StatusInternalServerError {
		logger.WithContext(logger.Get(), c).Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", e))
		internalSentry.CaptureException(c, e)
	}
	c.AbortWithStatusJSON(int(e.Code), body)
}

// Recovery turns a panic in a handler into a 500 body. Use with defer.
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.Get().Error("panic recovered", "panic", r, "path", c.Request.URL.Path)
		var err error
		if e, ok := r.(error); ok {
			err = e
		} else {
			err = errors.New(http.StatusText(http.StatusInternalServerError))
		}
		Fail(c, ErrServerInternal.WithOrigin(err))
	}
}
