// Package session keeps server-side login sessions and the signed cookie that points at them.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"homeforge/config"
	"homeforge/internal/global/jwt"

	"github.com/gin-gonic/gin"
)

// Session binds a login to a user until ExpiresAt.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Store persists sessions. Get returns ErrNotFound for absent or expired sessions.
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, userID string) error
}

var ErrNotFound = errors.New("session not found")

// Default is the process session store, chosen by session.store at startup.
var Default Store

func MaxAge() time.Duration {
	days := config.Get().Session.MaxAgeDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func cookieName() string {
	if name := config.Get().Session.CookieName; name != "" {
		return name
	}
	return "homeforge_session"
}

func setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName(), value, maxAge, "/", "", config.Get().Mode == config.ModeRelease, true)
}

// Issue starts a session for userID and sets the cookie on the response.
func Issue(c *gin.Context, userID string) (*Session, error) {
	ttl := MaxAge()
	s, err := Default.Create(c.Request.Context(), userID, ttl)
	if err != nil {
		return nil, err
	}
	token, err := jwt.CreateToken(s.ID, s.UserID, s.ExpiresAt)
	if err != nil {
		_ = Default.Delete(c.Request.Context(), s.ID)
		return nil, err
	}
	setCookie(c, token, int(ttl.Seconds()))
	return s, nil
}

// Resolve returns the live session named by the request cookie, or ErrNotFound.
func Resolve(c *gin.Context) (*Session, error) {
	token, err := c.Cookie(cookieName())
	if err != nil || token == "" {
		return nil, ErrNotFound
	}
	claims, ok := jwt.ParseToken(token)
	if !ok {
		return nil, ErrNotFound
	}
	s, err := Default.Get(c.Request.Context(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != claims.UserID {
		return nil, ErrNotFound
	}
	return s, nil
}

// Destroy removes the request's session, if any, and clears the cookie.
func Destroy(c *gin.Context) error {
	var err error
	if s, rerr := Resolve(c); rerr == nil {
		err = Default.Delete(c.Request.Context(), s.ID)
	}
	setCookie(c, "", -1)
	return err
}
