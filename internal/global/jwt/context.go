package jwt

import (
	"log/slog"

	"homeforge/internal/global/logger"

	"github.com/gin-gonic/gin"
)

const payloadKey = "payload"

// Principal is the authenticated caller, loaded fresh from the store on each request.
type Principal struct {
	UserID    string
	Username  string
	SessionID string
	IsAdmin   bool
}

// LogValue keeps the session id out of logs; its first eight characters are enough
// to follow one login across requests.
func (p *Principal) LogValue() slog.Value {
	session := p.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	return slog.GroupValue(
		slog.String("user_id", p.UserID),
		slog.String("username", p.Username),
		slog.String("session", session),
		slog.Bool("admin", p.IsAdmin),
	)
}

func SetUserPayload(c *gin.Context, p *Principal) {
	c.Set(payloadKey, p)
	c.Set(logger.CallerKey, p)
}

func GetUserPayload(c *gin.Context) (userPayload *Principal, exist bool) {
	payload, _ := c.Get(payloadKey)
	userPayload, exist = payload.(*Principal)
	return
}
