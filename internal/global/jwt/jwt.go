package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"homeforge/config"
	"homeforge/internal/global/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the session cookie carries. The session store stays authoritative.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	secret     []byte
	secretOnce sync.Once
)

func key() []byte {
	secretOnce.Do(func() {
		if s := config.Get().Session.Secret; s != "" {
			secret = []byte(s)
			return
		}
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		secret = []byte(hex.EncodeToString(buf))
		logger.New("Jwt").Warn("session.secret is empty, using a random key; sessions will not survive a restart")
	})
	return secret
}

func CreateToken(sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "homeforge",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key())
}

// ParseToken verifies the signature and expiry of token.
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("homeforge"))
	if err != nil || !parsed.Valid || claims.SessionID == "" || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}
