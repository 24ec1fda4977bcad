package middleware

import (
	"errors"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/global/session"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadPrincipal resolves the session cookie to a principal. The admin flag is read
// from the users table, not from the cookie.
func loadPrincipal(c *gin.Context) (*jwt.Principal, error) {
	s, err := session.Resolve(c)
	if err != nil {
		return nil, err
	}
	var user model.User
	err = database.DB.WithContext(c.Request.Context()).
		Select("id", "username", "is_admin").
		Where("id = ?", s.UserID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &jwt.Principal{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: s.ID,
		IsAdmin:   user.IsAdmin,
	}, nil
}

// Session attaches the principal when the request carries a valid session, and
// continues either way.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := loadPrincipal(c)
		switch {
		case err == nil:
			jwt.SetUserPayload(c, p)
		case isAnonymous(err):
		default:
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		c.Next()
	}
}

// Auth rejects requests without a valid session with 401.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := loadPrincipal(c)
		switch {
		case err == nil:
			jwt.SetUserPayload(c, p)
		case isAnonymous(err):
			response.Fail(c, response.ErrUnauthorized)
			return
		default:
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		c.Next()
	}
}

func isAnonymous(err error) bool {
	return errors.Is(err, session.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
