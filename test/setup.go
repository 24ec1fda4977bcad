// Package test holds helpers shared by the module tests: a throwaway store, a gin engine
// and an HTTP client that keeps the session cookie between calls.
package test

import (
	"path/filepath"
	"testing"

	"homeforge/config"
	"homeforge/internal/global/database"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/session"
	"homeforge/internal/model"
	"homeforge/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const Password = "secret-pass"

// Setup points every global at a fresh SQLite file and upload directory under t.TempDir().
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	config.Set(cfg)

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	database.DB = db
	session.Default = session.NewGormStore(db)
	pictureBed.Default = pictureBed.FromConfig(cfg)
	return db
}

// UploadDir is where Setup's picture bed writes files.
func UploadDir() string {
	return filepath.Join(config.Get().DataDir, "uploads")
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t *testing.T, db *gorm.DB, username string, admin bool) model.User {
	t.Helper()
	hash, err := tools.PasswordEncrypt(Password)
	require.NoError(t, err)
	user := model.User{
		Username:     username,
		DisplayName:  username + " display",
		PasswordHash: hash,
		AvatarColor:  "#4A7C8B",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
