// Package admin holds the operator commands that run against the store without serving HTTP.
package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"homeforge/config"
	"homeforge/internal/global/database"
	"homeforge/internal/global/logger"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/redis"
	"homeforge/internal/global/session"
	"homeforge/internal/module/project"
	"homeforge/internal/module/user"

	"github.com/pkg/errors"
)

var log *slog.Logger

// Init opens the store, sessions and uploads the commands need.
func Init(ctx context.Context) error {
	config.Init()
	log = logger.New("Admin")

	if err := redis.Init(); err != nil {
		return errors.Wrap(err, "redis")
	}
	db, err := database.Open(config.Get())
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	database.DB = db
	if err := session.Init(); err != nil {
		return errors.Wrap(err, "session")
	}
	if err := pictureBed.Init(ctx); err != nil {
		return errors.Wrap(err, "uploads")
	}
	(&user.ModuleUser{}).Init()
	(&project.ModuleProject{}).Init()
	return nil
}

// ResetPassword replaces the password of username and ends all of the user's sessions.
func ResetPassword(ctx context.Context, username, password string) error {
	if err := user.ResetPassword(ctx, username, password); err != nil {
		return err
	}
	log.Info("password reset", "username", username)
	return nil
}

// PruneUploads reports stored files nothing refers to and deletes them unless dryRun.
func PruneUploads(ctx context.Context, dryRun bool, out io.Writer) error {
	orphans, err := project.PruneOrphans(ctx, dryRun)
	for _, key := range orphans {
		fmt.Fprintln(out, key)
	}
	if err != nil {
		return err
	}
	verb := "removed"
	if dryRun {
		verb = "found"
	}
	fmt.Fprintf(out, "%s %d orphaned file(s)\n", verb, len(orphans))
	log.Info("uploads pruned", "orphans", len(orphans), "dry_run", dryRun)
	return nil
}

func Close() {
	_ = redis.Close()
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
