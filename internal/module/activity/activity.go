package activity

import (
	"context"
	"time"

	"homeforge/internal/global/database"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecentLimit is how many entries the feed returns.
const RecentLimit = 50

// Entry is an activity row joined with its user and project.
type Entry struct {
	ID           string    `json:"id"`
	ProjectID    *string   `json:"projectId"`
	ProjectTitle *string   `json:"projectTitle"`
	UserID       *string   `json:"userId"`
	UserName     *string   `json:"userName"`
	AvatarColor  *string   `json:"avatarColor"`
	Action       string    `json:"action"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Record appends an entry inside tx. Pass the returned row to Publish once tx has committed.
func Record(tx *gorm.DB, projectID, userID *string, action, details string) (*model.ActivityLog, error) {
	row := &model.ActivityLog{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func entries(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("activity_log AS al").
		Select(`al.id, al.project_id, p.title AS project_title, al.user_id,
			u.display_name AS user_name, u.avatar_color, al.action, al.details, al.created_at`).
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Joins("LEFT JOIN projects p ON al.project_id = p.id")
}

// Recent returns the newest RecentLimit entries across all projects.
func Recent(ctx context.Context) ([]Entry, error) {
	list := make([]Entry, 0)
	err := entries(ctx).Order("al.created_at DESC").Limit(RecentLimit).Scan(&list).Error
	return list, err
}

// Publish sends committed rows to live subscribers. Failures only cost the live update.
func Publish(ctx context.Context, rows ...*model.ActivityLog) {
	for _, row := range rows {
		if row == nil || !DefaultHub.HasSubscribers() {
			continue
		}
		var e Entry
		if err := entries(ctx).Where("al.id = ?", row.ID).Scan(&e).Error; err != nil || e.ID == "" {
			if log != nil {
				log.Warn("load activity entry for stream", "id", row.ID, "error", err)
			}
			continue
		}
		DefaultHub.Publish(e)
	}
}

// ListRecent handles GET /projects/activity/recent.
func ListRecent(c *gin.Context) {
	list, err := Recent(c.Request.Context())
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}
