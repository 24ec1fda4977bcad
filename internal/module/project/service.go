package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/model"
	"homeforge/internal/module/activity"

	"github.com/oapi-codegen/nullable"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type CreateReq struct {
	Title           string         `json:"title" binding:"required,notblank"`
	Description     string         `json:"description"`
	SpaceID         *string        `json:"spaceId"`
	Priority        model.Priority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status          model.Status   `json:"status" binding:"omitempty,oneof=not_started planning in_progress almost_done complete"`
	AssignedTo      *string        `json:"assignedTo"`
	EstimatedBudget *float64       `json:"estimatedBudget" binding:"omitempty,gte=0"`
	SpentBudget     *float64       `json:"spentBudget" binding:"omitempty,gte=0"`
	TimeEstimate    string         `json:"timeEstimate"`
	DueDate         *string        `json:"dueDate"`
	Tags            []string       `json:"tags"`
}

// UpdateReq is a partial update. Absent and null fields keep their value, except the
// three Nullable fields where null clears the column.
type UpdateReq struct {
	Title           *string                   `json:"title"`
	Description     *string                   `json:"description"`
	SpaceID         nullable.Nullable[string] `json:"spaceId"`
	Priority        model.Priority            `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status          model.Status              `json:"status" binding:"omitempty,oneof=not_started planning in_progress almost_done complete"`
	AssignedTo      nullable.Nullable[string] `json:"assignedTo"`
	EstimatedBudget *float64                  `json:"estimatedBudget" binding:"omitempty,gte=0"`
	SpentBudget     *float64                  `json:"spentBudget" binding:"omitempty,gte=0"`
	TimeEstimate    *string                   `json:"timeEstimate"`
	DueDate         nullable.Nullable[string] `json:"dueDate"`
	Tags            *[]string                 `json:"tags"`
}

// projectMessages covers CreateReq and UpdateReq, which share field names.
var projectMessages = response.Messages{
	"Title":           "Title is required",
	"Priority":        "Invalid priority",
	"Status":          "Invalid status",
	"EstimatedBudget": "Budget cannot be negative",
	"SpentBudget":     "Budget cannot be negative",
}

// Exists reports ErrNotFound when the project is absent.
func Exists(ctx context.Context, id string) error {
	var n int64
	if err := database.DB.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if n == 0 {
		return response.ErrNotFound.WithTips("Project not found")
	}
	return nil
}

// Touch bumps the project's updated_at inside tx.
func Touch(tx *gorm.DB, id string) error {
	res := tx.Model(&model.Project{}).Where("id = ?", id).Update("updated_at", time.Now())
	if res.Error != nil {
		return response.ErrDatabase.WithOrigin(res.Error)
	}
	if res.RowsAffected == 0 {
		return response.ErrNotFound.WithTips("Project not found")
	}
	return nil
}

func Create(ctx context.Context, caller *jwt.Principal, req CreateReq) (*model.Project, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if req.Status == "" {
		req.Status = model.StatusNotStarted
	}
	if req.DueDate != nil && *req.DueDate == "" {
		req.DueDate = nil
	}
	if err := checkDueDate(req.DueDate); err != nil {
		return nil, err
	}

	p := &model.Project{
		Title:        req.Title,
		Description:  req.Description,
		SpaceID:      emptyToNil(req.SpaceID),
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedTo:   emptyToNil(req.AssignedTo),
		TimeEstimate: req.TimeEstimate,
		DueDate:      req.DueDate,
		CreatedBy:    &caller.UserID,
	}
	if req.EstimatedBudget != nil {
		p.EstimatedBudget = *req.EstimatedBudget
	}
	if req.SpentBudget != nil {
		p.SpentBudget = *req.SpentBudget
	}

	var entry *model.ActivityLog
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRefs(tx, p.SpaceID, p.AssignedTo); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if err := insertTags(tx, p.ID, req.Tags); err != nil {
			return err
		}
		var err error
		entry, err = activity.Record(tx, &p.ID, &caller.UserID, model.ActionCreated,
			fmt.Sprintf("Created project \"%s\"", p.Title))
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	activity.Publish(ctx, entry)
	return p, nil
}

func Update(ctx context.Context, caller *jwt.Principal, id string, req UpdateReq) error {
	var entry *model.ActivityLog
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Project
		err := tx.Where("id = ?", id).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return response.ErrNotFound.WithTips("Project not found")
		case err != nil:
			return response.ErrDatabase.WithOrigin(err)
		}

		updates := map[string]any{"updated_at": time.Now()}
		var changes []string

		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Status != "" {
			updates["status"] = req.Status
			if req.Status != p.Status {
				changes = append(changes, fmt.Sprintf("status to \"%s\"", req.Status))
			}
		}
		if req.Priority != "" {
			updates["priority"] = req.Priority
			if req.Priority != p.Priority {
				changes = append(changes, fmt.Sprintf("priority to \"%s\"", req.Priority))
			}
		}
		if req.EstimatedBudget != nil {
			updates["estimated_budget"] = *req.EstimatedBudget
		}
		if req.SpentBudget != nil {
			updates["spent_budget"] = *req.SpentBudget
		}
		if req.TimeEstimate != nil {
			updates["time_estimate"] = *req.TimeEstimate
		}

		spaceID, spaceSet := triState(req.SpaceID)
		if spaceSet {
			updates["space_id"] = spaceID
		}
		assignee, assigneeSet := triState(req.AssignedTo)
		if assigneeSet {
			updates["assigned_to"] = assignee
			if !sameRef(assignee, p.AssignedTo) {
				changes = append(changes, "assignment")
			}
		}
		dueDate, dueSet := triState(req.DueDate)
		if dueSet {
			if err := checkDueDate(dueDate); err != nil {
				return err
			}
			updates["due_date"] = dueDate
		}
		if err := checkRefs(tx, spaceID, assignee); err != nil {
			return err
		}

		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		if req.Tags != nil {
			if err := tx.Where("project_id = ?", id).Delete(&model.ProjectTag{}).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
			if err := insertTags(tx, id, *req.Tags); err != nil {
				return err
			}
		}

		if len(changes) > 0 {
			entry, err = activity.Record(tx, &p.ID, &caller.UserID, model.ActionUpdated,
				"Changed "+strings.Join(changes, ", "))
			if err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	activity.Publish(ctx, entry)
	return nil
}

// Delete removes every stored file of the project, then the row and everything cascading from it.
func Delete(ctx context.Context, id string) error {
	if err := Exists(ctx, id); err != nil {
		return err
	}
	db := database.DB.WithContext(ctx)

	var keys, boardKeys []string
	if err := db.Model(&model.ProjectPhoto{}).Where("project_id = ?", id).Pluck("file_path", &keys).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	err := db.Model(&model.DesignBoardItem{}).
		Where("project_id = ? AND item_type = ? AND file_path <> ''", id, model.BoardPhoto).
		Pluck("file_path", &boardKeys).Error
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	RemoveFiles(ctx, append(keys, boardKeys...)...)

	if err := db.Where("id = ?", id).Delete(&model.Project{}).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func checkDueDate(d *string) error {
	if d == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *d); err != nil {
		return response.ErrInvalidRequest.WithTips("Due date must be YYYY-MM-DD")
	}
	return nil
}

// checkRefs rejects a space or assignee that does not exist. nil skips the check.
func checkRefs(tx *gorm.DB, spaceID, assignee *string) error {
	var n int64
	if spaceID != nil {
		if err := tx.Model(&model.Space{}).Where("id = ?", *spaceID).Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n == 0 {
			return response.ErrInvalidRequest.WithTips("Unknown space")
		}
	}
	if assignee != nil {
		if err := tx.Model(&model.User{}).Where("id = ?", *assignee).Count(&n).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if n == 0 {
			return response.ErrInvalidRequest.WithTips("Unknown assignee")
		}
	}
	return nil
}

// insertTags stores tags one row at a time so created_at keeps their order.
func insertTags(tx *gorm.DB, projectID string, tags []string) error {
	for _, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := tx.Create(&model.ProjectTag{ProjectID: projectID, TagName: name}).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
	}
	return nil
}

// triState turns a Nullable into (value, specified). A null or empty value clears the column.
func triState(n nullable.Nullable[string]) (*string, bool) {
	if !n.IsSpecified() {
		return nil, false
	}
	if n.IsNull() {
		return nil, true
	}
	v, _ := n.Get()
	if v == "" {
		return nil, true
	}
	return &v, true
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
