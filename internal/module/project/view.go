package project

import (
	"context"
	"time"

	"homeforge/internal/global/database"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"gorm.io/gorm"
)

// Summary is a project row joined with its space, people and counts. The excel tags
// name the spreadsheet export's columns.
type Summary struct {
	ID              string         `json:"id" excel:"ID"`
	Title           string         `json:"title" excel:"Title"`
	Description     string         `json:"description" excel:"Description"`
	SpaceID         *string        `json:"spaceId" excel:"-"`
	SpaceName       *string        `json:"spaceName" excel:"Space"`
	SpaceIcon       *string        `json:"spaceIcon" excel:"-"`
	Priority        model.Priority `json:"priority" excel:"Priority"`
	Status          model.Status   `json:"status" excel:"Status"`
	AssignedTo      *string        `json:"assignedTo" excel:"-"`
	AssigneeName    *string        `json:"assigneeName" excel:"Assignee"`
	AssigneeColor   *string        `json:"assigneeColor" excel:"-"`
	EstimatedBudget float64        `json:"estimatedBudget" excel:"Estimated Budget"`
	SpentBudget     float64        `json:"spentBudget" excel:"Spent Budget"`
	TimeEstimate    string         `json:"timeEstimate" excel:"Time Estimate"`
	DueDate         *string        `json:"dueDate" excel:"Due Date"`
	CreatedBy       *string        `json:"createdBy" excel:"-"`
	CreatorName     *string        `json:"creatorName" excel:"Created By"`
	CreatorColor    *string        `json:"creatorColor" excel:"-"`
	PhotoCount      int64          `json:"photoCount" excel:"Photos"`
	BoardItemCount  int64          `json:"boardItemCount" excel:"Board Items"`
	CreatedAt       time.Time      `json:"createdAt" excel:"Created"`
	UpdatedAt       time.Time      `json:"updatedAt" excel:"Updated"`
}

type Detail struct {
	Summary
	Tags     []string  `json:"tags"`
	Photos   []Photo   `json:"photos"`
	Comments []Comment `json:"comments"`
}

type Photo struct {
	ID           string          `json:"id"`
	FilePath     string          `json:"filePath"`
	Caption      string          `json:"caption"`
	PhotoType    model.PhotoType `json:"photoType"`
	UploaderName *string         `json:"uploaderName,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Comment is shared by project and design board comments.
type Comment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	AvatarColor string    `json:"avatarColor"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Filters struct {
	SpaceID    string `form:"space_id"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	AssignedTo string `form:"assigned_to"`
}

func summaries(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("projects AS p").
		Select(`p.id, p.title, p.description, p.space_id, s.name AS space_name, s.icon AS space_icon,
			p.priority, p.status, p.assigned_to, a.display_name AS assignee_name, a.avatar_color AS assignee_color,
			p.estimated_budget, p.spent_budget, p.time_estimate, p.due_date,
			p.created_by, u.display_name AS creator_name, u.avatar_color AS creator_color,
			(SELECT COUNT(*) FROM project_photos pp WHERE pp.project_id = p.id) AS photo_count,
			(SELECT COUNT(*) FROM design_board_items bi WHERE bi.project_id = p.id) AS board_item_count,
			p.created_at, p.updated_at`).
		Joins("LEFT JOIN spaces s ON p.space_id = s.id").
		Joins("LEFT JOIN users u ON p.created_by = u.id").
		Joins("LEFT JOIN users a ON p.assigned_to = a.id")
}

// List returns the projects matching every non-empty filter, most recently updated first.
func List(ctx context.Context, f Filters) ([]Summary, error) {
	q := summaries(ctx)
	if f.SpaceID != "" {
		q = q.Where("p.space_id = ?", f.SpaceID)
	}
	if f.Status != "" {
		q = q.Where("p.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("p.priority = ?", f.Priority)
	}
	if f.AssignedTo != "" {
		q = q.Where("p.assigned_to = ?", f.AssignedTo)
	}
	list := make([]Summary, 0)
	if err := q.Order("p.updated_at DESC").Scan(&list).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return list, nil
}

// Get returns one project with its tags, photos (newest first) and comments (oldest first).
func Get(ctx context.Context, id string) (*Detail, error) {
	var rows []Summary
	if err := summaries(ctx).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if len(rows) == 0 {
		return nil, response.ErrNotFound.WithTips("Project not found")
	}
	d := &Detail{Summary: rows[0], Tags: []string{}, Photos: []Photo{}, Comments: []Comment{}}
	db := database.DB.WithContext(ctx)

	err := db.Model(&model.ProjectTag{}).Where("project_id = ?", id).
		Order("created_at").Pluck("tag_name", &d.Tags).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	err = db.Table("project_photos AS pp").
		Select("pp.id, pp.file_path, pp.caption, pp.photo_type, u.display_name AS uploader_name, pp.created_at").
		Joins("LEFT JOIN users u ON pp.uploaded_by = u.id").
		Where("pp.project_id = ?", id).
		Order("pp.created_at DESC").
		Scan(&d.Photos).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	for i := range d.Photos {
		d.Photos[i].FilePath = pictureBed.Default.URL(d.Photos[i].FilePath)
	}

	d.Comments, err = Comments(ctx, "project_comments", "project_id", id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Comments loads the comments of table whose parentColumn is parentID, oldest first.
func Comments(ctx context.Context, table, parentColumn, parentID string) ([]Comment, error) {
	list := make([]Comment, 0)
	err := database.DB.WithContext(ctx).
		Table(table+" AS c").
		Select("c.id, c.user_id, u.display_name AS user_name, u.avatar_color, c.comment_text AS text, c.created_at").
		Joins("JOIN users u ON c.user_id = u.id").
		Where("c."+parentColumn+" = ?", parentID).
		Order("c.created_at ASC").
		Scan(&list).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return list, nil
}
