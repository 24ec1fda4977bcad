package board

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/response"
	"homeforge/internal/model"
	"homeforge/internal/module/project"

	"gorm.io/gorm"
)

const photoPrefix = "board_"

// View is the response form of an Item. Only the fields of its variant are set.
type View struct {
	ID           string              `json:"id"`
	ProjectID    string              `json:"projectId"`
	ItemType     model.BoardItemType `json:"itemType"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	URL          string              `json:"url,omitempty"`
	FilePath     string              `json:"filePath,omitempty"`
	AddedBy      *string             `json:"addedBy"`
	AddedByName  *string             `json:"addedByName"`
	AvatarColor  *string             `json:"avatarColor"`
	CreatedAt    time.Time           `json:"createdAt"`
	Comments     []project.Comment   `json:"comments"`
}

type itemRow struct {
	model.DesignBoardItem
	AddedByName *string
	AvatarColor *string
}

type LinkReq struct {
	URL     string `json:"url" binding:"required,notblank"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NoteReq struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required,notblank"`
}

var (
	linkMessages = response.Messages{"URL": "URL is required"}
	noteMessages = response.Messages{"Content": "Note content is required"}
)

func newView(row itemRow) (View, error) {
	item, err := FromRow(row.DesignBoardItem)
	if err != nil {
		return View{}, err
	}
	v := View{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		ItemType:     item.Type(),
		AddedBy:      row.AddedBy,
		AddedByName:  row.AddedByName,
		AvatarColor:  row.AvatarColor,
		CreatedAt:    row.CreatedAt,
		Comments:     []project.Comment{},
	}
	switch it := item.(type) {
	case Link:
		v.URL, v.Title, v.Content = it.URL, it.Title, it.Content
	case Note:
		v.Title, v.Content = it.Title, it.Content
	case Photo:
		v.FilePath, v.Title, v.Content = pictureBed.Default.URL(it.Key), it.Title, it.Content
	}
	return v, nil
}

func items(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx).
		Table("design_board_items AS bi").
		Select("bi.*, u.display_name AS added_by_name, u.avatar_color AS avatar_color").
		Joins("LEFT JOIN users u ON bi.added_by = u.id")
}

// List returns the board newest first, each item with its comments oldest first.
func List(ctx context.Context, projectID string) ([]View, error) {
	if err := project.Exists(ctx, projectID); err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := items(ctx).Where("bi.project_id = ?", projectID).Order("bi.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	list := make([]View, 0, len(rows))
	for _, row := range rows {
		v, err := newView(row)
		if err != nil {
			return nil, response.ErrServerInternal.WithOrigin(err)
		}
		v.Comments, err = project.Comments(ctx, "design_board_comments", "board_item_id", row.ID)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// Add stores item on the project's board and bumps the project.
func Add(ctx context.Context, caller *jwt.Principal, projectID string, item Item) (*View, error) {
	row := ToRow(projectID, &caller.UserID, item)
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := project.Touch(tx, projectID); err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var stored itemRow
	if err := items(ctx).Where("bi.id = ?", row.ID).Scan(&stored).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	v, err := newView(stored)
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}
	return &v, nil
}

// AddLinkItem fills an empty title from the page when previews are enabled.
func AddLinkItem(ctx context.Context, caller *jwt.Principal, projectID string, req LinkReq) (*View, error) {
	req.URL = strings.TrimSpace(req.URL)
	if err := project.Exists(ctx, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = fetchTitle(ctx, req.URL)
	}
	return Add(ctx, caller, projectID, Link{URL: req.URL, Title: req.Title, Content: req.Content})
}

func AddNoteItem(ctx context.Context, caller *jwt.Principal, projectID string, req NoteReq) (*View, error) {
	return Add(ctx, caller, projectID, Note{Title: req.Title, Content: req.Content})
}

// AddPhotoItem stores fh with a board_ prefix. The file is removed again if the row cannot be saved.
func AddPhotoItem(ctx context.Context, caller *jwt.Principal, projectID string, fh *multipart.FileHeader, title, content string) (*View, error) {
	if fh == nil {
		return nil, response.ErrInvalidRequest.WithTips("No file uploaded")
	}
	if err := project.Exists(ctx, projectID); err != nil {
		return nil, err
	}
	key, err := pictureBed.Default.SaveImage(ctx, fh, photoPrefix)
	if err != nil {
		return nil, project.UploadError(err)
	}
	v, err := Add(ctx, caller, projectID, Photo{Key: key, Title: title, Content: content})
	if err != nil {
		project.RemoveFiles(ctx, key)
		return nil, err
	}
	return v, nil
}

func findItem(ctx context.Context, projectID, itemID string) (*model.DesignBoardItem, error) {
	var row model.DesignBoardItem
	err := database.DB.WithContext(ctx).Where("id = ? AND project_id = ?", itemID, projectID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("Item not found")
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &row, nil
}

// Delete removes the item and its comments, and its file if it is a photo.
func Delete(ctx context.Context, projectID, itemID string) error {
	row, err := findItem(ctx, projectID, itemID)
	if err != nil {
		return err
	}
	item, err := FromRow(*row)
	if err != nil {
		return response.ErrServerInternal.WithOrigin(err)
	}
	if p, ok := item.(Photo); ok {
		project.RemoveFiles(ctx, p.Key)
	}
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(row).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return project.Touch(tx, projectID)
	})
}

func AddComment(ctx context.Context, caller *jwt.Principal, projectID, itemID, text string) (*project.Comment, error) {
	text = strings.TrimSpace(text)
	if _, err := findItem(ctx, projectID, itemID); err != nil {
		return nil, err
	}
	row := model.DesignBoardComment{BoardItemID: itemID, UserID: caller.UserID, CommentText: text}
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return project.Touch(tx, projectID)
	})
	if err != nil {
		return nil, err
	}
	return project.NewComment(ctx, row.ID, caller.UserID, text, row.CreatedAt)
}
