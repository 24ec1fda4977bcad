package project

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"gorm.io/gorm"
)

// UploadError maps a picture bed failure to the response the client sees.
func UploadError(err error) *response.Error {
	switch {
	case errors.Is(err, pictureBed.ErrNoFile):
		return response.ErrInvalidRequest.WithTips("No files uploaded")
	case errors.Is(err, pictureBed.ErrTooManyFiles):
		return response.ErrInvalidRequest.WithTips(fmt.Sprintf("Too many files (max %d)", pictureBed.Default.MaxFiles))
	case errors.Is(err, pictureBed.ErrFileType):
		return response.ErrInvalidRequest.WithTips("Only image files are allowed")
	case errors.Is(err, pictureBed.ErrFileTooLarge):
		return response.ErrInvalidRequest.WithTips(fmt.Sprintf("File too large (max %dMB)", pictureBed.Default.MaxFileSize>>20))
	}
	return response.ErrFileStorage.WithOrigin(err)
}

// RemoveFiles deletes stored files best-effort. Failures are logged and dropped.
func RemoveFiles(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := pictureBed.Default.Remove(ctx, key); err != nil {
			log.Warn("remove upload", "key", key, "error", err)
		}
	}
}

// AddPhotos stores files and records one photo row per file. Rows that fail to insert
// take every file of this call with them.
func AddPhotos(ctx context.Context, caller *jwt.Principal, projectID string, files []*multipart.FileHeader, photoType model.PhotoType, caption string) ([]Photo, error) {
	if err := Exists(ctx, projectID); err != nil {
		return nil, err
	}
	if photoType == "" {
		photoType = model.PhotoGeneral
	}
	if err := pictureBed.Default.Validate(files); err != nil {
		return nil, UploadError(err)
	}

	keys := make([]string, 0, len(files))
	for _, fh := range files {
		key, err := pictureBed.Default.SaveImage(ctx, fh, "")
		if err != nil {
			RemoveFiles(ctx, keys...)
			return nil, UploadError(err)
		}
		keys = append(keys, key)
	}

	rows := make([]model.ProjectPhoto, len(keys))
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, key := range keys {
			rows[i] = model.ProjectPhoto{
				ProjectID:  projectID,
				FilePath:   key,
				Caption:    strings.TrimSpace(caption),
				PhotoType:  photoType,
				UploadedBy: &caller.UserID,
			}
			if err := tx.Create(&rows[i]).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}
		return Touch(tx, projectID)
	})
	if err != nil {
		RemoveFiles(ctx, keys...)
		return nil, err
	}

	photos := make([]Photo, len(rows))
	for i, row := range rows {
		photos[i] = Photo{
			ID:        row.ID,
			FilePath:  pictureBed.Default.URL(row.FilePath),
			Caption:   row.Caption,
			PhotoType: row.PhotoType,
			CreatedAt: row.CreatedAt,
		}
	}
	return photos, nil
}

func RemovePhoto(ctx context.Context, projectID, photoID string) error {
	var photo model.ProjectPhoto
	err := database.DB.WithContext(ctx).Where("id = ? AND project_id = ?", photoID, projectID).First(&photo).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.ErrNotFound.WithTips("Photo not found")
	case err != nil:
		return response.ErrDatabase.WithOrigin(err)
	}

	RemoveFiles(ctx, photo.FilePath)
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&photo).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return Touch(tx, projectID)
	})
}

// AddComment appends a comment and returns it with the author's name and color.
func AddComment(ctx context.Context, caller *jwt.Principal, projectID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	row := model.ProjectComment{ProjectID: projectID, UserID: caller.UserID, CommentText: text}
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Touch(tx, projectID); err != nil {
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
	return NewComment(ctx, row.ID, caller.UserID, text, row.CreatedAt)
}

// NewComment builds the response for a freshly inserted comment.
func NewComment(ctx context.Context, id, userID, text string, createdAt time.Time) (*Comment, error) {
	var u model.User
	if err := database.DB.WithContext(ctx).Select("display_name", "avatar_color").Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &Comment{
		ID:          id,
		UserID:      userID,
		UserName:    u.DisplayName,
		AvatarColor: u.AvatarColor,
		Text:        text,
		CreatedAt:   createdAt,
	}, nil
}
