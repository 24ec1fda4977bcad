package session

import (
	"context"
	"errors"
	"time"

	"homeforge/internal/model"

	"gorm.io/gorm"
)

// GormStore keeps sessions in the sessions table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	now := time.Now()
	// expired rows are swept lazily on login
	if err := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{}).Error; err != nil {
		return nil, err
	}
	row := model.Session{UserID: userID, ExpiresAt: now.Add(ttl)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var row model.Session
	err := s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, time.Now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}

func (s *GormStore) DeleteUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Session{}).Error
}
