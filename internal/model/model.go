package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by every table. IDs are UUIDv4 strings unless set before insert.
type Model struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Space{},
		&Project{},
		&ProjectTag{},
		&ProjectPhoto{},
		&ProjectComment{},
		&DesignBoardItem{},
		&DesignBoardComment{},
		&ActivityLog{},
	}
}
