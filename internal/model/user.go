package model

import "time"

type User struct {
	Model
	Username     string `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	DisplayName  string `gorm:"type:varchar(100);not null" json:"displayName"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	AvatarColor  string `gorm:"type:varchar(16);not null;default:'#C2603A'" json:"avatarColor"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"isAdmin"`
}

// Session backs the database session store. The cookie only carries its ID.
type Session struct {
	Model
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
