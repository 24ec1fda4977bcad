package model

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// ActivityLog rows are only ever inserted; they go away with their project.
type ActivityLog struct {
	Model
	ProjectID *string  `gorm:"type:varchar(36);index"`
	UserID    *string  `gorm:"type:varchar(36)"`
	Action    string   `gorm:"type:varchar(32);not null"`
	Details   string   `gorm:"type:text"`
	Project   *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
