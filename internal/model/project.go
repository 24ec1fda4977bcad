package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusAlmostDone Status = "almost_done"
	StatusComplete   Status = "complete"
)

type Project struct {
	Model
	Title           string    `gorm:"type:varchar(200);not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	SpaceID         *string   `gorm:"type:varchar(36);index" json:"spaceId"`
	Priority        Priority  `gorm:"type:varchar(16);not null;default:'medium';check:priority IN ('low','medium','high','urgent')" json:"priority"`
	Status          Status    `gorm:"type:varchar(16);not null;default:'not_started';check:status IN ('not_started','planning','in_progress','almost_done','complete')" json:"status"`
	AssignedTo      *string   `gorm:"type:varchar(36);index" json:"assignedTo"`
	EstimatedBudget float64   `gorm:"not null;default:0;check:estimated_budget >= 0" json:"estimatedBudget"`
	SpentBudget     float64   `gorm:"not null;default:0;check:spent_budget >= 0" json:"spentBudget"`
	TimeEstimate    string    `gorm:"type:varchar(50)" json:"timeEstimate"`
	DueDate         *string   `gorm:"type:varchar(10)" json:"dueDate"`
	CreatedBy       *string   `gorm:"type:varchar(36)" json:"createdBy"`
	UpdatedAt       time.Time `gorm:"index" json:"updatedAt"`
	Space           *Space    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type ProjectTag struct {
	Model
	ProjectID string   `gorm:"type:varchar(36);index;not null"`
	TagName   string   `gorm:"type:varchar(100);not null"`
	Project   *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type PhotoType string

const (
	PhotoBefore      PhotoType = "before"
	PhotoDuring      PhotoType = "during"
	PhotoAfter       PhotoType = "after"
	PhotoInspiration PhotoType = "inspiration"
	PhotoGeneral     PhotoType = "general"
)

type ProjectPhoto struct {
	Model
	ProjectID  string    `gorm:"type:varchar(36);index;not null"`
	FilePath   string    `gorm:"type:varchar(255);not null"` // storage key
	Caption    string    `gorm:"type:varchar(255)"`
	PhotoType  PhotoType `gorm:"type:varchar(16);not null;default:'general';check:photo_type IN ('before','during','after','inspiration','general')"`
	UploadedBy *string   `gorm:"type:varchar(36)"`
	Project    *Project  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ProjectComment struct {
	Model
	ProjectID   string   `gorm:"type:varchar(36);index;not null"`
	UserID      string   `gorm:"type:varchar(36);not null"`
	CommentText string   `gorm:"type:text;not null"`
	Project     *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
