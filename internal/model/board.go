package model

type BoardItemType string

const (
	BoardLink  BoardItemType = "link"
	BoardPhoto BoardItemType = "photo"
	BoardNote  BoardItemType = "note"
)

// DesignBoardItem is the stored form of every board variant. Which columns are
// meaningful depends on ItemType; see board.Item for the typed view.
type DesignBoardItem struct {
	Model
	ProjectID string        `gorm:"type:varchar(36);index;not null"`
	ItemType  BoardItemType `gorm:"type:varchar(8);not null;check:item_type IN ('link','photo','note')"`
	Title     string        `gorm:"type:varchar(255)"`
	Content   string        `gorm:"type:text"`
	URL       string        `gorm:"column:url;type:varchar(2048)"`
	FilePath  string        `gorm:"type:varchar(255)"`
	AddedBy   *string       `gorm:"type:varchar(36)"`
	Project   *Project      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type DesignBoardComment struct {
	Model
	BoardItemID string           `gorm:"type:varchar(36);index;not null"`
	UserID      string           `gorm:"type:varchar(36);not null"`
	CommentText string           `gorm:"type:text;not null"`
	BoardItem   *DesignBoardItem `gorm:"foreignKey:BoardItemID;constraint:OnDelete:CASCADE" json:"-"`
}
