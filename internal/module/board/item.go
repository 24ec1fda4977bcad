package board

import (
	"fmt"

	"homeforge/internal/model"
)

// Item is one design board entry. The set of implementations is closed: Link, Note and Photo.
type Item interface {
	Type() model.BoardItemType
	isItem()
}

type Link struct {
	URL     string
	Title   string
	Content string
}

type Note struct {
	Title   string
	Content string
}

type Photo struct {
	Key     string // storage key
	Title   string
	Content string
}

func (Link) Type() model.BoardItemType  { return model.BoardLink }
func (Note) Type() model.BoardItemType  { return model.BoardNote }
func (Photo) Type() model.BoardItemType { return model.BoardPhoto }

func (Link) isItem()  {}
func (Note) isItem()  {}
func (Photo) isItem() {}

// ToRow flattens item into the shared table layout.
func ToRow(projectID string, addedBy *string, item Item) model.DesignBoardItem {
	row := model.DesignBoardItem{ProjectID: projectID, ItemType: item.Type(), AddedBy: addedBy}
	switch it := item.(type) {
	case Link:
		row.URL, row.Title, row.Content = it.URL, it.Title, it.Content
	case Note:
		row.Title, row.Content = it.Title, it.Content
	case Photo:
		row.FilePath, row.Title, row.Content = it.Key, it.Title, it.Content
	}
	return row
}

// FromRow reads the variant back, ignoring columns that do not belong to it.
func FromRow(row model.DesignBoardItem) (Item, error) {
	switch row.ItemType {
	case model.BoardLink:
		return Link{URL: row.URL, Title: row.Title, Content: row.Content}, nil
	case model.BoardNote:
		return Note{Title: row.Title, Content: row.Content}, nil
	case model.BoardPhoto:
		return Photo{Key: row.FilePath, Title: row.Title, Content: row.Content}, nil
	}
	return nil, fmt.Errorf("unknown board item type %q", row.ItemType)
}
