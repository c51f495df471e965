package models

import (
	"database/sql"
	"time"
)

// CommentPreviewLength is the number of characters of text shown by Comment.String
const CommentPreviewLength = 30

// Comment represents a reply attached to a post
type Comment struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID   sql.NullInt64 `gorm:"index:comments_post_idx;column:post_id"`
	AuthorID int64         `gorm:"not null;column:author_id"`
	Text     string        `gorm:"type:text;not null;column:text"`
	Created  time.Time     `gorm:"not null;column:created"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

func (c Comment) String() string {
	return Truncate(c.Text, CommentPreviewLength)
}
