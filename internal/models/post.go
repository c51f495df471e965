package models

import (
	"database/sql"
	"time"
)

// PostPreviewLength is the number of characters of text shown by Post.String
const PostPreviewLength = 15

// Post represents a single authored piece of content
type Post struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Text     string        `gorm:"type:text;not null;column:text"`
	PubDate  time.Time     `gorm:"not null;index:posts_pub_date_idx,sort:desc;column:pub_date"`
	AuthorID int64         `gorm:"not null;index:posts_author_idx;column:author_id"`
	GroupID  sql.NullInt64 `gorm:"index:posts_group_idx;column:group_id"`
	// Image is a path relative to the media root, e.g. "posts/<name>.gif"
	Image string `gorm:"type:varchar(100);not null;default:'';column:image"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

func (p Post) String() string {
	return Truncate(p.Text, PostPreviewLength)
}

// HasGroup reports whether the post is attached to a group
func (p *Post) HasGroup() bool {
	return p.GroupID.Valid
}

// SetGroup attaches the post to the group with the given id; zero detaches it
func (p *Post) SetGroup(id int64) {
	if id == 0 {
		p.GroupID = sql.NullInt64{}
		p.Group = nil
		return
	}
	p.GroupID = sql.NullInt64{Int64: id, Valid: true}
}
