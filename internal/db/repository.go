package db

import (
	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Repositories bundles one repository per entity over a shared connection
type Repositories struct {
	Users    *UserRepository
	Groups   *GroupRepository
	Posts    *PostRepository
	Comments *CommentRepository
	Follows  *FollowRepository
}

// NewRepositories creates every entity repository on top of database
func NewRepositories(database *gorm.DB) *Repositories {
	repo := NewRepository(database)
	return &Repositories{
		Users:    NewUserRepository(repo),
		Groups:   NewGroupRepository(repo),
		Posts:    NewPostRepository(repo),
		Comments: NewCommentRepository(repo),
		Follows:  NewFollowRepository(repo),
	}
}
