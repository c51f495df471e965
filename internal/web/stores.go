package web

import (
	"context"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

// UserStore is the user persistence used by the web layer
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// GroupStore is the group persistence used by the web layer
type GroupStore interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
}

// PostStore is the post persistence used by the web layer
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Count(ctx context.Context, filter db.PostFilter) (int64, error)
	List(ctx context.Context, filter db.PostFilter, offset, limit int) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
}

// CommentStore is the comment persistence used by the web layer
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
}

// FollowStore is the follow persistence used by the web layer
type FollowStore interface {
	Follow(ctx context.Context, userID, authorID int64) (bool, error)
	Unfollow(ctx context.Context, userID, authorID int64) (bool, error)
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
}

// Stores groups the persistence the handlers depend on
type Stores struct {
	Users    UserStore
	Groups   GroupStore
	Posts    PostStore
	Comments CommentStore
	Follows  FollowStore
}

// NewStores adapts the gorm repositories
func NewStores(repos *db.Repositories) Stores {
	return Stores{
		Users:    repos.Users,
		Groups:   repos.Groups,
		Posts:    repos.Posts,
		Comments: repos.Comments,
		Follows:  repos.Follows,
	}
}
