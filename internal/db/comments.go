package db

import (
	"context"

	"github.com/yatube/yatube/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create creates a new comment; Created is stamped here when unset
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.Created.IsZero() {
		comment.Created = r.db.NowFunc()
	}
	return r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error
}

// ListByPost returns the comments of a post in insertion order
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
