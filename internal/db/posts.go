package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yatube/yatube/internal/models"
)

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	AuthorID int64
	GroupID  int64
	// FollowerID restricts posts to authors followed by this user
	FollowerID int64
}

func (f PostFilter) apply(query *gorm.DB) *gorm.DB {
	if f.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.GroupID != 0 {
		query = query.Where("posts.group_id = ?", f.GroupID)
	}
	if f.FollowerID != 0 {
		query = query.Where("posts.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)", f.FollowerID)
	}
	return query
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID with its author and group
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Count counts posts matching filter
func (r *PostRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Post{}))
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns limit posts matching filter starting at offset, newest first
func (r *PostRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	query := filter.apply(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit)
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create creates a new post; PubDate is stamped here when unset
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.PubDate.IsZero() {
		post.PubDate = r.db.NowFunc()
	}
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

// Update stores the editable fields of a post. Author and PubDate are never written.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Select("Text", "GroupID", "Image").
		Updates(post).Error
}
