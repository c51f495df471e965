package forms

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/yatube/yatube/internal/models"
)

// GroupLookup resolves group ids submitted with a post
type GroupLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
}

// ImageSaver stores an uploaded post image under the given extension and
// returns its media-relative path
type ImageSaver interface {
	SavePostImage(ext string, data []byte) (string, error)
}

// PostForm carries the fields of the post create and edit pages
type PostForm struct {
	Text  string  `form:"text" validate:"required,nonblank"`
	Group string  `form:"group" validate:"omitempty,numeric"`
	Image *Upload `form:"image" validate:"-"`

	Errors FieldErrors `form:"-" validate:"-"`

	group *models.Group
	// imageExt is the extension of the sniffed image type; the client
	// filename is never trusted
	imageExt string
}

// NewPostForm returns an unbound form prefilled from post, or empty for nil
func NewPostForm(post *models.Post) *PostForm {
	f := &PostForm{Errors: FieldErrors{}}
	if post != nil {
		f.Text = post.Text
		if post.HasGroup() {
			f.Group = strconv.FormatInt(post.GroupID.Int64, 10)
		}
	}
	return f
}

// GroupID returns the submitted group id, or 0 when none was chosen
func (f *PostForm) GroupID() int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(f.Group), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// IsValid validates the bound fields against groups. Field problems are
// recorded in f.Errors.
func (f *PostForm) IsValid(ctx context.Context, groups GroupLookup) (bool, error) {
	f.Errors = FieldErrors{}
	f.group = nil
	f.imageExt = ""

	if err := checkStruct(f, f.Errors); err != nil {
		return false, err
	}

	if !f.Errors.Has("group") && strings.TrimSpace(f.Group) != "" {
		group, err := groups.GetByID(ctx, f.GroupID())
		if err != nil {
			return false, err
		}
		if group == nil {
			f.Errors.Add("group", MsgInvalidChoice)
		}
		f.group = group
	}

	if f.Image != nil {
		mt, err := checkImage(f.Image.Data)
		switch {
		case errors.Is(err, ErrEmptyFile):
			f.Errors.Add("image", MsgEmptyFile)
		case err != nil:
			f.Errors.Add("image", MsgInvalidImage)
		default:
			f.imageExt = mt.Extension()
		}
	}

	return f.Errors.Empty(), nil
}

// Save applies the validated fields to instance, or to a new post when
// instance is nil, storing the image if one was uploaded. Author and PubDate
// are left for the caller.
func (f *PostForm) Save(images ImageSaver, instance *models.Post) (*models.Post, error) {
	post := instance
	if post == nil {
		post = &models.Post{}
	}

	post.Text = f.Text
	if f.group != nil {
		post.SetGroup(f.group.ID)
		post.Group = f.group
	} else {
		post.SetGroup(0)
	}

	if f.Image != nil {
		if f.imageExt == "" {
			return nil, ErrNotImage
		}
		path, err := images.SavePostImage(f.imageExt, f.Image.Data)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	return post, nil
}
