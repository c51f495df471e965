package forms

import (
	"github.com/yatube/yatube/internal/models"
)

// CommentForm carries the field of the add-comment form
type CommentForm struct {
	Text string `form:"text" validate:"required,nonblank"`

	Errors FieldErrors `form:"-" validate:"-"`
}

// NewCommentForm returns an empty comment form
func NewCommentForm() *CommentForm {
	return &CommentForm{Errors: FieldErrors{}}
}

// IsValid validates the bound text
func (f *CommentForm) IsValid() (bool, error) {
	f.Errors = FieldErrors{}
	if err := checkStruct(f, f.Errors); err != nil {
		return false, err
	}
	return f.Errors.Empty(), nil
}

// Save returns a comment holding the validated text; Author and Post are left for the caller
func (f *CommentForm) Save() *models.Comment {
	return &models.Comment{Text: f.Text}
}
