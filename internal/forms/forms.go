// Package forms validates user-submitted field sets before they reach the
// store. Validation failures are reported as FieldErrors, never as Go errors;
// a returned error always means the validation itself could not run.
package forms

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field-level messages shown next to form inputs
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgEmptyFile     = "The submitted file is empty."
	MsgTooLong       = "Ensure this value has fewer characters."
)

// FieldErrors maps a form field name to its validation messages
type FieldErrors map[string][]string

// Add records a message for field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the messages recorded for field
func (e FieldErrors) Get(field string) []string {
	return e[field]
}

// Has reports whether field has any messages
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether no messages were recorded
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// "required" alone accepts whitespace-only text
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// checkStruct runs the struct tag rules of form and records failures in errs
func checkStruct(form interface{}, errs FieldErrors) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "nonblank":
		return MsgRequired
	case "numeric":
		return MsgInvalidChoice
	case "max":
		return MsgTooLong
	default:
		return fe.Error()
	}
}
