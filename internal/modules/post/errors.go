package post

import (
	"errors"
	"strings"

	"blogapp/internal/pkg/validator"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrImageRequired  = errors.New("image is required")
	ErrPostNotFound   = errors.New("post not found")
	ErrForbidden      = errors.New("unauthorized action")
	ErrAuthorNotFound = errors.New("author not found")
	ErrImageUpload    = errors.New("image upload failed")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields []validator.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
