package upload

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only .jpeg, .jpg, .png and .webp images are allowed")
	ErrEmptyFile       = errors.New("file is empty")
)
