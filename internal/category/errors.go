package category

import "errors"

var (
	ErrNotFound    = errors.New("category not found")
	ErrNameTaken   = errors.New("category name already in use")
	ErrMissingName = errors.New("category name is required")
	ErrInvalidType = errors.New("category type must be income or expense")
)
