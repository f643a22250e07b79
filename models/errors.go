package models

import "errors"

var (
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidPage      = errors.New("page and limit must be positive")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)
