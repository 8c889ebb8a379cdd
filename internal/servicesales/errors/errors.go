package errors

import "errors"

var (
	ErrNotFound = errors.New("service sale not found")

	ErrInvalidID = errors.New("invalid service sale ID format")
)
