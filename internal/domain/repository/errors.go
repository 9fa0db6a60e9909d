package repository

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrOutOfRange is a numeric value the store cannot hold.
	ErrOutOfRange = errors.New("value out of range")
)
