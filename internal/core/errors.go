package core

import "errors"

var (
	// ErrEmptyShape indicates a grid with no axes.
	ErrEmptyShape = errors.New("core: grid must have at least one axis")
	// ErrAxisSize indicates a non-positive axis length.
	ErrAxisSize = errors.New("core: axis length must be positive")
	// ErrWrapMismatch indicates the wrap flags do not match the number of axes.
	ErrWrapMismatch = errors.New("core: wrap flags must match the number of axes")
)
