package renderer

import "errors"

var (
	ErrInvalidConfig     = errors.New("renderer: invalid config")
	ErrInvalidSettings   = errors.New("renderer: invalid render settings")
	ErrDimensionMismatch = errors.New("renderer: film dimensions differ")
	ErrAlreadyStarted    = errors.New("renderer: scheduler already started")
	ErrTerminated        = errors.New("renderer: scheduler terminated")
)
