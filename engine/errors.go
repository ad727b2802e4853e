package engine

import "errors"

var (
	ErrAlreadyStarted = errors.New("engine already started")
	ErrNotStarted     = errors.New("engine not started")
	ErrTerminated     = errors.New("engine terminated")
)
