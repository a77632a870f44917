package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrAmbiguous             = errors.New("ambiguous identity")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
