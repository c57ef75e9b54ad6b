package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone number already registered")
	ErrDuplicate  = errors.New("duplicate record")
	ErrInvalid    = errors.New("invalid input")
)
