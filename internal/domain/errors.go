package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateISBN   = errors.New("isbn already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotAvailable    = errors.New("book is not available")
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	ErrAlreadyReturned = errors.New("book already returned")
)
