package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrForbidden       = errors.New("you are not allowed to access this resource")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBadFileType     = errors.New("only csv files are accepted")
	ErrBadCredentials  = errors.New("incorrect email or password")
)
