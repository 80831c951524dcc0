package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid login or password")
	ErrTokenInvalid        = errors.New("could not validate credentials")
	ErrInsufficientScope   = errors.New("not enough permissions")
	ErrSessionSuperseded   = errors.New("session expired")
	ErrDuplicateUser       = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbiddenSelfDelete = errors.New("you cannot delete your own account")
	ErrForbiddenRootDelete = errors.New("root administrator cannot be deleted")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
)
