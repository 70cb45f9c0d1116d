package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already in use")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffAlreadyLinked = errors.New("staff member already has a login")
	ErrInvalidUsername    = errors.New("username must be 3 to 64 characters")
)
