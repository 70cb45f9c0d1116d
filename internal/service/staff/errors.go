package staff

import "errors"

var (
	ErrStaffNotFound = errors.New("staff member not found")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrNameRequired  = errors.New("name is required")
)
