package member

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrPhoneAlreadyExists = errors.New("phone number is already in use")
	ErrCoachNotFound      = errors.New("coach not found")
	ErrInvalidDates       = errors.New("subscription end must not be before start")
	ErrNegativeCounter    = errors.New("session counters must not be negative")
)
