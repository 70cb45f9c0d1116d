package settlement

import "errors"

var (
	ErrCoachNotFound = errors.New("coach not found")
	ErrMonthRequired = errors.New("month is required")
)
