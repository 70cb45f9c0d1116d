package receipt

import "errors"

var (
	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrAlreadyCancelled    = errors.New("receipt is already cancelled")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidRenewalType  = errors.New("invalid renewal type")
	ErrRenewalTypeMismatch = errors.New("renewal type is only allowed on renewal receipts")
	ErrMemberNotFound      = errors.New("member not found")
	ErrReasonRequired      = errors.New("cancel reason is required")
)
