package commission

import "errors"

var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrInvalidMonth    = errors.New("month must be in YYYY-MM format")
)

// Reasons a receipt does not earn a renewal commission. They are reported to
// the caller, not returned as errors.
const (
	ReasonCancelled     = "receipt is cancelled"
	ReasonNotRenewal    = "receipt is not an eligible renewal"
	ReasonNoStaff       = "no staff member matches the receipt"
	ReasonNotSalesStaff = "staff member is not sales staff"
	ReasonNoRate        = "no bonus rate for renewal type"
)
