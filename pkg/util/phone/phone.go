// Package phone normalises subscriber and staff phone numbers to E.164.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalid = errors.New("invalid phone number for the specified region")

// Normalize parses raw in the given default region (e.g. "EG") and returns
// it in E.164 form. Numbers written with a leading + or 00 keep their own
// country code.
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalid
	}
	if strings.HasPrefix(raw, "00") {
		raw = "+" + raw[2:]
	}

	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeOptional is Normalize for nullable columns: nil and blank map to nil.
func NormalizeOptional(raw *string, region string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	n, err := Normalize(*raw, region)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
