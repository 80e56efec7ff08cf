package dates

import (
	"errors"
	"fmt"
)

// ErrInvalidDateFormat is matched with errors.Is by callers that fall back
// to another date source or ask the traveler for dates.
var ErrInvalidDateFormat = errors.New("invalid date format")

// FormatError carries the raw value that could not be normalized.
type FormatError struct {
	Raw    interface{}
	Reason string
}

func newFormatError(raw interface{}, reason string) *FormatError {
	return &FormatError{Raw: raw, Reason: reason}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date format %q: %s", fmt.Sprint(e.Raw), e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidDateFormat
}
