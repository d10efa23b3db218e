package domain

import "fmt"

// CheckStatus is the outcome of one diagnostic check.
type CheckStatus int

// Check outcomes.
const (
	CheckPass CheckStatus = iota
	CheckWarn
	CheckFail
)

// String returns the string representation.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the one-character marker used in text output.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return "+"
	case CheckWarn:
		return "~"
	case CheckFail:
		return "x"
	default:
		return "?"
	}
}

// MarshalText encodes the status as its lowercase name.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *CheckStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*s = CheckPass
	case "warn":
		*s = CheckWarn
	case "fail":
		*s = CheckFail
	default:
		return fmt.Errorf("%w: check status %q", ErrInvalidInput, text)
	}
	return nil
}

// Check is one diagnostic result.
type Check struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// Healthy reports whether no check failed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return true
}
