package resolve

import "fmt"

// Status is the outcome assigned to a classified pair.
type Status int

const (
	StatusMatch Status = iota
	StatusMissingKey
	StatusLowConfidence
	StatusConflictingAttributes
	StatusNeedsNameReview
)

var statusNames = [...]string{
	StatusMatch:                 "MATCH",
	StatusMissingKey:            "MISSING_KEY",
	StatusLowConfidence:         "LOW_CONFIDENCE",
	StatusConflictingAttributes: "CONFLICTING_ATTRIBUTES",
	StatusNeedsNameReview:       "NEEDS_NAME_REVIEW",
}

// Codes written by the legacy job; downstream log consumers filter on the "Q" prefix.
var statusCodes = [...]string{
	StatusMatch:                 "OK",
	StatusMissingKey:            "Q001",
	StatusLowConfidence:         "Q002",
	StatusConflictingAttributes: "Q006",
	StatusNeedsNameReview:       "VALIDAR_NOMES",
}

// Statuses lists every status in rule order.
func Statuses() []Status {
	return []Status{StatusMissingKey, StatusMatch, StatusLowConfidence, StatusConflictingAttributes, StatusNeedsNameReview}
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Code returns the legacy status code.
func (s Status) Code() string {
	if s < 0 || int(s) >= len(statusCodes) {
		return ""
	}
	return statusCodes[s]
}

// Logged reports whether pairs with this status belong in the diagnostic log.
func (s Status) Logged() bool {
	switch s {
	case StatusMissingKey, StatusLowConfidence, StatusConflictingAttributes:
		return true
	}
	return false
}

// ParseStatus maps a status name or legacy code back to a Status.
func ParseStatus(v string) (Status, error) {
	for i := range statusNames {
		if statusNames[i] == v || statusCodes[i] == v {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", v)
}
