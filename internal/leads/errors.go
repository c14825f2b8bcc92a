package leads

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRiskRejected is returned when the risk assessor classifies the
	// submission as automated traffic (or could not assess it at all).
	ErrRiskRejected = errors.New("reCAPTCHA verification failed")

	// ErrDuplicateSubmission is returned when the same contact already
	// submitted within the duplicate window.
	ErrDuplicateSubmission = errors.New("duplicate submission within window")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)

// FieldError names a single offending field. At most one error is reported
// per field; the first rule violated wins.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field messages for a rejected submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the offending field names in report order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}
