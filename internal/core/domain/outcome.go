// internal/core/domain/outcome.go
package domain

import "fmt"

// Status is the result class of a ledger operation.
type Status int

const (
	StatusApplied Status = iota
	// StatusSkipped means nothing changed, usually because the target does not exist.
	StatusSkipped
	// StatusRejected means the input failed validation.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusSkipped:
		return "skipped"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome describes what an operation did.
type Outcome struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func Applied(reason string) Outcome  { return Outcome{Status: StatusApplied, Reason: reason} }
func Skipped(reason string) Outcome  { return Outcome{Status: StatusSkipped, Reason: reason} }
func Rejected(reason string) Outcome { return Outcome{Status: StatusRejected, Reason: reason} }

func (o Outcome) IsApplied() bool { return o.Status == StatusApplied }
