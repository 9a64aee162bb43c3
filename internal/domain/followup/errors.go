package followup

import (
	"errors"
	"fmt"
)

// Errors returned by the follow-up engine. Handlers translate these into
// specific HTTP statuses; they are never wrapped into a generic failure.
var (
	ErrNotFound         = errors.New("follow-up not found")
	ErrUnauthorized     = errors.New("actor is not the owning adopter")
	ErrAlreadyCompleted = errors.New("follow-up has already been completed or skipped")
	ErrScheduleExists   = errors.New("a follow-up schedule already exists for this adoption")
)

// ValidationError reports a malformed questionnaire payload. It is raised
// before any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}
