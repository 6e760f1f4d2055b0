package recovery

import (
	"errors"
	"fmt"

	"cleansteps/internal/storage"
)

// ErrNotFound is returned when a requested addiction, milestone, savings
// entry or goal does not exist.
var ErrNotFound = storage.ErrNotFound

// ValidationError reports a record that violates a model constraint, such as
// a negative savings amount or meeting count. It is returned at construction
// or mutation time and leaves the record unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DecodeError indicates serialized goal bytes could not be turned into a goal.
// GoalType is the discriminator as read from the payload (possibly empty) and
// Field names the offending field when one is known.
type DecodeError struct {
	GoalType string
	Field    string
	Reason   string
	Err      error
}

func (e DecodeError) Error() string {
	msg := "decode goal"
	if e.GoalType != "" {
		msg += " " + e.GoalType
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de DecodeError
	return errors.As(err, &de)
}

// GoalLoadError describes one stored goal that could not be loaded. Index is
// the goal's position within its milestone. GoalID is filled in when the
// storage layer knows it.
type GoalLoadError struct {
	Index  int
	GoalID string
	Err    error
}

func (e GoalLoadError) Error() string {
	return fmt.Sprintf("goal #%d could not be loaded: %v", e.Index, e.Err)
}

func (e GoalLoadError) Unwrap() error { return e.Err }
