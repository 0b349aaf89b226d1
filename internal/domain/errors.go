package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrSessionNotFound = errors.New("session not found")
)

// TransitionError is returned when the current state declares no handler
// for the event kind.
type TransitionError struct {
	Event   EventKind
	Current State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// InvalidEventError is returned when an event payload does not match its kind.
type InvalidEventError struct {
	Kind   EventKind
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid %q event: %s", e.Kind, e.Reason)
}

// InvalidButtonError is returned for a label that is not on the calculator face.
type InvalidButtonError struct {
	Label string
}

func (e *InvalidButtonError) Error() string {
	return fmt.Sprintf("unknown button %q", e.Label)
}
