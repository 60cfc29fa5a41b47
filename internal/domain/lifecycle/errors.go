package lifecycle

import (
	"errors"
	"fmt"
)

// Sentinel kinds for lifecycle errors.
var (
	// ErrNotFound signals that the application has no event stream.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidTransition signals a trigger that is not a legal outgoing
	// edge from the current state. Match with errors.Is; inspect details
	// with errors.As on *InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnknownTrigger signals a trigger name outside the closed
	// enumeration. Rejected before any write.
	ErrUnknownTrigger = errors.New("unknown trigger")

	// ErrCorruptStream signals a replayed stream whose versions are not a
	// gap-free ascending sequence. Indicates ledger damage, not user error.
	ErrCorruptStream = errors.New("corrupt event stream")
)

// InvalidTransitionError reports the rejected trigger together with the
// current state and its legal triggers, so the caller can self-correct.
type InvalidTransitionError struct {
	ApplicationID string
	Trigger       Trigger
	Current       Status
	Legal         []Trigger
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: trigger %q not allowed for application %s in state %q (legal: %v)",
		e.Trigger, e.ApplicationID, e.Current, e.Legal)
}

// Is lets errors.Is(err, ErrInvalidTransition) match the typed error.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func unknownTriggerError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTrigger, name)
}
