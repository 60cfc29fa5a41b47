// Package lifecycle models the application aggregate and its guarded state
// transitions. Current state is never stored directly; it is always derived
// by replaying the aggregate's event stream.
package lifecycle

import "sort"

// Status is an application's lifecycle state.
type Status string

// Application states. Draft is initial; rejected, completed and cancelled
// are terminal.
const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Trigger is a closed enumeration of transition requests.
type Trigger string

// Transition triggers.
const (
	TriggerSubmit   Trigger = "submit"
	TriggerReview   Trigger = "review"
	TriggerReject   Trigger = "reject"
	TriggerAccept   Trigger = "accept"
	TriggerComplete Trigger = "complete"
	TriggerCancel   Trigger = "cancel"
)

// Effect is a post-commit side effect owed to an external collaborator.
// Delivery is best-effort and happens only after the event is durable.
type Effect string

// Side effects attached to transitions.
const (
	EffectNotifyOrganization Effect = "notify-organization"
	EffectNotifyVolunteer    Effect = "notify-volunteer"
	EffectReserveCapacity    Effect = "reserve-capacity"
	EffectReleaseCapacity    Effect = "release-capacity"
	EffectAwardPoints        Effect = "award-points"
	EffectIssueCertificate   Effect = "issue-certificate"
	EffectRecordHours        Effect = "record-hours"
)

// AggregateType is the ledger aggregate type for applications.
const AggregateType = "application"

// Event types, one per trigger. The type names the state entered.
const (
	EventSubmitted = "application.submitted"
	EventReviewing = "application.reviewing"
	EventRejected  = "application.rejected"
	EventAccepted  = "application.accepted"
	EventCompleted = "application.completed"
	EventCancelled = "application.cancelled"
)

// EventTypes lists every application event type, for projection rebuilds.
var EventTypes = []string{
	EventSubmitted,
	EventReviewing,
	EventRejected,
	EventAccepted,
	EventCompleted,
	EventCancelled,
}

// rule is one row of the transition table.
type rule struct {
	from      []Status
	to        Status
	eventType string
	effects   []Effect
}

// transitions is the static transition table. The only guard in this core
// is "trigger is a valid outgoing edge from the current state"; any
// data-dependent checks belong to the caller.
var transitions = map[Trigger]rule{
	TriggerSubmit: {
		from:      []Status{StatusDraft},
		to:        StatusSubmitted,
		eventType: EventSubmitted,
		effects:   []Effect{EffectNotifyOrganization},
	},
	TriggerReview: {
		from:      []Status{StatusSubmitted},
		to:        StatusReviewing,
		eventType: EventReviewing,
	},
	TriggerReject: {
		from:      []Status{StatusSubmitted, StatusReviewing},
		to:        StatusRejected,
		eventType: EventRejected,
		effects:   []Effect{EffectNotifyVolunteer},
	},
	TriggerAccept: {
		from:      []Status{StatusReviewing},
		to:        StatusAccepted,
		eventType: EventAccepted,
		effects:   []Effect{EffectNotifyVolunteer, EffectReserveCapacity},
	},
	TriggerComplete: {
		from:      []Status{StatusAccepted},
		to:        StatusCompleted,
		eventType: EventCompleted,
		effects:   []Effect{EffectAwardPoints, EffectIssueCertificate, EffectReleaseCapacity, EffectRecordHours},
	},
	TriggerCancel: {
		from:      []Status{StatusAccepted},
		to:        StatusCancelled,
		eventType: EventCancelled,
		effects:   []Effect{EffectReleaseCapacity, EffectNotifyOrganization},
	},
}

// ParseTrigger maps a caller-supplied trigger name onto the closed
// enumeration. Unknown names fail with ErrUnknownTrigger before anything is
// written.
func ParseTrigger(name string) (Trigger, error) {
	t := Trigger(name)
	if _, ok := transitions[t]; !ok {
		return "", unknownTriggerError(name)
	}
	return t, nil
}

// LegalTriggers returns the triggers valid from the given status, sorted
// for deterministic error messages. Terminal states return an empty slice.
func LegalTriggers(s Status) []Trigger {
	var out []Trigger
	for trigger, r := range transitions {
		for _, from := range r.from {
			if from == s {
				out = append(out, trigger)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(LegalTriggers(s)) == 0 && (s == StatusRejected || s == StatusCompleted || s == StatusCancelled)
}
