package domain

import "time"

// AccountTransition names a lifecycle change recorded in the audit trail.
type AccountTransition string

const (
	TransitionRegistered  AccountTransition = "registered"
	TransitionActivated   AccountTransition = "activated"
	TransitionDeactivated AccountTransition = "deactivated"
)

// AccountEvent is an audit record of a lifecycle transition.
type AccountEvent struct {
	PersonID   string
	AccountID  string
	Transition AccountTransition
	OccurredAt time.Time
}
