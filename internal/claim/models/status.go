package models

// Status is the lifecycle state of a claim.
//
// Transitions are monotonic: a claim never re-enters Pending, and the
// three terminal states absorb.
//
//	Pending  → Repaying | Paid | Rejected | Rescinded
//	Repaying → Paid | Rejected | Rescinded
//	Paid, Rejected, Rescinded → (terminal)
type Status string

const (
	StatusPending   Status = "pending"
	StatusRepaying  Status = "repaying"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
	StatusRescinded Status = "rescinded"
)

var statusTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusRepaying:  true,
		StatusPaid:      true,
		StatusRejected:  true,
		StatusRescinded: true,
	},
	StatusRepaying: {
		StatusPaid:      true,
		StatusRejected:  true,
		StatusRescinded: true,
	},
	StatusPaid:      {},
	StatusRejected:  {},
	StatusRescinded: {},
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	return statusTransitions[s][next]
}

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.IsValid()
}

// Payable reports whether a claim in this status accepts payments.
func (s Status) Payable() bool {
	return s == StatusPending || s == StatusRepaying
}

func (s Status) String() string { return string(s) }
