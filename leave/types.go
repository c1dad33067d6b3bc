/*
Package leave implements the leave-request lifecycle.

PURPOSE:
  This is the core of the portal: an in-memory collection of leave
  requests, the workflow that creates them and routes manager decisions,
  and the usage statistics derived from the collection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request: A single leave request with its status state machine
  - Type: vacation, sick or personal leave
  - Status: pending -> approved | rejected (both terminal)

OWNERSHIP:
  The Store (store.go) exclusively owns the request collection for the
  lifetime of the process. All consumers read snapshots and submit
  mutations back through the Store; nothing holds a mutable alias.

SEE ALSO:
  - store.go: The in-memory collection
  - workflow.go: Submit/decide orchestration and calendar side effects
  - stats.go: Used-days aggregation against quotas
*/
package leave

import "time"

// =============================================================================
// LEAVE TYPE
// =============================================================================

type Type string

const (
	TypeVacation Type = "vacation"
	TypeSick     Type = "sick"
	TypePersonal Type = "personal"
)

// Types lists all leave types in display order.
var Types = []Type{TypeVacation, TypeSick, TypePersonal}

// Valid reports whether t is a known leave type.
func (t Type) Valid() bool {
	switch t {
	case TypeVacation, TypeSick, TypePersonal:
		return true
	}
	return false
}

// =============================================================================
// STATUS STATE MACHINE
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// =============================================================================
// REQUEST
// =============================================================================

// Request is a single leave request. ID, UserID, the date range, Type and
// Notes are fixed at creation; only Status changes, and only once.
type Request struct {
	ID        string
	UserID    string
	StartDate time.Time // inclusive
	EndDate   time.Time // inclusive
	Type      Type
	Status    Status
	Notes     string
	CreatedAt time.Time
	DecidedBy string // actor of the approve/reject decision, empty while pending
}
