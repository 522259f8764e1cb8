package domain

import (
	"time"
)

// AccessStatus is the state of an access request in the approval workflow.
type AccessStatus string

// Access request states.
const (
	AccessStatusPending  AccessStatus = "pending"
	AccessStatusApproved AccessStatus = "approved"
	AccessStatusDeclined AccessStatus = "declined"
)

// Valid reports whether the status is one of the defined states.
func (s AccessStatus) Valid() bool {
	switch s {
	case AccessStatusPending, AccessStatusApproved, AccessStatusDeclined:
		return true
	}
	return false
}

// transitions enumerates the defined edges of the approval workflow:
//
//	pending  -> approved   (approve)
//	pending  -> declined   (decline)
//	declined -> pending    (re-request)
//
// Everything else is rejected; in particular declined is never reachable
// from approved.
var transitions = map[AccessStatus][]AccessStatus{
	AccessStatusPending:  {AccessStatusApproved, AccessStatusDeclined},
	AccessStatusDeclined: {AccessStatusPending},
	AccessStatusApproved: {},
}

// CanTransition reports whether the edge from -> to is defined.
func CanTransition(from, to AccessStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AccessRequest is one subject's approval workflow record for one course.
// At most one record exists per (student, course) pair; re-requesting after
// a decline reuses the same record.
type AccessRequest struct {
	ID        string       `json:"id"`
	StudentID string       `json:"student_id"`
	CourseID  string       `json:"course_id"`
	Status    AccessStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Transition moves the request to the given status, rejecting undefined
// edges with ErrInvalidState.
func (r *AccessRequest) Transition(to AccessStatus) error {
	if !CanTransition(r.Status, to) {
		return ErrInvalidState
	}
	r.Status = to
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Deletable reports whether the record may be removed. Only declined
// requests are cleanup candidates; pending and approved records are history
// the ledger keeps.
func (r *AccessRequest) Deletable() bool {
	return r.Status == AccessStatusDeclined
}
