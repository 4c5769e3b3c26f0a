package domain

import "time"

type PlanStatus string

const (
	PlanStatusPending   PlanStatus = "pending"
	PlanStatusApproved  PlanStatus = "approved"
	PlanStatusRejected  PlanStatus = "rejected"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s PlanStatus) Terminal() bool {
	return s == PlanStatusApproved || s == PlanStatusRejected || s == PlanStatusCancelled
}

const (
	MotivationMinLen = 4
	MotivationMaxLen = 255
	VehicleIDLen     = 10
)

// PlanRequest is a permit request for a drone flight inside the shared
// airspace. Plans are never physically deleted; cancellation and rejection
// are logical states.
type PlanRequest struct {
	ID          int64      `json:"id"`
	OwnerEmail  string     `json:"owner_email"`
	Status      PlanStatus `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	WindowStart time.Time  `json:"window_start"`
	WindowEnd   time.Time  `json:"window_end"`
	VehicleID   string     `json:"vehicle_id"`
	Route       Route      `json:"route"`
	Motivation  string     `json:"motivation,omitempty"` // set only on rejection
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

type ReviewDecision string

const (
	ReviewApprove ReviewDecision = "approve"
	ReviewReject  ReviewDecision = "reject"
)

// ReviewOutcome validates a review request against the lifecycle rules and
// returns the target status. The reviewer must not be the owner, the plan
// must still be pending, a rejection carries a motivation of 4-255 characters
// and an approval carries none.
func (p *PlanRequest) ReviewOutcome(reviewer string, decision ReviewDecision, motivation string) (PlanStatus, error) {
	if reviewer == p.OwnerEmail {
		return "", ErrForbiddenOwnership
	}
	if p.Status != PlanStatusPending {
		return "", ErrForbiddenTransition
	}
	switch decision {
	case ReviewApprove:
		if motivation != "" {
			return "", ErrForbiddenTransition
		}
		return PlanStatusApproved, nil
	case ReviewReject:
		if n := len(motivation); n < MotivationMinLen || n > MotivationMaxLen {
			return "", ErrForbiddenTransition
		}
		return PlanStatusRejected, nil
	default:
		return "", ErrForbiddenTransition
	}
}

// CancelBy validates the owner-cancel transition: only the owning account,
// only while the plan is still pending.
func (p *PlanRequest) CancelBy(owner string) error {
	if owner != p.OwnerEmail {
		return ErrForbiddenOwnership
	}
	if p.Status != PlanStatusPending {
		return ErrForbiddenTransition
	}
	return nil
}

// ValidVehicleID reports whether s is a fixed-length alphanumeric vehicle token.
func ValidVehicleID(s string) bool {
	if len(s) != VehicleIDLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
