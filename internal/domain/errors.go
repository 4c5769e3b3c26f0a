package domain

import "errors"

// Failure kinds raised by the core services. Handlers map these to transport
// status codes; nothing below the api layer knows about HTTP.
var (
	ErrInsufficientCredit    = errors.New("insufficient credit")
	ErrInvalidLeadTime       = errors.New("window start is too close to submission time")
	ErrForbiddenArea         = errors.New("route crosses an active no-fly zone")
	ErrTemporalConflict      = errors.New("window overlaps another plan of the same account")
	ErrZoneConflict          = errors.New("region overlaps an existing no-fly zone")
	ErrZoneNotFound          = errors.New("no-fly zone not found")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrForbiddenTransition   = errors.New("status transition not permitted")
	ErrForbiddenOwnership    = errors.New("account does not own this resource")
	ErrInvalidValidity       = errors.New("validity bounds must both be set or both be empty")
	ErrInternalInconsistency = errors.New("persisted state is inconsistent")
)
