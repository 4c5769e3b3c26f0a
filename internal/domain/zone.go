package domain

import "time"

// NoFlyZone is an operator-declared forbidden region. Both validity bounds
// empty means the zone is always in force; exactly one empty bound is invalid
// and is never persisted.
type NoFlyZone struct {
	ID            int64      `json:"id"`
	OperatorEmail string     `json:"operator_email"`
	Region        Rect       `json:"region"`
	ValidityStart *time.Time `json:"validity_start"`
	ValidityEnd   *time.Time `json:"validity_end"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}

// ValidAt reports whether the zone is in force at t.
func (z NoFlyZone) ValidAt(t time.Time) bool {
	if z.ValidityStart == nil || z.ValidityEnd == nil {
		return z.ValidityStart == nil && z.ValidityEnd == nil
	}
	return !t.Before(*z.ValidityStart) && !t.After(*z.ValidityEnd)
}

// ValidateValidity enforces the pairing rule on a validity window: both
// bounds empty, or both set with at least minGap between them.
func ValidateValidity(start, end *time.Time, minGap time.Duration) error {
	switch {
	case start == nil && end == nil:
		return nil
	case start == nil || end == nil:
		return ErrInvalidValidity
	case end.Sub(*start) < minGap:
		return ErrInvalidValidity
	}
	return nil
}

// RouteIntersectsAny reports whether any route vertex lies inside a zone that
// is in force at the given time. Only the listed vertices are tested; a
// segment clipping a zone between two vertices is not detected.
func RouteIntersectsAny(route Route, zones []NoFlyZone, at time.Time) bool {
	for _, z := range zones {
		if !z.ValidAt(at) {
			continue
		}
		for _, p := range route {
			if z.Region.Contains(p) {
				return true
			}
		}
	}
	return false
}
