package domain

import "time"

// Invitation is a single-use, time-bounded onboarding token for one email
// address into one organization. Only the token fingerprint is stored.
// Expiry is derived from the clock at read time, never a stored state.
type Invitation struct {
	ID             int64
	TokenHash      string
	Email          string
	OrganizationID int64
	ExpiresAt      time.Time
	UsedAt         *time.Time // nil while pending; set exactly once
	CreatedAt      time.Time
}

// Pending reports whether the invitation is still consumable at t.
func (i Invitation) Pending(t time.Time) bool {
	return i.UsedAt == nil && t.Before(i.ExpiresAt)
}
