package domain

import "time"

type Organization struct {
	ID               int64
	Name             string
	Code             string // unique join code, e.g. "DEMO01"
	OwnerID          *int64 // admin employee owning the organization
	PlanningImageURL *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
