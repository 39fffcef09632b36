package domain

import "time"

// PlanningEntry is one shift on the schedule. EmployeeID is nil for
// entries addressed to the whole team.
type PlanningEntry struct {
	ID             int64
	Date           time.Time
	Shift          string // e.g. "08:00-16:00"
	Note           *string
	EmployeeID     *int64
	OrganizationID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
