package domain

import "time"

// Request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Request is a leave or document request filed by an employee.
type Request struct {
	ID             int64
	EmployeeID     int64
	Type           string // e.g. "leave", "document"
	Status         string
	Message        *string
	DocumentURL    *string
	AdminMessage   *string
	OrganizationID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
