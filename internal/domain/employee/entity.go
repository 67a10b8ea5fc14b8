package employee

import "time"

type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "active"
	StatusInactive EmploymentStatus = "inactive"
)

// Employee is the slice of the employee roster the engines need: who is
// active (gets a pending record each session day) and who manages (gets
// absence alerts).
type Employee struct {
	ID               string
	UserID           string
	FullName         string
	EmploymentStatus EmploymentStatus
	IsManager        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
