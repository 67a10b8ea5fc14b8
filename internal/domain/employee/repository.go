package employee

import "context"

// EmployeeRepository defines read access to the roster. Employee CRUD is an
// external concern; the engines only read.
type EmployeeRepository interface {
	// ListActive returns every employee with active employment status.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListManagers returns active employees flagged as managers.
	ListManagers(ctx context.Context) ([]Employee, error)
}
