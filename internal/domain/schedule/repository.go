package schedule

import "context"

// ScheduleRepository defines read access to shift templates. Schedules are
// administrator-owned; the engines never mutate them.
type ScheduleRepository interface {
	// GetByID retrieves a schedule by ID
	GetByID(ctx context.Context, id string) (Schedule, error)

	// GetActive resolves the single operative active schedule.
	// Returns ErrNoActiveSchedule when none exists and
	// ErrMultipleActiveSchedules when the single-schedule assumption
	// is violated.
	GetActive(ctx context.Context) (Schedule, error)
}
