package breaks

import (
	"context"
	"time"
)

// BreakRepository defines data access for normalized break rows.
type BreakRepository interface {
	// Create inserts a new break
	Create(ctx context.Context, b EmployeeBreak) (EmployeeBreak, error)

	// GetOpenByAttendance returns the open break on a record, nil when
	// none is open.
	GetOpenByAttendance(ctx context.Context, attendanceID string) (*EmployeeBreak, error)

	// ListOpen returns every break with a start and no end.
	ListOpen(ctx context.Context) ([]EmployeeBreak, error)

	// SumDurationByAttendance sums duration_minutes over a record's
	// closed breaks.
	SumDurationByAttendance(ctx context.Context, attendanceID string) (int, error)

	// Close ends a break, only while break_end is still null.
	Close(ctx context.Context, id string, end time.Time, durationMinutes int) (bool, error)

	// DeleteOlderThan removes breaks dated before the cutoff. Used by
	// retention cleanup only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
