package session

import (
	"context"
	"time"
)

// SessionRepository defines data access for daily attendance sessions.
type SessionRepository interface {
	// Create inserts a new session. Returns ErrSessionExists when a
	// session for (schedule_id, date) is already present, so a retried
	// daily job never duplicates a day.
	Create(ctx context.Context, s AttendanceSession) (AttendanceSession, error)

	// GetByScheduleAndDate retrieves the session for one schedule day.
	// Returns nil when none exists.
	GetByScheduleAndDate(ctx context.Context, scheduleID string, date time.Time) (*AttendanceSession, error)

	// ListActiveBefore returns sessions still active with a date strictly
	// before the given date. Used by the rollover lock.
	ListActiveBefore(ctx context.Context, date time.Time) ([]AttendanceSession, error)

	// ListActiveAsOf returns every active session with date <= the given
	// date, newest first. The absence sweep walks these.
	ListActiveAsOf(ctx context.Context, date time.Time) ([]AttendanceSession, error)

	// Lock transitions a session active -> locked, stamping locked_at and
	// locked_by. The update is conditional on the current status; zero
	// affected rows means another actor got there first and is not an
	// error.
	Lock(ctx context.Context, id string, lockedAt time.Time, lockedBy string) (bool, error)

	// DeleteOlderThan removes sessions dated before the cutoff. Used by
	// retention cleanup only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
