package session

import "time"

type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusActive    SessionStatus = "active"
	StatusLocked    SessionStatus = "locked"
	StatusCompleted SessionStatus = "completed"
)

// AttendanceSession is one calendar-date instance of a schedule, unique per
// (schedule_id, date). Sessions open daily and lock on rollover; they are
// never deleted in normal operation, only retired by retention cleanup.
type AttendanceSession struct {
	ID                 string
	ScheduleID         string
	Date               time.Time
	Status             SessionStatus
	OpenedAt           *time.Time
	LockedAt           *time.Time
	LockedBy           *string
	AttendanceRequired bool
	SessionType        string
	CompletionReason   *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
