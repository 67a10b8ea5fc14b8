package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. Every
// transition a batch job and a user action could both apply is expressed as
// a conditional update returning whether a row was affected; zero rows
// means another actor already made the transition and is not an error.
type AttendanceRepository interface {
	// Create inserts a record. Returns ErrRecordExists on a
	// (user_id, attendance_date) conflict.
	Create(ctx context.Context, rec AttendanceRecord) (AttendanceRecord, error)

	// SeedPending bulk-inserts one pending record per user for a session
	// day, skipping users who already have a record for that date. Returns
	// the number of rows actually inserted, so a resumed run tops up only
	// the missing ones.
	SeedPending(ctx context.Context, sessionID string, date time.Time, userIDs []string) (int64, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// GetByUserAndDate retrieves a user's record for one attendance day.
	// Returns nil when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error)

	// SetCheckIn stamps time_in and the derived status, only while the
	// record is still pending with no check-in.
	SetCheckIn(ctx context.Context, id string, timeIn time.Time, status Status, minutesLate int) (bool, error)

	// SetCheckOut stamps time_out and the derived hours, only while the
	// record has no check-out.
	SetCheckOut(ctx context.Context, id string, timeOut time.Time, hoursWorked float64, overtimeMinutes int) (bool, error)

	// MarkAbsent sweeps every record of a session still pending with no
	// time_in to absent, returning the transitioned records. The WHERE
	// clause carries the pending condition so a concurrent check-in
	// cannot be overwritten.
	MarkAbsent(ctx context.Context, sessionID string) ([]AttendanceRecord, error)

	// ListOpenCheckedIn returns records with a check-in, no check-out and
	// status present or late. Working set of the auto-checkout engine.
	ListOpenCheckedIn(ctx context.Context) ([]AttendanceRecord, error)

	// ListWithTimeIn returns every record carrying a check-in time.
	// Working set of the status recalculation job.
	ListWithTimeIn(ctx context.Context) ([]AttendanceRecord, error)

	// ListCompleted returns records with both time_in and time_out.
	// Working set of the hours recomputation job.
	ListCompleted(ctx context.Context) ([]AttendanceRecord, error)

	// UpdateDerived persists a recomputed status and lateness.
	UpdateDerived(ctx context.Context, id string, status Status, minutesLate int) (bool, error)

	// UpdateHours persists a recomputed hours_worked value.
	UpdateHours(ctx context.Context, id string, hours float64) (bool, error)

	// ApplyAutoCheckout force-closes a record at the nominal shift end,
	// setting auto_checkout and appending the note, only while time_out
	// is still null. Hours are left for the recomputation job.
	ApplyAutoCheckout(ctx context.Context, id string, timeOut time.Time, note string) (bool, error)

	// SetBreakStart stamps the legacy inline break start, only while no
	// break is open on the record.
	SetBreakStart(ctx context.Context, id string, at time.Time) (bool, error)

	// SetLegacyBreakEnd stamps the legacy inline break end, only while
	// break_end is still null.
	SetLegacyBreakEnd(ctx context.Context, id string, at time.Time) (bool, error)

	// ListLegacyOpenBreaks returns records whose inline break_start is set
	// with no break_end and no corresponding open row in the normalized
	// break table, so the same physical break is never processed twice.
	ListLegacyOpenBreaks(ctx context.Context) ([]AttendanceRecord, error)

	// DeleteOlderThan removes records dated before the cutoff. Used by
	// retention cleanup only.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
