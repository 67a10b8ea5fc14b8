package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const recordColumns = `
	id, session_id, user_id, attendance_date, time_in, time_out,
	break_start, break_end, status, minutes_late, hours_worked,
	overtime_minutes, overtime_status, auto_checkout, notes, confirmed_at,
	created_at, updated_at
`

func scanRecord(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.UserID, &rec.AttendanceDate, &rec.TimeIn, &rec.TimeOut,
		&rec.BreakStart, &rec.BreakEnd, &rec.Status, &rec.MinutesLate, &rec.HoursWorked,
		&rec.OvertimeMinutes, &rec.OvertimeStatus, &rec.AutoCheckout, &rec.Notes, &rec.ConfirmedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, session_id, user_id, attendance_date, time_in, time_out,
			status, minutes_late, hours_worked, overtime_minutes, auto_checkout, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.SessionID, rec.UserID, rec.AttendanceDate, rec.TimeIn, rec.TimeOut,
		rec.Status, rec.MinutesLate, rec.HoursWorked, rec.OvertimeMinutes, rec.AutoCheckout, rec.Notes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// SeedPending implements attendance.AttendanceRepository.
// ON CONFLICT DO NOTHING over the (user_id, attendance_date) unique index
// makes re-runs top up only the missing records.
func (r *attendanceRepository) SeedPending(ctx context.Context, sessionID string, date time.Time, userIDs []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var inserted int64
	for _, userID := range userIDs {
		query := `
			INSERT INTO attendance_records (id, session_id, user_id, attendance_date, status)
			VALUES ($1, $2, $3, $4, 'pending')
			ON CONFLICT (user_id, attendance_date) DO NOTHING
		`
		tag, err := q.Exec(ctx, query, uuid.NewString(), sessionID, userID, date)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed pending record for user %s: %w", userID, err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE user_id = $1 AND attendance_date = $2 LIMIT 1`

	rec, err := scanRecord(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by user and date: %w", err)
	}

	return &rec, nil
}

// SetCheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetCheckIn(ctx context.Context, id string, timeIn time.Time, status attendance.Status, minutesLate int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET time_in = $2, status = $3, minutes_late = $4, updated_at = $2
		WHERE id = $1 AND status = 'pending' AND time_in IS NULL
	`

	tag, err := q.Exec(ctx, query, id, timeIn, status, minutesLate)
	if err != nil {
		return false, fmt.Errorf("failed to set check-in: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetCheckOut(ctx context.Context, id string, timeOut time.Time, hoursWorked float64, overtimeMinutes int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET time_out = $2, hours_worked = $3, overtime_minutes = $4, updated_at = $2
		WHERE id = $1 AND time_out IS NULL
	`

	tag, err := q.Exec(ctx, query, id, timeOut, hoursWorked, overtimeMinutes)
	if err != nil {
		return false, fmt.Errorf("failed to set check-out: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkAbsent implements attendance.AttendanceRepository.
// The status = 'pending' condition is load-bearing: a check-in landing
// between the sweep's read and write keeps its row.
func (r *attendanceRepository) MarkAbsent(ctx context.Context, sessionID string) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET status = 'absent', updated_at = NOW()
		WHERE session_id = $1 AND status = 'pending' AND time_in IS NULL
		RETURNING ` + recordColumns

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark absentees: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marked record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ListOpenCheckedIn implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenCheckedIn(ctx context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(ctx, `time_in IS NOT NULL AND time_out IS NULL AND status IN ('present', 'late')`)
}

// ListWithTimeIn implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListWithTimeIn(ctx context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(ctx, `time_in IS NOT NULL`)
}

// ListCompleted implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListCompleted(ctx context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(ctx, `time_in IS NOT NULL AND time_out IS NOT NULL`)
}

// ListLegacyOpenBreaks implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListLegacyOpenBreaks(ctx context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(ctx, `
		break_start IS NOT NULL AND break_end IS NULL
		AND NOT EXISTS (
			SELECT 1 FROM employee_breaks b
			WHERE b.attendance_id = attendance_records.id AND b.break_end IS NULL
		)`)
}

func (r *attendanceRepository) list(ctx context.Context, where string) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE ` + where + ` ORDER BY attendance_date, user_id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// UpdateDerived implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateDerived(ctx context.Context, id string, status attendance.Status, minutesLate int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET status = $2, minutes_late = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, minutesLate)
	if err != nil {
		return false, fmt.Errorf("failed to update derived status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateHours implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateHours(ctx context.Context, id string, hours float64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET hours_worked = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, hours)
	if err != nil {
		return false, fmt.Errorf("failed to update hours worked: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ApplyAutoCheckout implements attendance.AttendanceRepository.
func (r *attendanceRepository) ApplyAutoCheckout(ctx context.Context, id string, timeOut time.Time, note string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET time_out = $2, auto_checkout = TRUE,
		    notes = COALESCE(notes || E'\n', '') || $3, updated_at = NOW()
		WHERE id = $1 AND time_out IS NULL
	`

	tag, err := q.Exec(ctx, query, id, timeOut, note)
	if err != nil {
		return false, fmt.Errorf("failed to apply auto-checkout: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetBreakStart implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetBreakStart(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET break_start = $2, break_end = NULL, updated_at = $2
		WHERE id = $1 AND (break_start IS NULL OR break_end IS NOT NULL)
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to set break start: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetLegacyBreakEnd implements attendance.AttendanceRepository.
func (r *attendanceRepository) SetLegacyBreakEnd(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET break_end = $2, updated_at = $2
		WHERE id = $1 AND break_start IS NOT NULL AND break_end IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to set legacy break end: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteOlderThan implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE attendance_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old attendance records: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
