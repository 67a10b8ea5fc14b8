package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

const breakColumns = `
	id, attendance_id, user_id, break_date, break_type, duration_limit,
	break_start, break_end, duration_minutes, penalty_minutes, created_at, updated_at
`

func scanBreak(row pgx.Row) (breaks.EmployeeBreak, error) {
	var b breaks.EmployeeBreak
	err := row.Scan(
		&b.ID, &b.AttendanceID, &b.UserID, &b.BreakDate, &b.BreakType, &b.DurationLimit,
		&b.BreakStart, &b.BreakEnd, &b.DurationMinutes, &b.PenaltyMinutes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements breaks.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b breaks.EmployeeBreak) (breaks.EmployeeBreak, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_breaks (
			id, attendance_id, user_id, break_date, break_type,
			duration_limit, break_start, duration_minutes, penalty_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.ID, b.AttendanceID, b.UserID, b.BreakDate, b.BreakType,
		b.DurationLimit, b.BreakStart, b.DurationMinutes, b.PenaltyMinutes,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return breaks.EmployeeBreak{}, fmt.Errorf("failed to create break: %w", err)
	}

	return b, nil
}

// GetOpenByAttendance implements breaks.BreakRepository.
func (r *breakRepository) GetOpenByAttendance(ctx context.Context, attendanceID string) (*breaks.EmployeeBreak, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM employee_breaks WHERE attendance_id = $1 AND break_end IS NULL ORDER BY break_start DESC LIMIT 1`

	b, err := scanBreak(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}

	return &b, nil
}

// ListOpen implements breaks.BreakRepository.
func (r *breakRepository) ListOpen(ctx context.Context) ([]breaks.EmployeeBreak, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + ` FROM employee_breaks WHERE break_end IS NULL ORDER BY break_start`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open breaks: %w", err)
	}
	defer rows.Close()

	var result []breaks.EmployeeBreak
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		result = append(result, b)
	}

	return result, nil
}

// SumDurationByAttendance implements breaks.BreakRepository.
func (r *breakRepository) SumDurationByAttendance(ctx context.Context, attendanceID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COALESCE(SUM(duration_minutes), 0) FROM employee_breaks WHERE attendance_id = $1 AND break_end IS NOT NULL`

	var total int
	if err := q.QueryRow(ctx, query, attendanceID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum break durations: %w", err)
	}

	return total, nil
}

// Close implements breaks.BreakRepository.
func (r *breakRepository) Close(ctx context.Context, id string, end time.Time, durationMinutes int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_breaks
		SET break_end = $2, duration_minutes = $3, updated_at = NOW()
		WHERE id = $1 AND break_end IS NULL
	`

	tag, err := q.Exec(ctx, query, id, end, durationMinutes)
	if err != nil {
		return false, fmt.Errorf("failed to close break: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteOlderThan implements breaks.BreakRepository.
func (r *breakRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_breaks WHERE break_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old breaks: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewBreakRepository(db *database.DB) breaks.BreakRepository {
	return &breakRepository{db: db}
}
