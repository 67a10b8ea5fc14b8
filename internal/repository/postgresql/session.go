package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

const sessionColumns = `
	id, schedule_id, date, status, opened_at, locked_at, locked_by,
	attendance_required, session_type, completion_reason, created_at, updated_at
`

func scanSession(row pgx.Row) (session.AttendanceSession, error) {
	var s session.AttendanceSession
	err := row.Scan(
		&s.ID, &s.ScheduleID, &s.Date, &s.Status, &s.OpenedAt, &s.LockedAt, &s.LockedBy,
		&s.AttendanceRequired, &s.SessionType, &s.CompletionReason, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s session.AttendanceSession) (session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			id, schedule_id, date, status, opened_at,
			attendance_required, session_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.ScheduleID, s.Date, s.Status, s.OpenedAt,
		s.AttendanceRequired, s.SessionType,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return session.AttendanceSession{}, session.ErrSessionExists
		}
		return session.AttendanceSession{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return s, nil
}

// GetByScheduleAndDate implements session.SessionRepository.
func (r *sessionRepository) GetByScheduleAndDate(ctx context.Context, scheduleID string, date time.Time) (*session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE schedule_id = $1 AND date = $2 LIMIT 1`

	s, err := scanSession(q.QueryRow(ctx, query, scheduleID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by schedule and date: %w", err)
	}

	return &s, nil
}

// ListActiveBefore implements session.SessionRepository.
func (r *sessionRepository) ListActiveBefore(ctx context.Context, date time.Time) ([]session.AttendanceSession, error) {
	return r.listActive(ctx, `status = 'active' AND date < $1`, date)
}

// ListActiveAsOf implements session.SessionRepository.
func (r *sessionRepository) ListActiveAsOf(ctx context.Context, date time.Time) ([]session.AttendanceSession, error) {
	return r.listActive(ctx, `status = 'active' AND date <= $1`, date)
}

func (r *sessionRepository) listActive(ctx context.Context, where string, args ...interface{}) ([]session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE ` + where + ` ORDER BY date DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// Lock implements session.SessionRepository.
func (r *sessionRepository) Lock(ctx context.Context, id string, lockedAt time.Time, lockedBy string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET status = 'locked', locked_at = $2, locked_by = $3, updated_at = $2
		WHERE id = $1 AND status = 'active'
	`

	tag, err := q.Exec(ctx, query, id, lockedAt, lockedBy)
	if err != nil {
		return false, fmt.Errorf("failed to lock session: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteOlderThan implements session.SessionRepository.
func (r *sessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_sessions WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}
