package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

const scheduleColumns = `
	id, name, time_in, break_time, time_out,
	grace_period_minutes, late_threshold_minutes, is_overnight,
	status, work_days, created_at, updated_at
`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := row.Scan(
		&s.ID, &s.Name, &s.TimeIn, &s.BreakTime, &s.TimeOut,
		&s.GracePeriodMinutes, &s.LateThresholdMinutes, &s.IsOvernight,
		&s.Status, &s.WorkDays, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule by ID: %w", err)
	}

	return s, nil
}

// GetActive implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetActive(ctx context.Context) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE status = 'active' ORDER BY updated_at DESC LIMIT 2`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to query active schedules: %w", err)
	}
	defer rows.Close()

	var matches []schedule.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("failed to scan schedule: %w", err)
		}
		matches = append(matches, s)
	}

	switch len(matches) {
	case 0:
		return schedule.Schedule{}, schedule.ErrNoActiveSchedule
	case 1:
		return matches[0], nil
	default:
		return schedule.Schedule{}, schedule.ErrMultipleActiveSchedules
	}
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}
