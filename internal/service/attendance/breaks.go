package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/shift"
)

// StartBreak opens a normalized break on the user's open record and mirrors
// the start onto the legacy inline columns.
func (s *AttendanceService) StartBreak(ctx context.Context, userID, breakType string, durationLimit int) (breaks.EmployeeBreak, error) {
	now := s.clk.Now()

	rec, err := s.openRecord(ctx, userID, now)
	if err != nil {
		return breaks.EmployeeBreak{}, err
	}
	if rec.TimeIn == nil {
		return breaks.EmployeeBreak{}, attendance.ErrNotCheckedIn
	}

	open, err := s.breakRepo.GetOpenByAttendance(ctx, rec.ID)
	if err != nil {
		return breaks.EmployeeBreak{}, fmt.Errorf("failed to look up open break: %w", err)
	}
	if open != nil {
		return breaks.EmployeeBreak{}, attendance.ErrBreakAlreadyOpen
	}

	if durationLimit <= 0 {
		durationLimit = breaks.DefaultDurationLimitMinutes
	}

	b, err := s.breakRepo.Create(ctx, breaks.EmployeeBreak{
		ID:            uuid.NewString(),
		AttendanceID:  rec.ID,
		UserID:        userID,
		BreakDate:     rec.AttendanceDate,
		BreakType:     breakType,
		DurationLimit: durationLimit,
		BreakStart:    now,
	})
	if err != nil {
		return breaks.EmployeeBreak{}, fmt.Errorf("failed to create break: %w", err)
	}

	// Legacy mirror; ignore the affected flag, an already-open inline
	// break just keeps its earlier start.
	if _, err := s.attendanceRepo.SetBreakStart(ctx, rec.ID, now); err != nil {
		slog.Warn("Failed to mirror break start onto record", "record_id", rec.ID, "error", err)
	}

	return b, nil
}

// EndBreak closes the user's open break, computing its actual duration, and
// mirrors the end onto the legacy inline columns.
func (s *AttendanceService) EndBreak(ctx context.Context, userID string) (breaks.EmployeeBreak, error) {
	now := s.clk.Now()

	rec, err := s.openRecord(ctx, userID, now)
	if err != nil {
		return breaks.EmployeeBreak{}, err
	}

	open, err := s.breakRepo.GetOpenByAttendance(ctx, rec.ID)
	if err != nil {
		return breaks.EmployeeBreak{}, fmt.Errorf("failed to look up open break: %w", err)
	}
	if open == nil {
		return breaks.EmployeeBreak{}, attendance.ErrNoOpenBreak
	}

	duration := shift.SpanMinutes(open.BreakStart, now)

	ok, err := s.breakRepo.Close(ctx, open.ID, now, duration)
	if err != nil {
		return breaks.EmployeeBreak{}, fmt.Errorf("failed to close break: %w", err)
	}
	if !ok {
		// The enforcer got there first.
		return breaks.EmployeeBreak{}, attendance.ErrNoOpenBreak
	}

	if _, err := s.attendanceRepo.SetLegacyBreakEnd(ctx, rec.ID, now); err != nil {
		slog.Warn("Failed to mirror break end onto record", "record_id", rec.ID, "error", err)
	}

	if err := s.auditor.Record(ctx, domainaudit.AuditLog{
		Action:      "break_ended",
		Description: fmt.Sprintf("Break ended after %d minutes", duration),
		ActorUserID: &userID,
		SubjectType: "employee_break",
		SubjectID:   open.ID,
		After:       map[string]any{"duration_minutes": duration},
	}); err != nil {
		slog.Warn("Audit write failed for break end", "break_id", open.ID, "error", err)
	}

	open.BreakEnd = &now
	open.DurationMinutes = duration
	return *open, nil
}
