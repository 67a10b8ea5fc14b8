package breaks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	"github.com/shiftwatch/attendance-backend-go/internal/service/audit"
)

// EnforcerService auto-ends breaks that exceed their duration limit. Two
// break representations coexist: the normalized employee_breaks table and
// the legacy inline pair on the attendance record. Both are serviced; a
// legacy pair shadowed by an open normalized row is skipped so the same
// physical break is never ended twice.
type EnforcerService struct {
	breakRepo      breaks.BreakRepository
	attendanceRepo attendance.AttendanceRepository
	auditor        audit.Recorder
	clk            clock.Clock
}

func NewEnforcerService(
	breakRepo breaks.BreakRepository,
	attendanceRepo attendance.AttendanceRepository,
	auditor audit.Recorder,
	clk clock.Clock,
) *EnforcerService {
	return &EnforcerService{
		breakRepo:      breakRepo,
		attendanceRepo: attendanceRepo,
		auditor:        auditor,
		clk:            clk,
	}
}

// EndExpiredBreaks closes every overdue break at its limit instant, not at
// the moment the job ran. Per-break failures are logged and the batch
// continues.
func (s *EnforcerService) EndExpiredBreaks(ctx context.Context) (int, error) {
	now := s.clk.Now()

	ended, err := s.endNormalized(ctx, now)
	if err != nil {
		return ended, err
	}

	legacy, err := s.endLegacy(ctx, now)
	if err != nil {
		return ended + legacy, err
	}

	slog.Info("Break enforcement complete", "normalized", ended, "legacy", legacy)
	return ended + legacy, nil
}

func (s *EnforcerService) endNormalized(ctx context.Context, now time.Time) (int, error) {
	open, err := s.breakRepo.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list open breaks: %w", err)
	}

	ended := 0
	for _, b := range open {
		limit := b.LimitMinutes()
		maxEnd := b.BreakStart.Add(time.Duration(limit) * time.Minute)
		if now.Before(maxEnd) {
			continue
		}

		ok, err := s.breakRepo.Close(ctx, b.ID, maxEnd, limit)
		if err != nil {
			slog.Error("Failed to auto-end break", "break_id", b.ID, "error", err)
			continue
		}
		if !ok {
			// The employee ended it mid-run.
			continue
		}
		ended++

		// Mirror onto the legacy inline column for backward compatibility.
		if _, err := s.attendanceRepo.SetLegacyBreakEnd(ctx, b.AttendanceID, maxEnd); err != nil {
			slog.Warn("Failed to mirror auto-ended break", "record_id", b.AttendanceID, "error", err)
		}

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionBreakAutoEnded,
			Description: fmt.Sprintf("Break auto-ended at %d-minute limit", limit),
			SubjectType: "employee_break",
			SubjectID:   b.ID,
			Before:      map[string]any{"break_end": nil},
			After:       map[string]any{"break_end": maxEnd.Format(time.RFC3339), "duration_minutes": limit},
		}); err != nil {
			slog.Warn("Audit write failed for break auto-end", "break_id", b.ID, "error", err)
		}
	}

	return ended, nil
}

func (s *EnforcerService) endLegacy(ctx context.Context, now time.Time) (int, error) {
	records, err := s.attendanceRepo.ListLegacyOpenBreaks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list legacy open breaks: %w", err)
	}

	ended := 0
	for _, rec := range records {
		maxEnd := rec.BreakStart.Add(breaks.DefaultDurationLimitMinutes * time.Minute)
		if now.Before(maxEnd) {
			continue
		}

		ok, err := s.attendanceRepo.SetLegacyBreakEnd(ctx, rec.ID, maxEnd)
		if err != nil {
			slog.Error("Failed to auto-end legacy break", "record_id", rec.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		ended++

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionBreakAutoEnded,
			Description: "Break auto-ended at 60-minute limit (legacy)",
			SubjectType: "attendance_record",
			SubjectID:   rec.ID,
			Before:      map[string]any{"break_end": nil},
			After:       map[string]any{"break_end": maxEnd.Format(time.RFC3339)},
		}); err != nil {
			slog.Warn("Audit write failed for legacy break auto-end", "record_id", rec.ID, "error", err)
		}
	}

	return ended, nil
}
