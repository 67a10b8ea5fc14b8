package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/shift"
)

// defaultBoundaryHour is the wall-clock hour of the absence cutoff when the
// shift_boundary_hour setting is absent.
const defaultBoundaryHour = 1

// MarkAbsentees sweeps every active session whose cutoff has passed,
// transitioning still-pending records with no check-in to absent. The
// update itself carries the pending condition, so a check-in landing
// mid-sweep keeps its row.
func (s *AttendanceService) MarkAbsentees(ctx context.Context) (int, error) {
	now := s.clk.Now()

	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	boundaryHour, err := s.settings.Int(ctx, settings.KeyShiftBoundaryHour, defaultBoundaryHour)
	if err != nil {
		return 0, fmt.Errorf("failed to read shift boundary setting: %w", err)
	}
	cutoffTod := time.Date(0, 1, 1, boundaryHour, 0, 0, 0, time.UTC)

	weekendOK, err := s.settings.Bool(ctx, settings.KeyWeekendCheckin, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read weekend setting: %w", err)
	}

	sessions, err := s.sessionRepo.ListActiveAsOf(ctx, dateOnly(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	total := 0
	for _, sess := range sessions {
		// Weekend suppression follows the session's business day, not
		// the sweep's: the Saturday 01:00 sweep still covers a Friday
		// overnight shift.
		if !sched.WorksOn(sess.Date) && !weekendOK {
			continue
		}

		shiftStart, _ := shift.Window(sess.Date, sched.TimeIn, sched.TimeOut)
		cutoff := shift.CutoffAt(shiftStart, cutoffTod)
		if now.Before(cutoff) {
			continue
		}

		marked, err := s.attendanceRepo.MarkAbsent(ctx, sess.ID)
		if err != nil {
			slog.Error("Absence sweep failed for session", "session_id", sess.ID, "error", err)
			continue
		}

		for _, rec := range marked {
			if err := s.auditor.Record(ctx, domainaudit.AuditLog{
				Action:      domainaudit.ActionMarkedAbsent,
				Description: fmt.Sprintf("Marked absent for %s: no check-in by cutoff", rec.AttendanceDate.Format("2006-01-02")),
				SubjectType: "attendance_record",
				SubjectID:   rec.ID,
				Before:      map[string]any{"status": string(attendance.StatusPending)},
				After:       map[string]any{"status": string(attendance.StatusAbsent)},
			}); err != nil {
				slog.Warn("Audit write failed for absence", "record_id", rec.ID, "error", err)
			}
		}

		total += len(marked)
	}

	if total > 0 {
		s.notifyAbsences(ctx, total)
	}

	slog.Info("Absence sweep complete", "marked", total)
	return total, nil
}

func (s *AttendanceService) notifyAbsences(ctx context.Context, count int) {
	alertsOn, err := s.settings.Bool(ctx, settings.KeyAbsentAlerts, false)
	if err != nil || !alertsOn || s.notifier == nil {
		return
	}

	managers, err := s.employeeRepo.ListManagers(ctx)
	if err != nil {
		slog.Warn("Failed to list managers for absence alert", "error", err)
		return
	}

	for _, mgr := range managers {
		if err := s.notifier.QueueNotification(ctx, notification.Notification{
			RecipientID: mgr.UserID,
			Type:        notification.TypeMarkedAbsent,
			Title:       "Employees Marked Absent",
			Message:     fmt.Sprintf("%d employees were marked absent", count),
			Data:        map[string]any{"count": count},
		}); err != nil {
			slog.Warn("Failed to queue absence alert", "recipient", mgr.UserID, "error", err)
		}
	}
}

// RecalculateStatus re-derives present/late and lateness from the current
// check-in time for every record carrying one. Absent or excused records
// without a check-in are untouched; a record that gained a check-in since
// it was marked absent is recomputed like any other. Per-record failures
// are logged and the batch continues. Running it twice in a row changes
// nothing on the second pass.
func (s *AttendanceService) RecalculateStatus(ctx context.Context) (int, error) {
	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	records, err := s.attendanceRepo.ListWithTimeIn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list records for recalculation: %w", err)
	}

	changed := 0
	for _, rec := range records {
		shiftStart, _ := shift.Window(rec.AttendanceDate, sched.TimeIn, sched.TimeOut)
		lateStart := shiftStart.Add(time.Duration(sched.GracePeriodMinutes) * time.Minute)

		status := attendance.StatusPresent
		minutesLate := 0
		if rec.TimeIn.After(lateStart) {
			status = attendance.StatusLate
			minutesLate = shift.MinutesLate(shiftStart, *rec.TimeIn)
		}

		if status == rec.Status && minutesLate == rec.MinutesLate {
			continue
		}

		ok, err := s.attendanceRepo.UpdateDerived(ctx, rec.ID, status, minutesLate)
		if err != nil {
			slog.Error("Failed to recalculate record", "record_id", rec.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		changed++

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionStatusRecomputed,
			Description: "Status recomputed from check-in time",
			SubjectType: "attendance_record",
			SubjectID:   rec.ID,
			Before:      map[string]any{"status": string(rec.Status), "minutes_late": rec.MinutesLate},
			After:       map[string]any{"status": string(status), "minutes_late": minutesLate},
		}); err != nil {
			slog.Warn("Audit write failed for recalculation", "record_id", rec.ID, "error", err)
		}
	}

	slog.Info("Status recalculation complete", "scanned", len(records), "changed", changed)
	return changed, nil
}
