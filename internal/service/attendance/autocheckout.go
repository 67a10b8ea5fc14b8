package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/shift"
)

// autoCheckoutGrace is how long past the scheduled shift end a record may
// stay open before it is force-closed.
const autoCheckoutGrace = time.Hour

const autoCheckoutNote = "Auto checkout: no check-out recorded within 1 hour of shift end"

// AutoCheckout force-closes every checked-in record still open an hour past
// its scheduled shift end. The recorded check-out is the nominal shift end,
// not the moment the job ran. Disabled unless the auto_checkout setting is
// on. Hours stay as they were; the hours recomputation job derives them.
func (s *AttendanceService) AutoCheckout(ctx context.Context) (int, error) {
	enabled, err := s.settings.Bool(ctx, settings.KeyAutoCheckout, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read auto_checkout setting: %w", err)
	}
	if !enabled {
		slog.Info("Auto-checkout skipped: disabled by settings")
		return 0, nil
	}

	now := s.clk.Now()

	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	records, err := s.attendanceRepo.ListOpenCheckedIn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list open records: %w", err)
	}

	closed := 0
	for _, rec := range records {
		_, shiftEnd := shift.Window(rec.AttendanceDate, sched.TimeIn, sched.TimeOut)
		if !now.After(shiftEnd.Add(autoCheckoutGrace)) {
			continue
		}

		ok, err := s.attendanceRepo.ApplyAutoCheckout(ctx, rec.ID, shiftEnd, autoCheckoutNote)
		if err != nil {
			slog.Error("Failed to auto-checkout record", "record_id", rec.ID, "error", err)
			continue
		}
		if !ok {
			// The employee checked out mid-run.
			continue
		}
		closed++

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionAutoCheckout,
			Description: fmt.Sprintf("Force-closed at scheduled shift end %s", shiftEnd.Format("2006-01-02 15:04")),
			SubjectType: "attendance_record",
			SubjectID:   rec.ID,
			Before:      map[string]any{"time_out": nil},
			After:       map[string]any{"time_out": shiftEnd.Format(time.RFC3339), "auto_checkout": true},
		}); err != nil {
			slog.Warn("Audit write failed for auto-checkout", "record_id", rec.ID, "error", err)
		}

		if s.notifier != nil {
			if err := s.notifier.QueueNotification(ctx, notification.Notification{
				RecipientID: rec.UserID,
				Type:        notification.TypeAutoCheckout,
				Title:       "Attendance Auto-Closed",
				Message:     fmt.Sprintf("Your attendance for %s was automatically closed", rec.AttendanceDate.Format("2006-01-02")),
				Data:        map[string]any{"record_id": rec.ID},
			}); err != nil {
				slog.Warn("Failed to queue auto-checkout alert", "recipient", rec.UserID, "error", err)
			}
		}
	}

	slog.Info("Auto-checkout complete", "closed", closed)
	return closed, nil
}
