package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/shift"
)

// RecalculateHours re-derives hours_worked for every completed record from
// its check-in/check-out pair and break minutes. Safe to re-run over the
// full set; a row is only written when the fresh value drifts past the
// epsilon, so repeated runs settle immediately.
func (s *AttendanceService) RecalculateHours(ctx context.Context) (int, error) {
	records, err := s.attendanceRepo.ListCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list completed records: %w", err)
	}

	changed := 0
	for _, rec := range records {
		breakMinutes, err := s.breakMinutes(ctx, &rec)
		if err != nil {
			slog.Error("Failed to sum breaks for record", "record_id", rec.ID, "error", err)
			continue
		}

		hours := shift.WorkedHours(*rec.TimeIn, *rec.TimeOut, breakMinutes)
		if math.Abs(hours-rec.HoursWorked) <= shift.HoursEpsilon {
			continue
		}

		ok, err := s.attendanceRepo.UpdateHours(ctx, rec.ID, hours)
		if err != nil {
			slog.Error("Failed to update hours for record", "record_id", rec.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		changed++

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionHoursRecomputed,
			Description: "Hours worked recomputed from time pair and breaks",
			SubjectType: "attendance_record",
			SubjectID:   rec.ID,
			Before:      map[string]any{"hours_worked": rec.HoursWorked},
			After:       map[string]any{"hours_worked": hours},
		}); err != nil {
			slog.Warn("Audit write failed for hours recomputation", "record_id", rec.ID, "error", err)
		}
	}

	slog.Info("Hours recomputation complete", "scanned", len(records), "changed", changed)
	return changed, nil
}
