package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/shift"
	"github.com/shiftwatch/attendance-backend-go/internal/service/audit"
)

type AttendanceService struct {
	attendanceRepo attendance.AttendanceRepository
	breakRepo      breaks.BreakRepository
	sessionRepo    session.SessionRepository
	scheduleRepo   schedule.ScheduleRepository
	employeeRepo   employee.EmployeeRepository
	settings       settings.Store
	notifier       notification.Service
	auditor        audit.Recorder
	clk            clock.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	breakRepo breaks.BreakRepository,
	sessionRepo session.SessionRepository,
	scheduleRepo schedule.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	settingsStore settings.Store,
	notifier notification.Service,
	auditor audit.Recorder,
	clk clock.Clock,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		sessionRepo:    sessionRepo,
		scheduleRepo:   scheduleRepo,
		employeeRepo:   employeeRepo,
		settings:       settingsStore,
		notifier:       notifier,
		auditor:        auditor,
		clk:            clk,
	}
}

// CheckIn stamps the employee's check-in and derives present/late against
// the operative schedule. The persisted transition is conditional on the
// record still being pending, so a check-in can never resurrect a record
// the absence sweep already closed, and vice versa.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string) (attendance.AttendanceRecord, error) {
	now := s.clk.Now()
	today := dateOnly(now)

	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	rec, err := s.recordForToday(ctx, userID, sched.ID, today)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	if rec.TimeIn != nil {
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
	}

	shiftStart, _ := shift.Window(rec.AttendanceDate, sched.TimeIn, sched.TimeOut)
	lateStart := shiftStart.Add(time.Duration(sched.GracePeriodMinutes) * time.Minute)

	status := attendance.StatusPresent
	minutesLate := 0
	if now.After(lateStart) {
		status = attendance.StatusLate
		minutesLate = shift.MinutesLate(shiftStart, now)
	}

	ok, err := s.attendanceRepo.SetCheckIn(ctx, rec.ID, now, status, minutesLate)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to persist check-in: %w", err)
	}
	if !ok {
		// Another actor transitioned the record first.
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
	}

	if err := s.auditor.Record(ctx, domainaudit.AuditLog{
		Action:      "check_in",
		Description: fmt.Sprintf("Check-in at %s", now.Format("15:04:05")),
		ActorUserID: &userID,
		SubjectType: "attendance_record",
		SubjectID:   rec.ID,
		Before:      map[string]any{"status": string(attendance.StatusPending)},
		After:       map[string]any{"status": string(status), "minutes_late": minutesLate},
	}); err != nil {
		slog.Warn("Audit write failed for check-in", "record_id", rec.ID, "error", err)
	}

	rec.TimeIn = &now
	rec.Status = status
	rec.MinutesLate = minutesLate
	return *rec, nil
}

// CheckOut closes the employee's open record, deriving worked hours and
// overtime against the scheduled shift end.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string) (attendance.AttendanceRecord, error) {
	now := s.clk.Now()

	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	rec, err := s.openRecord(ctx, userID, now)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if rec.TimeIn == nil {
		return attendance.AttendanceRecord{}, attendance.ErrNotCheckedIn
	}
	if rec.TimeOut != nil {
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedOut
	}

	breakMinutes, err := s.breakMinutes(ctx, rec)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	hours := shift.WorkedHours(*rec.TimeIn, now, breakMinutes)

	_, shiftEnd := shift.Window(rec.AttendanceDate, sched.TimeIn, sched.TimeOut)
	overtime := 0
	if now.After(shiftEnd) {
		overtime = int(now.Sub(shiftEnd).Minutes())
	}

	ok, err := s.attendanceRepo.SetCheckOut(ctx, rec.ID, now, hours, overtime)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to persist check-out: %w", err)
	}
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedOut
	}

	if err := s.auditor.Record(ctx, domainaudit.AuditLog{
		Action:      "check_out",
		Description: fmt.Sprintf("Check-out at %s", now.Format("15:04:05")),
		ActorUserID: &userID,
		SubjectType: "attendance_record",
		SubjectID:   rec.ID,
		After:       map[string]any{"hours_worked": hours, "overtime_minutes": overtime},
	}); err != nil {
		slog.Warn("Audit write failed for check-out", "record_id", rec.ID, "error", err)
	}

	rec.TimeOut = &now
	rec.HoursWorked = hours
	rec.OvertimeMinutes = overtime
	return *rec, nil
}

// recordForToday resolves the user's record for the current attendance day,
// creating a pending one when the session is open but the user was not
// seeded (hired mid-day, for example).
func (s *AttendanceService) recordForToday(ctx context.Context, userID, scheduleID string, today time.Time) (*attendance.AttendanceRecord, error) {
	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendance record: %w", err)
	}
	if rec != nil {
		return rec, nil
	}

	sess, err := s.sessionRepo.GetByScheduleAndDate(ctx, scheduleID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to look up today's session: %w", err)
	}
	if sess == nil {
		return nil, session.ErrSessionNotFound
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.AttendanceRecord{
		ID:             uuid.NewString(),
		SessionID:      sess.ID,
		UserID:         userID,
		AttendanceDate: today,
		Status:         attendance.StatusPending,
	})
	if err != nil {
		if err == attendance.ErrRecordExists {
			// Lost a race against the seeding job; use its row.
			return s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return &created, nil
}

// openRecord finds the record a check-out or break action refers to: today's
// record, or yesterday's when an overnight shift is still open past
// midnight.
func (s *AttendanceService) openRecord(ctx context.Context, userID string, now time.Time) (*attendance.AttendanceRecord, error) {
	today := dateOnly(now)

	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendance record: %w", err)
	}
	if rec != nil && rec.TimeIn != nil && rec.TimeOut == nil {
		return rec, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	prev, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendance record: %w", err)
	}
	if prev != nil && prev.TimeIn != nil && prev.TimeOut == nil {
		return prev, nil
	}

	if rec != nil {
		return rec, nil
	}
	return nil, attendance.ErrNotCheckedIn
}

// breakMinutes sums a record's break time, preferring the normalized table
// and falling back to the legacy inline pair only when the normalized sum
// is zero.
func (s *AttendanceService) breakMinutes(ctx context.Context, rec *attendance.AttendanceRecord) (int, error) {
	total, err := s.breakRepo.SumDurationByAttendance(ctx, rec.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum breaks: %w", err)
	}
	if total > 0 {
		return total, nil
	}

	if rec.BreakStart != nil && rec.BreakEnd != nil {
		return shift.SpanMinutes(*rec.BreakStart, *rec.BreakEnd), nil
	}

	return 0, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
