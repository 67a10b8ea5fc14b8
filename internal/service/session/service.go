package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	"github.com/shiftwatch/attendance-backend-go/internal/service/audit"
)

// SystemActor is stamped as locked_by on automated transitions.
const SystemActor = "system"

// ResetResult summarizes one run of the daily session job.
type ResetResult struct {
	Skipped        bool
	SkipReason     string
	SessionID      string
	SessionCreated bool
	LockedSessions int
	SeededRecords  int64
}

type LifecycleService struct {
	scheduleRepo   schedule.ScheduleRepository
	sessionRepo    session.SessionRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	settings       settings.Store
	auditor        audit.Recorder
	clk            clock.Clock
}

func NewLifecycleService(
	scheduleRepo schedule.ScheduleRepository,
	sessionRepo session.SessionRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsStore settings.Store,
	auditor audit.Recorder,
	clk clock.Clock,
) *LifecycleService {
	return &LifecycleService{
		scheduleRepo:   scheduleRepo,
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settings:       settingsStore,
		auditor:        auditor,
		clk:            clk,
	}
}

// ResetDailySession runs the once-per-business-day rollover: lock stale
// active sessions, open today's session and seed one pending record per
// active employee. Every step is individually idempotent; a re-run after a
// partial failure resumes where the last run stopped instead of
// duplicating anything.
func (s *LifecycleService) ResetDailySession(ctx context.Context) (ResetResult, error) {
	now := s.clk.Now()
	today := dateOnly(now)

	sched, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return ResetResult{}, fmt.Errorf("failed to resolve active schedule: %w", err)
	}

	if !sched.WorksOn(today) {
		weekendOK, err := s.settings.Bool(ctx, settings.KeyWeekendCheckin, false)
		if err != nil {
			return ResetResult{}, fmt.Errorf("failed to read weekend setting: %w", err)
		}
		if !weekendOK {
			slog.Info("Session reset skipped: non-working day", "date", today.Format("2006-01-02"))
			return ResetResult{Skipped: true, SkipReason: "non-working day"}, nil
		}
	}

	// An existing session for today means an earlier run got at least
	// this far. Resume by topping up missing records only.
	existing, err := s.sessionRepo.GetByScheduleAndDate(ctx, sched.ID, today)
	if err != nil {
		return ResetResult{}, fmt.Errorf("failed to look up today's session: %w", err)
	}
	if existing != nil {
		seeded, err := s.seedRecords(ctx, existing.ID, today)
		if err != nil {
			return ResetResult{}, err
		}
		if seeded > 0 {
			slog.Info("Session reset resumed: topped up records", "session_id", existing.ID, "seeded", seeded)
		} else {
			slog.Info("Session reset skipped: session already exists", "session_id", existing.ID)
		}
		return ResetResult{
			Skipped:       seeded == 0,
			SkipReason:    "session already exists",
			SessionID:     existing.ID,
			SeededRecords: seeded,
		}, nil
	}

	locked, err := s.lockStaleSessions(ctx, today, now)
	if err != nil {
		return ResetResult{}, err
	}

	opened := now
	newSession := session.AttendanceSession{
		ID:                 uuid.NewString(),
		ScheduleID:         sched.ID,
		Date:               today,
		Status:             session.StatusActive,
		OpenedAt:           &opened,
		AttendanceRequired: true,
		SessionType:        "regular",
	}

	created, err := s.sessionRepo.Create(ctx, newSession)
	if err != nil {
		// A concurrent run won the insert; resume against its session.
		if existing, lookupErr := s.sessionRepo.GetByScheduleAndDate(ctx, sched.ID, today); lookupErr == nil && existing != nil {
			seeded, seedErr := s.seedRecords(ctx, existing.ID, today)
			if seedErr != nil {
				return ResetResult{}, seedErr
			}
			return ResetResult{SessionID: existing.ID, LockedSessions: locked, SeededRecords: seeded}, nil
		}
		return ResetResult{}, fmt.Errorf("failed to create today's session: %w", err)
	}

	seeded, err := s.seedRecords(ctx, created.ID, today)
	if err != nil {
		return ResetResult{}, err
	}

	if err := s.auditor.Record(ctx, domainaudit.AuditLog{
		Action:      domainaudit.ActionSessionCreated,
		Description: fmt.Sprintf("Opened attendance session for %s with %d pending records", today.Format("2006-01-02"), seeded),
		SubjectType: "attendance_session",
		SubjectID:   created.ID,
		After: map[string]any{
			"date":           today.Format("2006-01-02"),
			"status":         string(session.StatusActive),
			"seeded_records": seeded,
		},
	}); err != nil {
		slog.Warn("Audit write failed for session creation", "session_id", created.ID, "error", err)
	}

	slog.Info("Session reset complete",
		"session_id", created.ID,
		"date", today.Format("2006-01-02"),
		"locked", locked,
		"seeded", seeded)

	return ResetResult{
		SessionID:      created.ID,
		SessionCreated: true,
		LockedSessions: locked,
		SeededRecords:  seeded,
	}, nil
}

// lockStaleSessions transitions every still-active session dated before
// today to locked. Conditional on current status, so a session locked by an
// administrator mid-run is silently skipped.
func (s *LifecycleService) lockStaleSessions(ctx context.Context, today, now time.Time) (int, error) {
	stale, err := s.sessionRepo.ListActiveBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	locked := 0
	for _, sess := range stale {
		ok, err := s.sessionRepo.Lock(ctx, sess.ID, now, SystemActor)
		if err != nil {
			slog.Error("Failed to lock stale session", "session_id", sess.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		locked++

		if err := s.auditor.Record(ctx, domainaudit.AuditLog{
			Action:      domainaudit.ActionSessionLocked,
			Description: fmt.Sprintf("Locked stale session for %s on daily rollover", sess.Date.Format("2006-01-02")),
			SubjectType: "attendance_session",
			SubjectID:   sess.ID,
			Before:      map[string]any{"status": string(session.StatusActive)},
			After:       map[string]any{"status": string(session.StatusLocked), "locked_by": SystemActor},
		}); err != nil {
			slog.Warn("Audit write failed for session lock", "session_id", sess.ID, "error", err)
		}
	}

	return locked, nil
}

func (s *LifecycleService) seedRecords(ctx context.Context, sessionID string, date time.Time) (int64, error) {
	active, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	userIDs := make([]string, 0, len(active))
	for _, emp := range active {
		userIDs = append(userIDs, emp.UserID)
	}

	seeded, err := s.attendanceRepo.SeedPending(ctx, sessionID, date, userIDs)
	if err != nil {
		return seeded, fmt.Errorf("failed to seed pending records: %w", err)
	}

	return seeded, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
