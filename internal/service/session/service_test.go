package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/fixtures"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	svcaudit "github.com/shiftwatch/attendance-backend-go/internal/service/audit"
)

// 2025-06-02 is a Monday.
var mondayMorning = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

type lifecycleEnv struct {
	svc       *LifecycleService
	sessions  *fixtures.SessionRepo
	records   *fixtures.AttendanceRepo
	schedules *fixtures.ScheduleRepo
	employees *fixtures.EmployeeRepo
	settings  *fixtures.Settings
	auditLog  *fixtures.AuditRepo
	clk       *clock.Fixed
}

func newLifecycleEnv(sched schedule.Schedule, employees ...employee.Employee) *lifecycleEnv {
	env := &lifecycleEnv{
		sessions:  fixtures.NewSessionRepo(),
		records:   fixtures.NewAttendanceRepo(),
		schedules: fixtures.NewScheduleRepo(sched),
		employees: fixtures.NewEmployeeRepo(employees...),
		settings:  fixtures.NewSettings(),
		auditLog:  fixtures.NewAuditRepo(),
		clk:       clock.FixedAt(mondayMorning),
	}
	auditor := svcaudit.NewAuditService(env.auditLog, env.clk)
	env.svc = NewLifecycleService(env.schedules, env.sessions, env.records, env.employees, env.settings, auditor, env.clk)
	return env
}

func TestResetDailySession_CreatesSessionAndSeedsRecords(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	env := newLifecycleEnv(sched,
		fixtures.Worker("user-1", "Ana"),
		fixtures.Worker("user-2", "Budi"),
		fixtures.Manager("user-3", "Citra"),
	)

	result, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.True(t, result.SessionCreated)
	assert.Equal(t, int64(3), result.SeededRecords)

	stored, ok := env.sessions.Get(result.SessionID)
	require.True(t, ok)
	assert.Equal(t, session.StatusActive, stored.Status)
	assert.Equal(t, sched.ID, stored.ScheduleID)
	assert.True(t, stored.AttendanceRequired)

	assert.Len(t, env.records.Records, 3)
	assert.Len(t, env.auditLog.ByAction(domainaudit.ActionSessionCreated), 1)
}

func TestResetDailySession_SecondRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(fixtures.DaySchedule(), fixtures.Worker("user-1", "Ana"))

	first, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)
	require.True(t, first.SessionCreated)

	second, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.True(t, second.Skipped)
	assert.Equal(t, "session already exists", second.SkipReason)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, int64(0), second.SeededRecords)
	assert.Len(t, env.sessions.Sessions, 1)
	assert.Len(t, env.records.Records, 1)
}

func TestResetDailySession_ResumedRunTopsUpMissingRecords(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(fixtures.DaySchedule(), fixtures.Worker("user-1", "Ana"))

	first, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	// An employee activated after the morning run still gets a record.
	env.employees.Employees = append(env.employees.Employees, fixtures.Worker("user-2", "Budi"))

	second, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.False(t, second.Skipped)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, int64(1), second.SeededRecords)
	assert.Len(t, env.records.Records, 2)
}

func TestResetDailySession_SkipsNonWorkingDay(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(fixtures.DaySchedule(), fixtures.Worker("user-1", "Ana"))
	env.clk.Instant = time.Date(2025, 6, 7, 6, 0, 0, 0, time.UTC) // Saturday

	result, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, "non-working day", result.SkipReason)
	assert.Empty(t, env.sessions.Sessions)
	assert.Empty(t, env.records.Records)
}

func TestResetDailySession_WeekendSettingOverridesWorkDays(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(fixtures.DaySchedule(), fixtures.Worker("user-1", "Ana"))
	env.clk.Instant = time.Date(2025, 6, 7, 6, 0, 0, 0, time.UTC) // Saturday
	env.settings.SetBool(settings.KeyWeekendCheckin, true)

	result, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.True(t, result.SessionCreated)
	assert.Len(t, env.records.Records, 1)
}

func TestResetDailySession_LocksStaleActiveSessions(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	env := newLifecycleEnv(sched, fixtures.Worker("user-1", "Ana"))

	friday := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	stale := fixtures.ActiveSession(sched.ID, friday)
	env.sessions.Sessions = append(env.sessions.Sessions, stale)

	result, err := env.svc.ResetDailySession(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.LockedSessions)

	lockedSession, ok := env.sessions.Get(stale.ID)
	require.True(t, ok)
	assert.Equal(t, session.StatusLocked, lockedSession.Status)
	require.NotNil(t, lockedSession.LockedBy)
	assert.Equal(t, SystemActor, *lockedSession.LockedBy)
	require.NotNil(t, lockedSession.LockedAt)
	assert.Equal(t, mondayMorning, *lockedSession.LockedAt)

	assert.Len(t, env.auditLog.ByAction(domainaudit.ActionSessionLocked), 1)
}

func TestResetDailySession_FailsWithoutActiveSchedule(t *testing.T) {
	ctx := context.Background()
	inactive := fixtures.DaySchedule()
	inactive.Status = schedule.StatusInactive
	env := newLifecycleEnv(inactive)

	_, err := env.svc.ResetDailySession(ctx)
	assert.ErrorIs(t, err, schedule.ErrNoActiveSchedule)
}

func TestResetDailySession_FailsWithMultipleActiveSchedules(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(fixtures.DaySchedule())
	env.schedules.Schedules = append(env.schedules.Schedules, fixtures.NightSchedule())

	_, err := env.svc.ResetDailySession(ctx)
	assert.ErrorIs(t, err, schedule.ErrMultipleActiveSchedules)
}
