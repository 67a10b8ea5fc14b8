package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/fixtures"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	svcaudit "github.com/shiftwatch/attendance-backend-go/internal/service/audit"
	svcnotification "github.com/shiftwatch/attendance-backend-go/internal/service/notification"
)

// 2025-06-06 is a Friday.
var (
	friday   = time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	saturday = friday.AddDate(0, 0, 1)
	monday   = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
)

type attendanceEnv struct {
	svc           *AttendanceService
	records       *fixtures.AttendanceRepo
	breaks        *fixtures.BreakRepo
	sessions      *fixtures.SessionRepo
	schedules     *fixtures.ScheduleRepo
	employees     *fixtures.EmployeeRepo
	settings      *fixtures.Settings
	notifications *fixtures.NotificationRepo
	auditLog      *fixtures.AuditRepo
	clk           *clock.Fixed
}

func newAttendanceEnv(sched schedule.Schedule, at time.Time) *attendanceEnv {
	env := &attendanceEnv{
		records:       fixtures.NewAttendanceRepo(),
		breaks:        fixtures.NewBreakRepo(),
		sessions:      fixtures.NewSessionRepo(),
		schedules:     fixtures.NewScheduleRepo(sched),
		employees:     fixtures.NewEmployeeRepo(),
		settings:      fixtures.NewSettings(),
		notifications: fixtures.NewNotificationRepo(),
		auditLog:      fixtures.NewAuditRepo(),
		clk:           clock.FixedAt(at),
	}
	env.records.Breaks = env.breaks
	env.svc = NewAttendanceService(
		env.records,
		env.breaks,
		env.sessions,
		env.schedules,
		env.employees,
		env.settings,
		svcnotification.NewNotificationService(env.notifications),
		svcaudit.NewAuditService(env.auditLog, env.clk),
		env.clk,
	)
	return env
}

// seedSession opens an active session for the schedule on day and returns
// its ID.
func (env *attendanceEnv) seedSession(t *testing.T, scheduleID string, day time.Time) string {
	t.Helper()
	sess := fixtures.ActiveSession(scheduleID, day)
	env.sessions.Sessions = append(env.sessions.Sessions, sess)
	return sess.ID
}

func TestCheckIn_WithinGraceIsPresent(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 14, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	rec, err := env.svc.CheckIn(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 0, rec.MinutesLate)
	require.NotNil(t, rec.TimeIn)
	assert.Equal(t, env.clk.Instant, *rec.TimeIn)
}

func TestCheckIn_AtGraceBoundaryIsPresent(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 15, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	rec, err := env.svc.CheckIn(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 0, rec.MinutesLate)
}

func TestCheckIn_PastGraceIsLateFromShiftStart(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 16, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	rec, err := env.svc.CheckIn(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLate, rec.Status)
	// Lateness counts from the 23:00 shift start, not from the end of
	// the grace period.
	assert.Equal(t, 16, rec.MinutesLate)
}

func TestCheckIn_TwiceFails(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 10, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	_, err := env.svc.CheckIn(ctx, "user-1")
	require.NoError(t, err)

	_, err = env.svc.CheckIn(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_AfterAbsenceSweepKeepsAbsent(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 1, 30, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, saturday)

	swept := fixtures.PendingRecord(sessID, "user-1", saturday)
	swept.Status = attendance.StatusAbsent
	env.records.Records = append(env.records.Records, swept)

	_, err := env.svc.CheckIn(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	stored, ok := env.records.Get(swept.ID)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusAbsent, stored.Status)
	assert.Nil(t, stored.TimeIn)
}

func TestCheckIn_CreatesRecordWhenNotSeeded(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 5, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	rec, err := env.svc.CheckIn(ctx, "user-9")
	require.NoError(t, err)

	assert.Equal(t, sessID, rec.SessionID)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Len(t, env.records.Records, 1)
}

func TestCheckIn_FailsWithoutSession(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 6, 23, 5, 0, 0, time.UTC))

	_, err := env.svc.CheckIn(ctx, "user-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestCheckOut_ComputesHoursAndOvertime(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 2, 17, 30, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, monday)

	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", monday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	lunch := fixtures.OpenBreak(rec.ID, "user-1", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	lunchEnd := lunch.BreakStart.Add(time.Hour)
	lunch.BreakEnd = &lunchEnd
	lunch.DurationMinutes = 60
	env.breaks.Breaks = append(env.breaks.Breaks, lunch)

	out, err := env.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	// 09:00-17:30 is 510 minutes, minus the 60-minute lunch.
	assert.InDelta(t, 7.5, out.HoursWorked, 0.001)
	assert.Equal(t, 30, out.OvertimeMinutes)
	require.NotNil(t, out.TimeOut)
	assert.Equal(t, env.clk.Instant, *out.TimeOut)
}

func TestCheckOut_OvernightUsesYesterdaysRecord(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 7, 5, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 22, 53, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	b := fixtures.OpenBreak(rec.ID, "user-1", time.Date(2025, 6, 7, 2, 0, 0, 0, time.UTC))
	bEnd := b.BreakStart.Add(90 * time.Minute)
	b.BreakEnd = &bEnd
	b.DurationMinutes = 90
	env.breaks.Breaks = append(env.breaks.Breaks, b)

	out, err := env.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, rec.ID, out.ID)
	// 22:53 to 07:05 spans 494 minutes across midnight, minus 90.
	assert.InDelta(t, 6.73, out.HoursWorked, 0.001)
	// Shift end resolves to 07:00 the next morning.
	assert.Equal(t, 5, out.OvertimeMinutes)
}

func TestCheckOut_FailsWhenNotCheckedIn(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, monday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", monday))

	_, err := env.svc.CheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_TwiceFails(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, monday)

	timeIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	env.records.Records = append(env.records.Records, fixtures.CheckedInRecord(sessID, "user-1", monday, timeIn))

	_, err := env.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	_, err = env.svc.CheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}
