package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/fixtures"
)

func TestMarkAbsentees_BeforeCutoffLeavesPending(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	// Friday 23:00 shift, cutoff lands Saturday 01:00. One minute early.
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 0, 59, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records,
		fixtures.PendingRecord(sessID, "user-1", friday),
		fixtures.PendingRecord(sessID, "user-2", friday),
	)

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, marked)
	for _, rec := range env.records.Records {
		assert.Equal(t, attendance.StatusPending, rec.Status)
	}
}

func TestMarkAbsentees_AtCutoffSweepsPendingOnly(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 1, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 23, 5, 0, 0, time.UTC)
	checkedIn := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records,
		checkedIn,
		fixtures.PendingRecord(sessID, "user-2", friday),
		fixtures.PendingRecord(sessID, "user-3", friday),
	)

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, marked)

	kept, ok := env.records.Get(checkedIn.ID)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusPresent, kept.Status)

	assert.Len(t, env.auditLog.ByAction(domainaudit.ActionMarkedAbsent), 2)
	// Alerts are off by default.
	assert.Empty(t, env.notifications.Queued)
}

func TestMarkAbsentees_DayShiftCutoffIsNextMorning(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.DaySchedule()
	// Monday 09:00 shift with a 01:00 boundary: the cutoff is Tuesday
	// 01:00, so late Monday evening is still before it.
	env := newAttendanceEnv(sched, time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, monday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", monday))

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	env.clk.Instant = time.Date(2025, 6, 3, 1, 0, 0, 0, time.UTC)

	marked, err = env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}

func TestMarkAbsentees_HonorsBoundaryHourSetting(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 1, 30, 0, 0, time.UTC))
	env.settings.Set(settings.KeyShiftBoundaryHour, "3")
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	env.clk.Instant = time.Date(2025, 6, 7, 3, 0, 0, 0, time.UTC)

	marked, err = env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}

func TestMarkAbsentees_SkipsWeekendSessions(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 8, 2, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, saturday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", saturday))

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, marked)
}

func TestMarkAbsentees_QueuesManagerAlerts(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 1, 0, 0, 0, time.UTC))
	env.settings.SetBool(settings.KeyAbsentAlerts, true)
	env.employees.Employees = append(env.employees.Employees,
		fixtures.Worker("user-1", "Ana"),
		fixtures.Manager("mgr-1", "Citra"),
	)
	sessID := env.seedSession(t, sched.ID, friday)
	env.records.Records = append(env.records.Records, fixtures.PendingRecord(sessID, "user-1", friday))

	marked, err := env.svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, marked)

	alerts := env.notifications.ByType(notification.TypeMarkedAbsent)
	require.Len(t, alerts, 1)
	assert.Equal(t, "mgr-1", alerts[0].RecipientID)
}

func TestRecalculateStatus_RederivesLateness(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 4, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	// Checked in 16 minutes past shift start but stored as present, as
	// if imported under different grace settings.
	timeIn := time.Date(2025, 6, 6, 23, 16, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	changed, err := env.svc.RecalculateStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	stored, ok := env.records.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusLate, stored.Status)
	assert.Equal(t, 16, stored.MinutesLate)
	assert.Len(t, env.auditLog.ByAction(domainaudit.ActionStatusRecomputed), 1)
}

func TestRecalculateStatus_SecondRunChangesNothing(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 4, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 23, 16, 0, 0, time.UTC)
	env.records.Records = append(env.records.Records, fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn))

	changed, err := env.svc.RecalculateStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	changed, err = env.svc.RecalculateStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestRecalculateStatus_LeavesRecordsWithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 4, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	absent := fixtures.PendingRecord(sessID, "user-1", friday)
	absent.Status = attendance.StatusAbsent
	env.records.Records = append(env.records.Records, absent)

	changed, err := env.svc.RecalculateStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, changed)
	stored, ok := env.records.Get(absent.ID)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusAbsent, stored.Status)
}
