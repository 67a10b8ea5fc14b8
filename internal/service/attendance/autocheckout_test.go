package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/fixtures"
)

func TestAutoCheckout_DisabledByDefault(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC))
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 23, 0, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	closed, err := env.svc.AutoCheckout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, closed)
	stored, _ := env.records.Get(rec.ID)
	assert.Nil(t, stored.TimeOut)
}

func TestAutoCheckout_StampsScheduledShiftEnd(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 8, 1, 0, 0, time.UTC))
	env.settings.SetBool(settings.KeyAutoCheckout, true)
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 22, 53, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	closed, err := env.svc.AutoCheckout(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, closed)

	stored, ok := env.records.Get(rec.ID)
	require.True(t, ok)
	require.NotNil(t, stored.TimeOut)
	// Closed at the nominal 07:00 shift end, not the 08:01 job run.
	assert.Equal(t, time.Date(2025, 6, 7, 7, 0, 0, 0, time.UTC), *stored.TimeOut)
	assert.True(t, stored.AutoCheckout)
	require.NotNil(t, stored.Notes)
	assert.Contains(t, *stored.Notes, "Auto checkout")
	// Hours are the recomputation job's concern.
	assert.Zero(t, stored.HoursWorked)

	assert.Len(t, env.auditLog.ByAction(domainaudit.ActionAutoCheckout), 1)

	alerts := env.notifications.ByType(notification.TypeAutoCheckout)
	require.Len(t, alerts, 1)
	assert.Equal(t, "user-1", alerts[0].RecipientID)
}

func TestAutoCheckout_WithinGraceHourLeavesOpen(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	// Exactly one hour past the 07:00 shift end is still inside the
	// window; force-close happens strictly after it.
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC))
	env.settings.SetBool(settings.KeyAutoCheckout, true)
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 23, 0, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	env.records.Records = append(env.records.Records, rec)

	closed, err := env.svc.AutoCheckout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, closed)
	stored, _ := env.records.Get(rec.ID)
	assert.Nil(t, stored.TimeOut)
	assert.False(t, stored.AutoCheckout)
}

func TestAutoCheckout_SkipsRecordsAlreadyClosed(t *testing.T) {
	ctx := context.Background()
	sched := fixtures.NightSchedule()
	env := newAttendanceEnv(sched, time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC))
	env.settings.SetBool(settings.KeyAutoCheckout, true)
	sessID := env.seedSession(t, sched.ID, friday)

	timeIn := time.Date(2025, 6, 6, 23, 0, 0, 0, time.UTC)
	timeOut := time.Date(2025, 6, 7, 7, 10, 0, 0, time.UTC)
	rec := fixtures.CheckedInRecord(sessID, "user-1", friday, timeIn)
	rec.TimeOut = &timeOut
	env.records.Records = append(env.records.Records, rec)

	closed, err := env.svc.AutoCheckout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, closed)
	stored, _ := env.records.Get(rec.ID)
	assert.False(t, stored.AutoCheckout)
	assert.Equal(t, timeOut, *stored.TimeOut)
}
