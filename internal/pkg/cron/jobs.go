package cron

import (
	"context"

	"github.com/shiftwatch/attendance-backend-go/internal/config"
	attendancesvc "github.com/shiftwatch/attendance-backend-go/internal/service/attendance"
	breaksvc "github.com/shiftwatch/attendance-backend-go/internal/service/breaks"
	retentionsvc "github.com/shiftwatch/attendance-backend-go/internal/service/retention"
	sessionsvc "github.com/shiftwatch/attendance-backend-go/internal/service/session"
)

// EngineJobs bundles the attendance engines for daemon mode. Every job is
// idempotent, so overlapping or repeated runs are harmless.
type EngineJobs struct {
	lifecycle  *sessionsvc.LifecycleService
	attendance *attendancesvc.AttendanceService
	enforcer   *breaksvc.EnforcerService
	cleanup    *retentionsvc.CleanupService
	cfg        config.JobsConfig
}

func NewEngineJobs(
	lifecycle *sessionsvc.LifecycleService,
	attendance *attendancesvc.AttendanceService,
	enforcer *breaksvc.EnforcerService,
	cleanup *retentionsvc.CleanupService,
	cfg config.JobsConfig,
) *EngineJobs {
	return &EngineJobs{
		lifecycle:  lifecycle,
		attendance: attendance,
		enforcer:   enforcer,
		cleanup:    cleanup,
		cfg:        cfg,
	}
}

// RegisterJobs wires every engine onto the scheduler at its configured
// cadence. The recalculation jobs ride the absence-sweep interval; they
// settle to a fixed point, so running them more often than strictly needed
// only costs reads.
func (j *EngineJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reset_daily_session", j.cfg.SessionResetInterval, j.resetDailySession)
	scheduler.AddJob("mark_absent_employees", j.cfg.AbsenceSweepInterval, j.markAbsentees)
	scheduler.AddJob("auto_checkout", j.cfg.AutoCheckoutInterval, j.autoCheckout)
	scheduler.AddJob("end_expired_breaks", j.cfg.BreakEnforcerInterval, j.endExpiredBreaks)
	scheduler.AddJob("recalculate_status", j.cfg.AbsenceSweepInterval, j.recalculateStatus)
	scheduler.AddJob("recalculate_hours", j.cfg.AbsenceSweepInterval, j.recalculateHours)
	scheduler.AddJob("cleanup_data", j.cfg.CleanupInterval, j.cleanupData)
}

func (j *EngineJobs) resetDailySession(ctx context.Context) error {
	_, err := j.lifecycle.ResetDailySession(ctx)
	return err
}

func (j *EngineJobs) markAbsentees(ctx context.Context) error {
	_, err := j.attendance.MarkAbsentees(ctx)
	return err
}

func (j *EngineJobs) autoCheckout(ctx context.Context) error {
	_, err := j.attendance.AutoCheckout(ctx)
	return err
}

func (j *EngineJobs) endExpiredBreaks(ctx context.Context) error {
	_, err := j.enforcer.EndExpiredBreaks(ctx)
	return err
}

func (j *EngineJobs) recalculateStatus(ctx context.Context) error {
	_, err := j.attendance.RecalculateStatus(ctx)
	return err
}

func (j *EngineJobs) recalculateHours(ctx context.Context) error {
	_, err := j.attendance.RecalculateHours(ctx)
	return err
}

func (j *EngineJobs) cleanupData(ctx context.Context) error {
	_, err := j.cleanup.CleanupData(ctx)
	return err
}
