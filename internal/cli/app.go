package cli

import (
	"context"
	"fmt"

	"github.com/shiftwatch/attendance-backend-go/internal/config"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwatch/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftwatch/attendance-backend-go/internal/service/attendance"
	auditService "github.com/shiftwatch/attendance-backend-go/internal/service/audit"
	breakService "github.com/shiftwatch/attendance-backend-go/internal/service/breaks"
	notificationService "github.com/shiftwatch/attendance-backend-go/internal/service/notification"
	retentionService "github.com/shiftwatch/attendance-backend-go/internal/service/retention"
	sessionService "github.com/shiftwatch/attendance-backend-go/internal/service/session"
)

// app holds the fully wired engine services for one command invocation.
type app struct {
	cfg *config.Config
	db  *database.DB

	lifecycle  *sessionService.LifecycleService
	attendance *attendanceService.AttendanceService
	enforcer   *breakService.EnforcerService
	cleanup    *retentionService.CleanupService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	scheduleRepo := postgresql.NewScheduleRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	settingsStore := postgresql.NewSettingsStore(db)

	clk := clock.System()
	auditor := auditService.NewAuditService(auditRepo, clk)
	notifier := notificationService.NewNotificationService(notificationRepo)

	return &app{
		cfg: cfg,
		db:  db,
		lifecycle: sessionService.NewLifecycleService(
			scheduleRepo, sessionRepo, attendanceRepo, employeeRepo, settingsStore, auditor, clk,
		),
		attendance: attendanceService.NewAttendanceService(
			attendanceRepo, breakRepo, sessionRepo, scheduleRepo, employeeRepo,
			settingsStore, notifier, auditor, clk,
		),
		enforcer: breakService.NewEnforcerService(breakRepo, attendanceRepo, auditor, clk),
		cleanup: retentionService.NewCleanupService(
			sessionRepo, attendanceRepo, breakRepo, notificationRepo, auditRepo,
			settingsStore, auditor, clk,
			func(ctx context.Context, fn func(ctx context.Context) error) error {
				return postgresql.WithTransaction(ctx, db, fn)
			},
		),
	}, nil
}

func (a *app) close() {
	a.db.Close()
}
