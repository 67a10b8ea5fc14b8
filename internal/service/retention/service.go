package retention

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	domainaudit "github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/clock"
	"github.com/shiftwatch/attendance-backend-go/internal/service/audit"
)

// CleanupResult summarizes one retention run.
type CleanupResult struct {
	Skipped       bool
	Policy        string
	Sessions      int64
	Records       int64
	Breaks        int64
	Notifications int64
	AuditLogs     int64
}

// Total returns the number of rows deleted across all tables.
func (r CleanupResult) Total() int64 {
	return r.Sessions + r.Records + r.Breaks + r.Notifications + r.AuditLogs
}

// TxRunner executes fn atomically. Production wiring passes the database
// transaction wrapper; a nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type CleanupService struct {
	sessionRepo      session.SessionRepository
	attendanceRepo   attendance.AttendanceRepository
	breakRepo        breaks.BreakRepository
	notificationRepo notification.NotificationRepository
	auditRepo        domainaudit.AuditRepository
	settings         settings.Store
	auditor          audit.Recorder
	clk              clock.Clock
	tx               TxRunner
}

func NewCleanupService(
	sessionRepo session.SessionRepository,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo breaks.BreakRepository,
	notificationRepo notification.NotificationRepository,
	auditRepo domainaudit.AuditRepository,
	settingsStore settings.Store,
	auditor audit.Recorder,
	clk clock.Clock,
	tx TxRunner,
) *CleanupService {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &CleanupService{
		sessionRepo:      sessionRepo,
		attendanceRepo:   attendanceRepo,
		breakRepo:        breakRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		settings:         settingsStore,
		auditor:          auditor,
		clk:              clk,
		tx:               tx,
	}
}

// CleanupData deletes rows older than the configured retention window
// across sessions, records, breaks, notifications and audit logs, then
// writes one summary audit entry. A "forever" policy is a no-op.
func (s *CleanupService) CleanupData(ctx context.Context) (CleanupResult, error) {
	policy, err := s.settings.String(ctx, settings.KeyRetentionPolicy, settings.RetentionForever)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("failed to read retention policy: %w", err)
	}

	months, ok := retentionMonths(policy)
	if !ok {
		slog.Info("Cleanup skipped: retention disabled", "policy", policy)
		return CleanupResult{Skipped: true, Policy: policy}, nil
	}

	cutoff := s.clk.Now().AddDate(0, -months, 0)
	result := CleanupResult{Policy: policy}

	// All tables shrink together or not at all.
	err = s.tx(ctx, func(ctx context.Context) error {
		if result.Records, err = s.attendanceRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return fmt.Errorf("failed to clean attendance records: %w", err)
		}
		if result.Breaks, err = s.breakRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return fmt.Errorf("failed to clean breaks: %w", err)
		}
		if result.Sessions, err = s.sessionRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return fmt.Errorf("failed to clean sessions: %w", err)
		}
		if result.Notifications, err = s.notificationRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return fmt.Errorf("failed to clean notifications: %w", err)
		}
		if result.AuditLogs, err = s.auditRepo.DeleteOlderThan(ctx, cutoff); err != nil {
			return fmt.Errorf("failed to clean audit logs: %w", err)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if err := s.auditor.Record(ctx, domainaudit.AuditLog{
		Action:      domainaudit.ActionDataCleanup,
		Description: fmt.Sprintf("Retention cleanup (%s) removed %d rows", policy, result.Total()),
		SubjectType: "retention",
		SubjectID:   policy,
		After: map[string]any{
			"cutoff":        cutoff.Format("2006-01-02"),
			"sessions":      result.Sessions,
			"records":       result.Records,
			"breaks":        result.Breaks,
			"notifications": result.Notifications,
			"audit_logs":    result.AuditLogs,
		},
	}); err != nil {
		slog.Warn("Audit write failed for cleanup summary", "error", err)
	}

	slog.Info("Cleanup complete", "policy", policy, "deleted", result.Total())
	return result, nil
}

func retentionMonths(policy string) (int, bool) {
	switch policy {
	case settings.RetentionOneMonth:
		return 1, true
	case settings.RetentionThreeMonths:
		return 3, true
	case settings.RetentionSixMonths:
		return 6, true
	case settings.RetentionOneYear:
		return 12, true
	default:
		return 0, false
	}
}
