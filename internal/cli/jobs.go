package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// runPass connects, runs one engine pass and prints its summary line.
func runPass(cmd *cobra.Command, fn func(ctx context.Context, a *app) (string, error)) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := fn(ctx, a)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func newResetDailySessionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-daily-session",
		Short: "Open today's session and seed pending records",
		Long: `Locks stale active sessions, opens the attendance session for the
current date and seeds one pending record per active employee. Safe to
re-run: an existing session is resumed and only missing records are
topped up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				result, err := a.lifecycle.ResetDailySession(ctx)
				if err != nil {
					return "", err
				}
				if result.Skipped {
					return fmt.Sprintf("skipped: %s", result.SkipReason), nil
				}
				return fmt.Sprintf("session %s: created=%t locked=%d seeded=%d",
					result.SessionID, result.SessionCreated, result.LockedSessions, result.SeededRecords), nil
			})
		},
	}
}

func newMarkAbsentCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-absent",
		Short: "Sweep sessions past cutoff, marking no-shows absent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				marked, err := a.attendance.MarkAbsentees(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("marked absent: %d", marked), nil
			})
		},
	}
}

func newAutoCheckoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "auto-checkout",
		Short: "Force-close records left open past shift end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				closed, err := a.attendance.AutoCheckout(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("auto-checked-out: %d", closed), nil
			})
		},
	}
}

func newEndExpiredBreaksCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "end-expired-breaks",
		Short: "Close breaks that exceeded their duration limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				ended, err := a.enforcer.EndExpiredBreaks(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("breaks ended: %d", ended), nil
			})
		},
	}
}

func newRecalculateStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate-status",
		Short: "Re-derive present/late from stored check-in times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				changed, err := a.attendance.RecalculateStatus(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("statuses updated: %d", changed), nil
			})
		},
	}
}

func newRecalculateHoursCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate-hours",
		Short: "Re-derive hours worked for completed records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				changed, err := a.attendance.RecalculateHours(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("hours updated: %d", changed), nil
			})
		},
	}
}

func newCleanupDataCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-data",
		Short: "Delete rows older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, func(ctx context.Context, a *app) (string, error) {
				result, err := a.cleanup.CleanupData(ctx)
				if err != nil {
					return "", err
				}
				if result.Skipped {
					return fmt.Sprintf("skipped: retention policy is %q", result.Policy), nil
				}
				return fmt.Sprintf("deleted %d rows (sessions=%d records=%d breaks=%d notifications=%d audit=%d)",
					result.Total(), result.Sessions, result.Records, result.Breaks,
					result.Notifications, result.AuditLogs), nil
			})
		},
	}
}
