// Package cli wires the attendance engines into one job-runner command.
// Every subcommand is a single idempotent pass of its engine; daemon mode
// keeps them running on their configured intervals.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the job runner.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shiftwatch-jobs",
		Short: "Attendance engine job runner",
		Long: `Runs the shift attendance engines: daily session rollover, the
absence sweep, auto-checkout, break enforcement, status and hours
recomputation, and retention cleanup.

Each subcommand performs one idempotent pass and exits; re-running a
command never duplicates work. Use "daemon" to keep every job running
on its configured interval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newResetDailySessionCommand(opts))
	cmd.AddCommand(newMarkAbsentCommand(opts))
	cmd.AddCommand(newAutoCheckoutCommand(opts))
	cmd.AddCommand(newEndExpiredBreaksCommand(opts))
	cmd.AddCommand(newRecalculateStatusCommand(opts))
	cmd.AddCommand(newRecalculateHoursCommand(opts))
	cmd.AddCommand(newCleanupDataCommand(opts))
	cmd.AddCommand(newDaemonCommand(opts))

	return cmd
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
