package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shiftwatch/attendance-backend-go/internal/pkg/cron"
)

func newDaemonCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run every engine job on its configured interval",
		Long: `Starts all engine jobs on their configured intervals and blocks
until SIGINT or SIGTERM. Intervals come from the JOB_* environment
variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			scheduler := cron.NewScheduler()
			jobs := cron.NewEngineJobs(a.lifecycle, a.attendance, a.enforcer, a.cleanup, a.cfg.Jobs)
			jobs.RegisterJobs(scheduler)

			scheduler.Start()
			slog.Info("Daemon running; press Ctrl+C to stop")

			<-cmd.Context().Done()

			scheduler.Stop()
			return nil
		},
	}
}
