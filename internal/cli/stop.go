package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewStopCommand creates the stop command.
func NewStopCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stop",
		Short:         "Stop the running edit or serve session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok, err := loadState(rootOpts.Dir)
			if err != nil {
				return WrapExitError(ExitFailure, "state", err)
			}
			if !ok {
				printf(cmd, "No running session\n")
				return nil
			}
			if st.PID == os.Getpid() {
				return NewExitError(ExitCommandError, "refusing to stop this process")
			}
			if err := terminate(st.PID); err != nil {
				// Stale record: the process is gone.
				_ = os.Remove(statePath(rootOpts.Dir))
				printf(cmd, "Session %d not running; cleared %s\n", st.PID, statePath(rootOpts.Dir))
				return nil
			}
			printf(cmd, "Stopped %s session (pid %d)\n", st.Mode, st.PID)
			return nil
		},
	}
}
