// Package cli implements the dbgcore command line.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dbgcore",
		Short: "dbgcore - debuggee pause/resume/terminate controller",
		Long: `Drive a debuggee through its pause, resume and terminate lifecycle.

The run command replays a scenario file against the simulated engine and
prints every event the controller raises.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/dbgcore/config.yaml)")

	cmd.AddCommand(newRunCmd(&configPath))
	cmd.AddCommand(newConfigCmd(&configPath))

	return cmd
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
