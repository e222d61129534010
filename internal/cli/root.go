// Package cli holds the cobra commands of the incan-gold binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
)

// ServiceName identifies the process in traces and NATS connections
const ServiceName = "incan-gold"

// RootOptions holds global flags for all commands
type RootOptions struct {
	Debug bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "incan-gold",
		Short: "Incan Gold game server",
		Long: `Runs rooms of the push-your-luck temple exploration game over HTTP,
Server-Sent Events and NATS, and simulates expeditions offline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Debug {
				game.SetDebug(true)
				rooms.SetDebug(true)
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "verbose engine logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
