// Package cli implements the CLI adapter for the launcher.
// Commands delegate to the app layer or to a running instance over HTTP.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/johnmschoonover/multi-llm-hosting/internal/app"
	"github.com/johnmschoonover/multi-llm-hosting/pkg/version"
)

// NewRootCmd creates the root command for the launcher CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launcher",
		Short: "launcher - single-slot GPU backend scheduler and reverse proxy",
		Long: `launcher fronts a set of mutually exclusive inference containers with one
HTTP endpoint. A request for a route starts its container (stopping whichever
other tracked container holds the GPU), waits for it to report healthy, then
forwards the request. Idle containers are stopped after a timeout.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRoutesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and proxy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return app.Run(ctx, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("launcher %s\n", version.Version())
			cmd.Printf("Commit: %s\n", version.Commit())
			cmd.Printf("Build Date: %s\n", version.BuildDate())
		},
	}
}
