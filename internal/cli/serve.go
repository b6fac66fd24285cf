package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shipment-emissions-service/internal/mcptools"
	"shipment-emissions-service/internal/platform/logging"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (calculate, reference, chat, metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := root.loadApp(cmd, longRunning)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)
			return a.Serve(ctx)
		},
	}
}

func newMCPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.loadApp(cmd, longRunning)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			return mcptools.Serve(mcptools.NewServer(&mcptools.Tools{
				Calculator: a.Calculator,
				Geocoder:   a.Geocoder,
				Report:     a.Report,
				Logger:     logging.Component(a.Logger, "mcp"),
			}))
		},
	}
}
