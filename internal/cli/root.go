// Package cli implements the emissions command line: one-shot calculations,
// reference table inspection and the long-running HTTP and MCP servers.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shipment-emissions-service/internal/app"
	"shipment-emissions-service/internal/config"
)

type rootOptions struct {
	configPath    string
	referencePath string
	verbose       bool
}

// NewRootCommand builds the command tree. Each call returns independent flag
// state.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "emissions",
		Short:         "Estimate shipment CO2e and recommend the lowest-emission vehicle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.Get("EMISSIONS_CONFIG", ""), "configuration file (.yaml or .json)")
	root.PersistentFlags().StringVar(&opts.referencePath, "reference", "", "reference tables: a CSV directory or an .xlsx workbook")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newCalculateCommand(opts),
		newReferenceCommand(opts),
		newServeCommand(opts),
		newMCPCommand(opts),
	)
	return root
}

// Execute runs the CLI against os.Args.
func Execute() error { return NewRootCommand().Execute() }

// runMode decides the fallback log level: one-shot commands stay quiet unless
// asked otherwise, servers keep the configured level.
type runMode int

const (
	oneShot runMode = iota
	longRunning
)

// loadConfig resolves configuration with the root flags applied on top.
func (o *rootOptions) loadConfig(mode runMode) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.referencePath != "" {
		cfg.Reference.Source = config.SourceFile
		cfg.Reference.Path = o.referencePath
	}
	switch {
	case o.verbose:
		cfg.Logging.Level = "debug"
	case mode == oneShot && !cfg.Logging.LevelSet():
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

// loadApp wires the application. Logs go to stderr so stdout carries only
// results.
func (o *rootOptions) loadApp(cmd *cobra.Command, mode runMode) (*app.App, error) {
	cfg, err := o.loadConfig(mode)
	if err != nil {
		return nil, err
	}
	return app.New(commandContext(cmd), cfg, app.Options{LogOutput: cmd.ErrOrStderr()})
}

func closeApp(cmd *cobra.Command, a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: shutdown: %v\n", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
