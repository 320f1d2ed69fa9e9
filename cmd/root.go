// Package cmd implements the confprop command-line interface.
package cmd

import (
	charm "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/confprop/confprop/pkg/logger"
)

var logLevel string

// RootCmd is the top-level confprop command.
var RootCmd = &cobra.Command{
	Use:   "confprop",
	Short: "Hierarchical configuration trees with propagation and provenance",
	Long: `confprop resolves attribute values across a tree of named configuration
nodes according to a propagation mode (none, inherit, aggregate, merge,
require-path, collect-ancestors), reports where each value came from, and
selects nodes by wildcard path patterns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := charm.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "logs-level", "warn", "log level (debug, info, warn, error)")
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}
