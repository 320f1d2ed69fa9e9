package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confprop/confprop/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the confprop version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(os.Stdout, version.Version)
		return err
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
