package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confprop/confprop/pkg/codec"
	"github.com/confprop/confprop/pkg/printer"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Pretty-print a configuration tree",
	Example: `  confprop show -f tree.yaml
  confprop show -f tree.yaml --path /infra/us-east --compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		path, _ := cmd.Flags().GetString("path")
		compact, _ := cmd.Flags().GetBool("compact")

		t, err := codec.LoadFile(file)
		if err != nil {
			return err
		}
		rendered, err := printer.Render(t, path, compact)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, rendered)
		return err
	},
}

func init() {
	showCmd.Flags().StringP("file", "f", "", "tree file (YAML or JSON)")
	showCmd.Flags().String("path", "", "restrict output to the subtree at this path")
	showCmd.Flags().Bool("compact", false, "show node names only, without attributes")
	_ = showCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(showCmd)
}
