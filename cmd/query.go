package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confprop/confprop/pkg/codec"
	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/query"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Select nodes by wildcard pattern, optionally resolving an attribute",
	Long: `Selects every node whose path matches the wildcard pattern. A "*"
segment matches exactly one path segment, "**" matches zero or more, and a
segment containing "*" globs within that segment. With --key, the matched
nodes' values are resolved under --mode and printed instead of the paths.`,
	Example: `  confprop query -f tree.yaml --pattern '/infra/**/web'
  confprop query -f tree.yaml --pattern '/infra/*' --key replicas --mode aggregate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		pattern, _ := cmd.Flags().GetString("pattern")
		key, _ := cmd.Flags().GetString("key")
		modeName, _ := cmd.Flags().GetString("mode")

		t, err := codec.LoadFile(file)
		if err != nil {
			return err
		}

		if key == "" {
			paths := make([]string, 0)
			for _, node := range query.Query(t, pattern) {
				paths = append(paths, node.Path())
			}
			return writeYAML(paths)
		}

		mode, err := propagate.ParseMode(modeName)
		if err != nil {
			return err
		}
		values, err := query.QueryValues(t, pattern, key, mode)
		if err != nil {
			return err
		}
		return writeYAML(values)
	},
}

func init() {
	queryCmd.Flags().StringP("file", "f", "", "tree file (YAML or JSON)")
	queryCmd.Flags().String("pattern", "", "wildcard path pattern, e.g. /infra/**/web")
	queryCmd.Flags().String("key", "", "attribute key to resolve on matched nodes")
	queryCmd.Flags().String("mode", "inherit", "propagation mode used with --key")
	_ = queryCmd.MarkFlagRequired("file")
	_ = queryCmd.MarkFlagRequired("pattern")
	RootCmd.AddCommand(queryCmd)
}
