package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confprop/confprop/pkg/codec"
	"github.com/confprop/confprop/pkg/logger"
	"github.com/confprop/confprop/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a tree's attributes against a schema file",
	Example: `  confprop validate -f tree.yaml --schema schema.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		schemaFile, _ := cmd.Flags().GetString("schema")

		t, err := codec.LoadFile(file)
		if err != nil {
			return err
		}
		registry, err := schema.LoadRegistry(schemaFile)
		if err != nil {
			return err
		}

		report := registry.ValidateTree(t)
		for _, v := range report.Violations {
			logger.Warn("schema violation", "path", v.Path, "key", v.Key, "message", v.Message)
		}
		if err := report.Err(); err != nil {
			return err
		}
		logger.Info("tree is valid", "file", file, "nodes", t.Len())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "tree file (YAML or JSON)")
	validateCmd.Flags().String("schema", "", "schema file mapping attribute keys to constraints")
	_ = validateCmd.MarkFlagRequired("file")
	_ = validateCmd.MarkFlagRequired("schema")
	RootCmd.AddCommand(validateCmd)
}
