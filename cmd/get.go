package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/codec"
	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/provenance"
	"github.com/confprop/confprop/pkg/tree"
)

// provenanceOutput is the YAML shape of a provenance record.
type provenanceOutput struct {
	Value             any               `yaml:"value"`
	SourcePath        string            `yaml:"source_path"`
	Mode              string            `yaml:"mode"`
	KeySources        map[string]string `yaml:"key_sources,omitempty"`
	ContributingPaths []string          `yaml:"contributing_paths,omitempty"`
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Resolve an attribute on a node under a propagation mode",
	Example: `  confprop get -f tree.yaml --path /infra/us-east/web --key env --mode inherit
  confprop get -f tree.yaml --path /infra/us-east/web --key limits --mode merge --provenance`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		path, _ := cmd.Flags().GetString("path")
		key, _ := cmd.Flags().GetString("key")
		modeName, _ := cmd.Flags().GetString("mode")
		defaultValue, _ := cmd.Flags().GetString("default")
		wantProvenance, _ := cmd.Flags().GetBool("provenance")

		t, err := codec.LoadFile(file)
		if err != nil {
			return err
		}
		node := t.Get(path)
		if node == nil {
			return fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, tree.NormalizePath(path))
		}
		mode, err := propagate.ParseMode(modeName)
		if err != nil {
			return err
		}

		if wantProvenance {
			record, err := provenance.Resolve(node, key, mode)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%w: %q did not resolve on %s under mode %s", errUtils.ErrAttributeNotFound, key, node.Path(), mode)
			}
			return writeYAML(provenanceOutput{
				Value:             record.Value,
				SourcePath:        record.SourcePath,
				Mode:              record.Mode.String(),
				KeySources:        record.KeySources,
				ContributingPaths: record.ContributingPaths,
			})
		}

		var def any
		if defaultValue != "" {
			def = defaultValue
		}
		value, err := propagate.Resolve(node, key, mode, def)
		if err != nil {
			return err
		}
		return writeYAML(value)
	},
}

func writeYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func init() {
	getCmd.Flags().StringP("file", "f", "", "tree file (YAML or JSON)")
	getCmd.Flags().String("path", "", "node path, e.g. /infra/us-east/web")
	getCmd.Flags().String("key", "", "attribute key to resolve")
	getCmd.Flags().String("mode", "inherit", "propagation mode")
	getCmd.Flags().String("default", "", "default value when nothing resolves")
	getCmd.Flags().Bool("provenance", false, "report which node(s) contributed the value")
	_ = getCmd.MarkFlagRequired("file")
	_ = getCmd.MarkFlagRequired("path")
	_ = getCmd.MarkFlagRequired("key")
	RootCmd.AddCommand(getCmd)
}
