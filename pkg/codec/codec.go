// Package codec converts configuration trees to and from their serialized
// forms: generic maps, YAML files and JSON files.
package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/tree"
)

// NodeData is the serialized shape of a node and its subtree.
type NodeData struct {
	Name       string              `yaml:"name" json:"name" mapstructure:"name"`
	Attributes map[string]any      `yaml:"attributes,omitempty" json:"attributes,omitempty" mapstructure:"attributes"`
	Children   map[string]NodeData `yaml:"children,omitempty" json:"children,omitempty" mapstructure:"children"`
}

// ToData serializes a node and its subtree.
func ToData(n *tree.Node) NodeData {
	data := NodeData{
		Name:       n.Name(),
		Attributes: n.Attributes(),
	}
	if n.HasChildren() {
		data.Children = make(map[string]NodeData)
		for _, child := range n.Children() {
			data.Children[child.Name()] = ToData(child)
		}
	}
	return data
}

// ToMap serializes a tree to a generic map with only plain values (nested
// map[string]any all the way down), suitable for handing to any encoder.
func ToMap(t *tree.Tree) map[string]any {
	return dataToMap(ToData(t.Root()))
}

func dataToMap(data NodeData) map[string]any {
	out := map[string]any{"name": data.Name}
	if len(data.Attributes) > 0 {
		out["attributes"] = data.Attributes
	}
	if len(data.Children) > 0 {
		children := make(map[string]any, len(data.Children))
		for name, child := range data.Children {
			children[name] = dataToMap(child)
		}
		out["children"] = children
	}
	return out
}

// FromMap builds a tree from a generic map with the NodeData shape.
// Serialized maps do not preserve child document order, so children are
// attached in lexical name order for determinism.
func FromMap(data map[string]any) (*tree.Tree, error) {
	var nodeData NodeData
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &nodeData,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrInvalidTreeData, err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrInvalidTreeData, err)
	}
	return FromData(nodeData)
}

// FromData builds a tree from the serialized shape.
func FromData(data NodeData) (*tree.Tree, error) {
	root, err := buildNode(data)
	if err != nil {
		return nil, err
	}
	return tree.FromRoot(root), nil
}

func buildNode(data NodeData) (*tree.Node, error) {
	node, err := tree.NewNode(data.Name, data.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrInvalidTreeData, err)
	}

	names := make([]string, 0, len(data.Children))
	for name := range data.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		childData := data.Children[name]
		if childData.Name == "" {
			return nil, fmt.Errorf("%w: child %q is missing a name", errUtils.ErrInvalidTreeData, name)
		}
		if childData.Name != name {
			return nil, fmt.Errorf("%w: child key %q does not match child name %q", errUtils.ErrInvalidTreeData, name, childData.Name)
		}
		child, err := buildNode(childData)
		if err != nil {
			return nil, err
		}
		if err := node.AddChild(child); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// LoadFile loads a tree from a YAML (.yaml/.yml) or JSON (.json) file.
func LoadFile(path string) (*tree.Tree, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data NodeData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUtils.ErrInvalidTreeData, path, err)
		}
	case ".json":
		if err := json.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUtils.ErrInvalidTreeData, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errUtils.ErrUnsupportedFormat, filepath.Ext(path))
	}

	return FromData(data)
}

// SaveFile writes a tree to a YAML (.yaml/.yml) or JSON (.json) file,
// chosen by extension.
func SaveFile(t *tree.Tree, path string) error {
	data := ToData(t.Root())

	var content []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		content, err = yaml.Marshal(data)
	case ".json":
		content, err = json.MarshalIndent(data, "", "  ")
	default:
		return fmt.Errorf("%w: %s", errUtils.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0o644)
}
