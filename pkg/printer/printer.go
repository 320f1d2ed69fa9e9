// Package printer renders configuration trees for humans and reports
// simple tree-wide statistics.
package printer

import (
	"fmt"
	"sort"
	"strings"

	lipglosstree "github.com/charmbracelet/lipgloss/tree"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/tree"
)

// Render returns a pretty-printed view of the tree, optionally restricted
// to the subtree at startPath (empty means the whole tree). In compact mode
// only node names are shown; otherwise each node's own attributes are
// appended, sorted by key.
func Render(t *tree.Tree, startPath string, compact bool) (string, error) {
	start := t.Root()
	if startPath != "" {
		start = t.Get(startPath)
		if start == nil {
			return "", fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, tree.NormalizePath(startPath))
		}
	}
	return buildTree(start, compact).String(), nil
}

func buildTree(n *tree.Node, compact bool) *lipglosstree.Tree {
	rendered := lipglosstree.Root(label(n, compact))
	for _, child := range n.Children() {
		rendered.Child(buildTree(child, compact))
	}
	return rendered
}

func label(n *tree.Node, compact bool) string {
	if compact {
		return n.Name()
	}
	attrs := n.Attributes()
	if len(attrs) == 0 {
		return n.Name()
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return fmt.Sprintf("%s [%s]", n.Name(), strings.Join(pairs, ", "))
}

// Depth returns the maximum depth of the tree: 1 for a lone root, 2 for a
// root with children, and so on.
func Depth(t *tree.Tree) int {
	return nodeDepth(t.Root())
}

func nodeDepth(n *tree.Node) int {
	deepest := 0
	for _, child := range n.Children() {
		if d := nodeDepth(child); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// AttributeKeys returns every attribute key used anywhere in the tree,
// sorted.
func AttributeKeys(t *tree.Tree) []string {
	seen := make(map[string]struct{})
	t.Walk(func(n *tree.Node) {
		for _, k := range n.AttributeKeys() {
			seen[k] = struct{}{}
		}
	})

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
