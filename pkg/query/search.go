package query

import (
	"reflect"

	"github.com/confprop/confprop/pkg/tree"
)

// Criteria matches nodes whose own attributes equal every listed key-value
// pair. Comparison is deep equality.
type Criteria map[string]any

func (c Criteria) matches(n *tree.Node) bool {
	for key, want := range c {
		got, ok := n.Attribute(key)
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// startNode resolves the optional subtree restriction; an empty path means
// the whole tree.
func startNode(t *tree.Tree, path string) *tree.Node {
	if path == "" {
		return t.Root()
	}
	return t.Get(path)
}

// Find returns the nodes under path (the whole tree when path is empty)
// whose own attributes match all criteria.
func Find(t *tree.Tree, path string, criteria Criteria) []*tree.Node {
	start := startNode(t, path)
	if start == nil {
		return nil
	}

	found := make([]*tree.Node, 0)
	start.Walk(func(n *tree.Node) {
		if criteria.matches(n) {
			found = append(found, n)
		}
	})
	return found
}

// FindFirst returns the first node in pre-order matching all criteria,
// or nil if none does.
func FindFirst(t *tree.Tree, path string, criteria Criteria) *tree.Node {
	start := startNode(t, path)
	if start == nil {
		return nil
	}

	var first *tree.Node
	start.Walk(func(n *tree.Node) {
		if first == nil && criteria.matches(n) {
			first = n
		}
	})
	return first
}

// Filter returns the nodes under path for which the predicate holds.
func Filter(t *tree.Tree, path string, predicate func(*tree.Node) bool) []*tree.Node {
	start := startNode(t, path)
	if start == nil {
		return nil
	}

	kept := make([]*tree.Node, 0)
	start.Walk(func(n *tree.Node) {
		if predicate(n) {
			kept = append(kept, n)
		}
	})
	return kept
}

// Exists reports whether any node under path matches all criteria.
func Exists(t *tree.Tree, path string, criteria Criteria) bool {
	return FindFirst(t, path, criteria) != nil
}

// Count returns the number of nodes under path matching all criteria.
func Count(t *tree.Tree, path string, criteria Criteria) int {
	return len(Find(t, path, criteria))
}
