// Package query answers wildcard-pattern queries over configuration trees,
// composing the path matcher with the propagation resolver.
package query

import (
	"github.com/confprop/confprop/pkg/match"
	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/tree"
)

// Query returns every node whose path matches the wildcard pattern, in
// pre-order. The walk always covers the whole tree; it is never
// pattern-guided, so results are independent of the pattern's shape.
func Query(t *tree.Tree, pattern string) []*tree.Node {
	matched := make([]*tree.Node, 0)
	re := match.Compile(pattern)
	t.Walk(func(n *tree.Node) {
		if re.MatchString(n.Path()) {
			matched = append(matched, n)
		}
	})
	return matched
}

// QueryValues resolves (key, mode) for every node matching the pattern.
// Under ModeAggregate each node's value sequence is flattened into the
// result (an empty sequence contributes nothing); under every other mode
// the resolved value is appended only if present.
func QueryValues(t *tree.Tree, pattern, key string, mode propagate.Mode) ([]any, error) {
	results := make([]any, 0)
	for _, node := range Query(t, pattern) {
		value, err := propagate.Resolve(node, key, mode, nil)
		if err != nil {
			return nil, err
		}
		if mode == propagate.ModeAggregate {
			if seq, ok := value.([]any); ok {
				results = append(results, seq...)
			}
			continue
		}
		if value != nil {
			results = append(results, value)
		}
	}
	return results, nil
}
