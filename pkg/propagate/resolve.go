package propagate

import (
	"fmt"

	"dario.cat/mergo"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/tree"
)

// Resolve computes the effective value of key on node under the given mode.
//
// The default applies only where a mode defines it: ModeNone, ModeInherit
// and ModeMerge fall back to def when nothing is present. ModeAggregate and
// ModeCollectAncestors return a possibly empty []any and never consult def.
// ModeRequirePath returns nil (absent) in the failing case, never def.
//
// The only possible error is ErrInvalidMode; resolution itself is total.
func Resolve(node *tree.Node, key string, mode Mode, def any) (any, error) {
	switch mode {
	case ModeNone:
		if v, ok := node.Attribute(key); ok {
			return v, nil
		}
		return def, nil

	case ModeInherit:
		if v, _, ok := Inherit(node, key); ok {
			return v, nil
		}
		return def, nil

	case ModeAggregate:
		values, _ := Aggregate(node, key)
		return values, nil

	case ModeMerge:
		if v, ok := mergeChain(node, key); ok {
			return v, nil
		}
		return def, nil

	case ModeRequirePath:
		if v, _, ok := RequirePath(node, key); ok {
			return v, nil
		}
		return nil, nil

	case ModeCollectAncestors:
		values, _ := CollectAncestors(node, key)
		return values, nil

	default:
		return nil, fmt.Errorf("%w: %v", errUtils.ErrInvalidMode, mode)
	}
}

// Inherit walks node→root and returns the first present value together with
// the path of the node that holds it. A value on the node itself wins
// immediately.
func Inherit(node *tree.Node, key string) (any, string, bool) {
	for current := node; current != nil; current = current.Parent() {
		if v, ok := current.Attribute(key); ok {
			return v, current.Path(), true
		}
	}
	return nil, "", false
}

// Aggregate collects every present value in the subtree rooted at node,
// pre-order with children in insertion order, together with the
// contributing node paths. The two slices are parallel in length and order,
// non-nil and possibly empty.
func Aggregate(node *tree.Node, key string) ([]any, []string) {
	values := make([]any, 0)
	paths := make([]string, 0)
	node.Walk(func(n *tree.Node) {
		if v, ok := n.Attribute(key); ok {
			values = append(values, v)
			paths = append(paths, n.Path())
		}
	})
	return values, paths
}

// CollectAncestors collects every present value on the node→root chain,
// self first, together with the contributing node paths. The two slices
// are parallel, non-nil and possibly empty.
func CollectAncestors(node *tree.Node, key string) ([]any, []string) {
	values := make([]any, 0)
	paths := make([]string, 0)
	for current := node; current != nil; current = current.Parent() {
		if v, ok := current.Attribute(key); ok {
			values = append(values, v)
			paths = append(paths, current.Path())
		}
	}
	return values, paths
}

// RequirePath returns the node's own value when the node and every ancestor
// up to the root hold a truthy value for key. On success the returned paths
// list every node examined, root→self. An absent key and a present-but-falsy
// key fail identically.
func RequirePath(node *tree.Node, key string) (any, []string, bool) {
	own, ok := node.Attribute(key)
	if !ok || !Truthy(own) {
		return nil, nil, false
	}

	ancestors := node.Ancestors()
	paths := make([]string, 0, len(ancestors))
	for i := len(ancestors) - 1; i >= 0; i-- {
		v, ok := ancestors[i].Attribute(key)
		if !ok || !Truthy(v) {
			return nil, nil, false
		}
		paths = append(paths, ancestors[i].Path())
	}
	return own, paths, true
}

// Contribution is one present value on the root→node chain.
type Contribution struct {
	Value any
	Path  string
}

// Contributions returns the present values for key on the root→node chain,
// in root-to-node order.
func Contributions(node *tree.Node, key string) []Contribution {
	ancestors := node.Ancestors()
	chain := make([]Contribution, 0, len(ancestors))
	for i := len(ancestors) - 1; i >= 0; i-- {
		if v, ok := ancestors[i].Attribute(key); ok {
			chain = append(chain, Contribution{Value: v, Path: ancestors[i].Path()})
		}
	}
	return chain
}

// AllMappings reports whether every contribution carries a nested mapping.
func AllMappings(chain []Contribution) bool {
	for _, c := range chain {
		if _, ok := AsMapping(c.Value); !ok {
			return false
		}
	}
	return true
}

// mergeChain deep-merges mapping values along the root→node chain with
// closer-to-node entries overriding. If any contributing value is not a
// mapping, it degrades to closest-to-node present value wins. Returns
// (nil, false) when the chain holds no value at all.
func mergeChain(node *tree.Node, key string) (any, bool) {
	chain := Contributions(node, key)
	if len(chain) == 0 {
		return nil, false
	}

	if !AllMappings(chain) {
		// Mixed shapes: inherit semantics over the same chain.
		return chain[len(chain)-1].Value, true
	}

	// All mappings: deep-merge in root→node order. Each contribution is
	// deep-copied first so resolution never mutates node attributes.
	first, _ := AsMapping(chain[0].Value)
	merged := DeepCopyMap(first)
	for _, c := range chain[1:] {
		m, _ := AsMapping(c.Value)
		if err := mergo.Merge(&merged, DeepCopyMap(m), mergo.WithOverride); err != nil {
			// mergo cannot fail on non-nil map[string]any inputs; fall
			// back to the closest value rather than inventing an error
			// surface resolution does not have.
			return chain[len(chain)-1].Value, true
		}
	}
	return merged, true
}

// AsMapping reports whether a value is a nested mapping.
func AsMapping(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// DeepCopyMap returns a recursive copy of a mapping. Nested mappings are
// copied; slices are copied with their mapping elements; scalars are shared.
func DeepCopyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = deepCopyValue(v)
	}
	return result
}

func deepCopyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return DeepCopyMap(typed)
	case []any:
		copied := make([]any, len(typed))
		for i, item := range typed {
			copied[i] = deepCopyValue(item)
		}
		return copied
	default:
		return v
	}
}
