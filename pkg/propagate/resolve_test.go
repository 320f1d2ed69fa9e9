package propagate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/tree"
)

// buildTree constructs:
//
//	/infra            env=prod, enabled=true, limits={cpu:2, mem:{max:512}}
//	  /us-east        enabled=true, limits={mem:{max:1024}, disk:100}
//	    /web          replicas=3, enabled=true
//	    /db           replicas=2
//	  /eu-west        env=staging
func buildTree(t *testing.T) *tree.Tree {
	t.Helper()

	tr, err := tree.New("infra")
	require.NoError(t, err)
	root := tr.Root()
	root.SetAttribute("env", "prod")
	root.SetAttribute("enabled", true)
	root.SetAttribute("limits", map[string]any{
		"cpu": 2,
		"mem": map[string]any{"max": 512},
	})

	_, err = tr.Create("/infra/us-east", map[string]any{
		"enabled": true,
		"limits": map[string]any{
			"mem":  map[string]any{"max": 1024},
			"disk": 100,
		},
	})
	require.NoError(t, err)

	_, err = tr.Create("/infra/us-east/web", map[string]any{"replicas": 3, "enabled": true})
	require.NoError(t, err)
	_, err = tr.Create("/infra/us-east/db", map[string]any{"replicas": 2})
	require.NoError(t, err)
	_, err = tr.Create("/infra/eu-west", map[string]any{"env": "staging"})
	require.NoError(t, err)

	return tr
}

func TestResolveNone(t *testing.T) {
	tr := buildTree(t)
	web := tr.Get("/infra/us-east/web")

	v, err := Resolve(web, "replicas", ModeNone, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	// No traversal: env lives on the root only.
	v, err = Resolve(web, "env", ModeNone, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestResolveInherit(t *testing.T) {
	tr := buildTree(t)

	// Value from the closest ancestor.
	v, err := Resolve(tr.Get("/infra/us-east/web"), "env", ModeInherit, nil)
	require.NoError(t, err)
	assert.Equal(t, "prod", v)

	// A value on the node itself wins immediately.
	v, err = Resolve(tr.Get("/infra/eu-west"), "env", ModeInherit, nil)
	require.NoError(t, err)
	assert.Equal(t, "staging", v)

	// Nothing anywhere on the chain: default.
	v, err = Resolve(tr.Get("/infra/us-east/web"), "missing", ModeInherit, "dflt")
	require.NoError(t, err)
	assert.Equal(t, "dflt", v)
}

func TestResolveInheritZeroValuesArePresent(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("retries", 5)
	child, err := tr.Create("/root/child", map[string]any{"retries": 0})
	require.NoError(t, err)

	// 0 on the child is present and shadows the ancestor's 5.
	v, err := Resolve(child, "retries", ModeInherit, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestResolveAggregate(t *testing.T) {
	tr := buildTree(t)

	v, err := Resolve(tr.Get("/infra/us-east"), "replicas", ModeAggregate, nil)
	require.NoError(t, err)
	// Pre-order, children in insertion order: web then db.
	assert.Equal(t, []any{3, 2}, v)

	// Subtree value-count property: sequence length equals the number of
	// nodes in the subtree holding the key.
	count := 0
	tr.Get("/infra/us-east").Walk(func(n *tree.Node) {
		if _, ok := n.Attribute("replicas"); ok {
			count++
		}
	})
	assert.Len(t, v, count)

	// Empty subtree result is an empty sequence, never the default.
	v, err = Resolve(tr.Get("/infra/eu-west"), "replicas", ModeAggregate, "ignored")
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestResolveMergeSingleNode(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	limits := map[string]any{"cpu": 2, "mem": map[string]any{"max": 512}}
	tr.Root().SetAttribute("limits", limits)

	v, err := Resolve(tr.Root(), "limits", ModeMerge, nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(limits, v))
}

func TestResolveMergeChain(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("cfg", map[string]any{"a": 1, "b": 2})
	child, err := tr.Create("/root/child", map[string]any{
		"cfg": map[string]any{"b": 3, "c": 4},
	})
	require.NoError(t, err)

	v, err := Resolve(child, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	want := map[string]any{"a": 1, "b": 3, "c": 4}
	assert.Empty(t, cmp.Diff(want, v))
}

func TestResolveMergeNested(t *testing.T) {
	tr := buildTree(t)

	v, err := Resolve(tr.Get("/infra/us-east"), "limits", ModeMerge, nil)
	require.NoError(t, err)
	want := map[string]any{
		"cpu":  2,
		"mem":  map[string]any{"max": 1024},
		"disk": 100,
	}
	assert.Empty(t, cmp.Diff(want, v))
}

func TestResolveMergePartialNestedOverride(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("cfg", map[string]any{
		"m": map[string]any{"x": 1, "y": 9},
	})
	child, err := tr.Create("/root/child", map[string]any{
		"cfg": map[string]any{"m": map[string]any{"x": 2}},
	})
	require.NoError(t, err)

	// Nested keys merge recursively: the override touches m.x only, m.y
	// survives from the ancestor.
	v, err := Resolve(child, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	want := map[string]any{"m": map[string]any{"x": 2, "y": 9}}
	assert.Empty(t, cmp.Diff(want, v))
}

func TestResolveMergeEmptyNestedMapping(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("cfg", map[string]any{
		"m": map[string]any{"x": 1},
	})
	child, err := tr.Create("/root/child", map[string]any{
		"cfg": map[string]any{"m": map[string]any{}},
	})
	require.NoError(t, err)

	// An empty nested mapping contributes no keys; it does not wipe the
	// ancestor's entries.
	v, err := Resolve(child, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	want := map[string]any{"m": map[string]any{"x": 1}}
	assert.Empty(t, cmp.Diff(want, v))
}

func TestResolveMergeDoesNotMutateAttributes(t *testing.T) {
	tr := buildTree(t)

	_, err := Resolve(tr.Get("/infra/us-east"), "limits", ModeMerge, nil)
	require.NoError(t, err)

	// The root's own mapping is untouched by the merge.
	rootLimits, ok := tr.Root().Attribute("limits")
	require.True(t, ok)
	want := map[string]any{"cpu": 2, "mem": map[string]any{"max": 512}}
	assert.Empty(t, cmp.Diff(want, rootLimits))
}

func TestResolveMergeEmptyValueOverrides(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("cfg", map[string]any{"name": "upstream", "count": 2})
	child, err := tr.Create("/root/child", map[string]any{
		"cfg": map[string]any{"name": "", "count": 0},
	})
	require.NoError(t, err)

	// Presence wins: empty string and zero set closer to the node override.
	v, err := Resolve(child, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	want := map[string]any{"name": "", "count": 0}
	assert.Empty(t, cmp.Diff(want, v))
}

func TestResolveMergeDegradesOnNonMapping(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("cfg", map[string]any{"a": 1})
	mid, err := tr.Create("/root/mid", map[string]any{"cfg": "scalar"})
	require.NoError(t, err)
	leaf, err := tr.Create("/root/mid/leaf", map[string]any{
		"cfg": map[string]any{"b": 2},
	})
	require.NoError(t, err)

	// Mixed shapes on the chain: closest-to-node present value wins.
	v, err := Resolve(leaf, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(map[string]any{"b": 2}, v))

	// Same rule seen from the scalar holder.
	v, err = Resolve(mid, "cfg", ModeMerge, nil)
	require.NoError(t, err)
	assert.Equal(t, "scalar", v)
}

func TestResolveMergeNoValueUsesDefault(t *testing.T) {
	tr := buildTree(t)
	v, err := Resolve(tr.Get("/infra/us-east/web"), "missing", ModeMerge, "dflt")
	require.NoError(t, err)
	assert.Equal(t, "dflt", v)
}

func TestResolveRequirePath(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("enabled", true)
	mid, err := tr.Create("/root/mid", map[string]any{"enabled": true})
	require.NoError(t, err)
	leaf, err := tr.Create("/root/mid/leaf", map[string]any{"enabled": true})
	require.NoError(t, err)

	v, err := Resolve(leaf, "enabled", ModeRequirePath, nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// A falsy link anywhere on the chain breaks the requirement, even
	// though the leaf itself is truthy.
	mid.SetAttribute("enabled", false)
	v, err = Resolve(leaf, "enabled", ModeRequirePath, "dflt")
	require.NoError(t, err)
	assert.Nil(t, v, "failing require-path never substitutes the default")
}

func TestResolveRequirePathAbsentOnSelf(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("env", "prod")
	child, err := tr.Create("/root/child", nil)
	require.NoError(t, err)

	// INHERIT would find the root's value, but require-path demands the
	// node itself carry the key.
	inherited, err := Resolve(child, "env", ModeInherit, nil)
	require.NoError(t, err)
	assert.Equal(t, "prod", inherited)

	v, err := Resolve(child, "env", ModeRequirePath, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResolveCollectAncestors(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("tag", "r")
	_, err = tr.Create("/root/mid", nil) // no tag
	require.NoError(t, err)
	leaf, err := tr.Create("/root/mid/leaf", map[string]any{"tag": "l"})
	require.NoError(t, err)

	// Self→root order, skipping absent holders.
	v, err := Resolve(leaf, "tag", ModeCollectAncestors, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"l", "r"}, v)

	// Never consults the default.
	v, err = Resolve(leaf, "missing", ModeCollectAncestors, "ignored")
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestResolveInvalidMode(t *testing.T) {
	tr := buildTree(t)
	_, err := Resolve(tr.Root(), "env", Mode(99), nil)
	assert.True(t, errors.Is(err, errUtils.ErrInvalidMode))
}

func TestRequirePathContributingOrder(t *testing.T) {
	tr, err := tree.New("root")
	require.NoError(t, err)
	tr.Root().SetAttribute("enabled", true)
	_, err = tr.Create("/root/mid", map[string]any{"enabled": true})
	require.NoError(t, err)
	leaf, err := tr.Create("/root/mid/leaf", map[string]any{"enabled": true})
	require.NoError(t, err)

	_, paths, ok := RequirePath(leaf, "enabled")
	require.True(t, ok)
	assert.Equal(t, []string{"/root", "/root/mid", "/root/mid/leaf"}, paths)
}

func TestAggregateParallelPaths(t *testing.T) {
	tr := buildTree(t)
	values, paths := Aggregate(tr.Get("/infra/us-east"), "replicas")
	assert.Equal(t, []any{3, 2}, values)
	assert.Equal(t, []string{"/infra/us-east/web", "/infra/us-east/db"}, paths)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: false},
		{name: "false", value: false, want: false},
		{name: "true", value: true, want: true},
		{name: "zero int", value: 0, want: false},
		{name: "nonzero int", value: 7, want: true},
		{name: "zero float", value: 0.0, want: false},
		{name: "empty string", value: "", want: false},
		{name: "string", value: "x", want: true},
		{name: "empty slice", value: []any{}, want: false},
		{name: "slice", value: []any{1}, want: true},
		{name: "empty map", value: map[string]any{}, want: false},
		{name: "map", value: map[string]any{"a": 1}, want: true},
		{name: "zero uint64", value: uint64(0), want: false},
		{name: "struct value", value: struct{ X int }{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.value))
		})
	}
}
