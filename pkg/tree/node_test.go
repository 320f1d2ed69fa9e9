package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/confprop/confprop/errors"
)

func TestNewNodeValidation(t *testing.T) {
	tests := []struct {
		name     string
		nodeName string
		wantErr  bool
	}{
		{name: "valid name", nodeName: "web", wantErr: false},
		{name: "name with dots", nodeName: "server.prod", wantErr: false},
		{name: "empty name", nodeName: "", wantErr: true},
		{name: "name with separator", nodeName: "a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewNode(tt.nodeName, nil)
			if tt.wantErr {
				assert.Nil(t, node)
				assert.True(t, errors.Is(err, errUtils.ErrInvalidNodeName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nodeName, node.Name())
		})
	}
}

func TestNewNodeCopiesAttributes(t *testing.T) {
	attrs := map[string]any{"env": "prod"}
	node, err := NewNode("web", attrs)
	require.NoError(t, err)

	attrs["env"] = "dev"
	v, ok := node.Attribute("env")
	assert.True(t, ok)
	assert.Equal(t, "prod", v)
}

func TestNodePath(t *testing.T) {
	root, err := NewNode("region", nil)
	require.NoError(t, err)
	dc, err := NewNode("us-east-1", nil)
	require.NoError(t, err)
	host, err := NewNode("web", nil)
	require.NoError(t, err)

	require.NoError(t, root.AddChild(dc))
	require.NoError(t, dc.AddChild(host))

	assert.Equal(t, "/region", root.Path())
	assert.Equal(t, "/region/us-east-1", dc.Path())
	assert.Equal(t, "/region/us-east-1/web", host.Path())
}

func TestAddChildDuplicate(t *testing.T) {
	parent, err := NewNode("parent", nil)
	require.NoError(t, err)
	a, err := NewNode("child", nil)
	require.NoError(t, err)
	b, err := NewNode("child", nil)
	require.NoError(t, err)

	require.NoError(t, parent.AddChild(a))
	err = parent.AddChild(b)
	assert.True(t, errors.Is(err, errUtils.ErrChildExists))
}

func TestRemoveChildClearsParent(t *testing.T) {
	parent, err := NewNode("parent", nil)
	require.NoError(t, err)
	child, err := NewNode("child", nil)
	require.NoError(t, err)
	require.NoError(t, parent.AddChild(child))

	removed, err := parent.RemoveChild("child")
	require.NoError(t, err)
	assert.Same(t, child, removed)
	assert.Nil(t, removed.Parent())
	assert.Nil(t, parent.Child("child"))

	_, err = parent.RemoveChild("child")
	assert.True(t, errors.Is(err, errUtils.ErrNodeNotFound))
}

func TestChildrenPreserveInsertionOrder(t *testing.T) {
	parent, err := NewNode("parent", nil)
	require.NoError(t, err)

	// Names deliberately out of lexical order.
	for _, name := range []string{"zeta", "alpha", "mid"} {
		child, err := NewNode(name, nil)
		require.NoError(t, err)
		require.NoError(t, parent.AddChild(child))
	}

	var got []string
	for _, child := range parent.Children() {
		got = append(got, child.Name())
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)

	// Removing from the middle keeps the remaining order.
	_, err = parent.RemoveChild("alpha")
	require.NoError(t, err)
	got = nil
	for _, child := range parent.Children() {
		got = append(got, child.Name())
	}
	assert.Equal(t, []string{"zeta", "mid"}, got)
}

func TestAttributePresence(t *testing.T) {
	node, err := NewNode("web", map[string]any{
		"zero":  0,
		"empty": "",
		"off":   false,
		"nil":   nil,
	})
	require.NoError(t, err)

	// Zero values are present; a stored nil is not.
	for _, key := range []string{"zero", "empty", "off"} {
		_, ok := node.Attribute(key)
		assert.True(t, ok, "key %q should be present", key)
	}
	_, ok := node.Attribute("nil")
	assert.False(t, ok)
	_, ok = node.Attribute("missing")
	assert.False(t, ok)
}

func TestDeleteAttribute(t *testing.T) {
	node, err := NewNode("web", map[string]any{"env": "prod"})
	require.NoError(t, err)

	require.NoError(t, node.DeleteAttribute("env"))
	_, ok := node.Attribute("env")
	assert.False(t, ok)

	err = node.DeleteAttribute("env")
	assert.True(t, errors.Is(err, errUtils.ErrAttributeNotFound))
}

func TestWalkPreOrder(t *testing.T) {
	root, err := NewNode("root", nil)
	require.NoError(t, err)
	a, _ := NewNode("a", nil)
	b, _ := NewNode("b", nil)
	a1, _ := NewNode("a1", nil)
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(a1))

	var visited []string
	root.Walk(func(n *Node) {
		visited = append(visited, n.Name())
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, visited)
}

func TestAncestors(t *testing.T) {
	root, _ := NewNode("root", nil)
	mid, _ := NewNode("mid", nil)
	leaf, _ := NewNode("leaf", nil)
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	chain := leaf.Ancestors()
	require.Len(t, chain, 3)
	assert.Same(t, leaf, chain[0])
	assert.Same(t, mid, chain[1])
	assert.Same(t, root, chain[2])
}
