package tree

import (
	"fmt"

	errUtils "github.com/confprop/confprop/errors"
)

// Tree owns a node hierarchy and provides path-based access to it.
type Tree struct {
	root *Node
}

// New creates a tree with a root node of the given name.
func New(rootName string) (*Tree, error) {
	root, err := NewNode(rootName, nil)
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

// FromRoot wraps an existing node as the root of a new tree.
func FromRoot(root *Node) *Tree {
	return &Tree{root: root}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Get returns the node at the given path, or nil if none exists.
// The path "/" resolves to the root.
func (t *Tree) Get(path string) *Node {
	if path == Separator {
		return t.root
	}

	segments := SplitPath(path)
	if len(segments) == 0 || segments[0] != t.root.name {
		return nil
	}

	current := t.root
	for _, segment := range segments[1:] {
		current = current.Child(segment)
		if current == nil {
			return nil
		}
	}
	return current
}

// Create makes a node at the given path, building any missing intermediate
// nodes along the way. The attributes apply to the final node only.
func (t *Tree) Create(path string, attrs map[string]any) (*Node, error) {
	segments := SplitPath(path)
	if len(segments) == 0 || segments[0] != t.root.name {
		return nil, fmt.Errorf("%w: path must start with %q", errUtils.ErrInvalidPath, Separator+t.root.name)
	}
	if t.Get(path) != nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeExists, NormalizePath(path))
	}

	current := t.root
	for i, segment := range segments[1:] {
		child := current.Child(segment)
		if child == nil {
			isFinal := i == len(segments)-2
			var nodeAttrs map[string]any
			if isFinal {
				nodeAttrs = attrs
			}
			newChild, err := NewNode(segment, nodeAttrs)
			if err != nil {
				return nil, err
			}
			if err := current.AddChild(newChild); err != nil {
				return nil, err
			}
			child = newChild
		}
		current = child
	}
	return current, nil
}

// Delete detaches and returns the node at the given path together with its
// subtree. The root cannot be deleted.
func (t *Tree) Delete(path string) (*Node, error) {
	node := t.Get(path)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, NormalizePath(path))
	}
	if node == t.root {
		return nil, errUtils.ErrCannotDeleteRoot
	}
	return node.Parent().RemoveChild(node.Name())
}

// Walk visits every node in the tree in pre-order.
func (t *Tree) Walk(visit func(*Node)) {
	t.root.Walk(visit)
}

// WalkFrom visits the node at startPath and its subtree in pre-order.
func (t *Tree) WalkFrom(startPath string, visit func(*Node)) error {
	start := t.Get(startPath)
	if start == nil {
		return fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, NormalizePath(startPath))
	}
	start.Walk(visit)
	return nil
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) { count++ })
	return count
}

func (t *Tree) String() string {
	return fmt.Sprintf("Tree(root=%q, size=%d)", t.root.name, t.Len())
}
