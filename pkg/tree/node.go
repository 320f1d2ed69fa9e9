// Package tree implements the configuration node hierarchy that the
// propagation engine resolves over. A Node owns its children (keyed by name,
// insertion order preserved) and holds a non-owning pointer to its parent,
// used only for upward traversal.
package tree

import (
	"fmt"
	"strings"

	errUtils "github.com/confprop/confprop/errors"
)

// Node is a named element of the configuration tree carrying its own
// attribute set. Attribute values are opaque to the tree: scalars, slices,
// or nested map[string]any mappings.
type Node struct {
	name       string
	parent     *Node
	children   map[string]*Node
	childOrder []string
	attributes map[string]any
}

// NewNode creates a node with the given name and initial attributes.
// The name must be non-empty and must not contain the path separator.
// The attribute map is copied.
func NewNode(name string, attrs map[string]any) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", errUtils.ErrInvalidNodeName)
	}
	if strings.Contains(name, Separator) {
		return nil, fmt.Errorf("%w: name %q cannot contain %q", errUtils.ErrInvalidNodeName, name, Separator)
	}

	n := &Node{
		name:       name,
		children:   make(map[string]*Node),
		attributes: make(map[string]any, len(attrs)),
	}
	for k, v := range attrs {
		n.attributes[k] = v
	}
	return n, nil
}

// Name returns the node's name, unique within its parent.
func (n *Node) Name() string {
	return n.name
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path returns the full path from the root to this node,
// e.g. "/region/datacenter/host".
func (n *Node) Path() string {
	if n.parent == nil {
		return Separator + n.name
	}
	return n.parent.Path() + Separator + n.name
}

// AddChild attaches a child node. The child must not already have a sibling
// with the same name. Insertion order is preserved for traversal.
func (n *Node) AddChild(child *Node) error {
	if _, ok := n.children[child.name]; ok {
		return fmt.Errorf("%w: %q", errUtils.ErrChildExists, child.name)
	}
	n.children[child.name] = child
	n.childOrder = append(n.childOrder, child.name)
	child.parent = n
	return nil
}

// RemoveChild detaches and returns the named child together with its subtree.
func (n *Node) RemoveChild(name string) (*Node, error) {
	child, ok := n.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: no child %q under %s", errUtils.ErrNodeNotFound, name, n.Path())
	}
	delete(n.children, name)
	for i, childName := range n.childOrder {
		if childName == name {
			n.childOrder = append(n.childOrder[:i], n.childOrder[i+1:]...)
			break
		}
	}
	child.parent = nil
	return child, nil
}

// Child returns the named child, or nil if none exists.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	children := make([]*Node, 0, len(n.childOrder))
	for _, name := range n.childOrder {
		children = append(children, n.children[name])
	}
	return children
}

// HasChildren reports whether the node has any children.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Attribute returns the node's own value for key. The second return reports
// presence: the key exists and its value is non-nil.
func (n *Node) Attribute(key string) (any, bool) {
	v, ok := n.attributes[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// SetAttribute sets the node's own value for key.
func (n *Node) SetAttribute(key string, value any) {
	n.attributes[key] = value
}

// DeleteAttribute removes the node's own value for key.
func (n *Node) DeleteAttribute(key string) error {
	if _, ok := n.attributes[key]; !ok {
		return fmt.Errorf("%w: %q on %s", errUtils.ErrAttributeNotFound, key, n.Path())
	}
	delete(n.attributes, key)
	return nil
}

// Attributes returns a copy of the node's own attribute map.
func (n *Node) Attributes() map[string]any {
	attrs := make(map[string]any, len(n.attributes))
	for k, v := range n.attributes {
		attrs[k] = v
	}
	return attrs
}

// AttributeKeys returns the node's own attribute keys in unspecified order.
func (n *Node) AttributeKeys() []string {
	keys := make([]string, 0, len(n.attributes))
	for k := range n.attributes {
		keys = append(keys, k)
	}
	return keys
}

// Walk visits the node and every descendant in pre-order, children in
// insertion order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, name := range n.childOrder {
		n.children[name].Walk(visit)
	}
}

// Ancestors returns the chain of nodes from this node up to the root,
// self first.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for current := n; current != nil; current = current.parent {
		chain = append(chain, current)
	}
	return chain
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(name=%q, path=%q)", n.name, n.Path())
}
