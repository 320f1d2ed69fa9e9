// Package treeops implements structural operations over configuration
// trees: clone, copy, move, rename and tree-into-tree merging.
package treeops

import (
	"fmt"

	"dario.cat/mergo"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/tree"
)

// cloneNode deep-copies a node and its subtree under a new name, walking
// children in insertion order so sibling order (and with it aggregate
// traversal order) carries over to the copy.
func cloneNode(n *tree.Node, name string) (*tree.Node, error) {
	clone, err := tree.NewNode(name, propagate.DeepCopyMap(n.Attributes()))
	if err != nil {
		return nil, err
	}
	for _, child := range n.Children() {
		clonedChild, err := cloneNode(child, child.Name())
		if err != nil {
			return nil, err
		}
		if err := clone.AddChild(clonedChild); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// Clone returns a deep copy of the tree, independent of the original.
func Clone(t *tree.Tree) (*tree.Tree, error) {
	root, err := cloneNode(t.Root(), t.Root().Name())
	if err != nil {
		return nil, err
	}
	return tree.FromRoot(root), nil
}

// CloneSubtree returns a new tree rooted at a deep copy of the node at path.
func CloneSubtree(t *tree.Tree, path string) (*tree.Tree, error) {
	node := t.Get(path)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, tree.NormalizePath(path))
	}
	root, err := cloneNode(node, node.Name())
	if err != nil {
		return nil, err
	}
	return tree.FromRoot(root), nil
}

// Copy duplicates the node at srcPath (with its subtree) at dstPath. The
// destination's last segment becomes the copy's name; missing intermediate
// nodes are created.
func Copy(t *tree.Tree, srcPath, dstPath string) (*tree.Node, error) {
	src := t.Get(srcPath)
	if src == nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, tree.NormalizePath(srcPath))
	}
	if t.Get(dstPath) != nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeExists, tree.NormalizePath(dstPath))
	}

	copied, err := cloneNode(src, tree.Basename(dstPath))
	if err != nil {
		return nil, err
	}

	parentPath := tree.ParentPath(dstPath)
	parent := t.Get(parentPath)
	if parent == nil {
		parent, err = t.Create(parentPath, nil)
		if err != nil {
			return nil, err
		}
	}

	if err := parent.AddChild(copied); err != nil {
		return nil, err
	}
	return copied, nil
}

// Move relocates the node at srcPath (with its subtree) to dstPath.
func Move(t *tree.Tree, srcPath, dstPath string) (*tree.Node, error) {
	moved, err := Copy(t, srcPath, dstPath)
	if err != nil {
		return nil, err
	}
	if _, err := t.Delete(srcPath); err != nil {
		return nil, err
	}
	return moved, nil
}

// Rename changes a node's name in place, keeping its position, attributes
// and subtree. The root cannot be renamed.
func Rename(t *tree.Tree, path, newName string) (*tree.Node, error) {
	node := t.Get(path)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrNodeNotFound, tree.NormalizePath(path))
	}
	parent := node.Parent()
	if parent == nil {
		return nil, errUtils.ErrCannotRenameRoot
	}
	if parent.Child(newName) != nil {
		return nil, fmt.Errorf("%w: %q", errUtils.ErrChildExists, newName)
	}

	// Clone before detaching so an invalid name leaves the tree unchanged.
	renamed, err := cloneNode(node, newName)
	if err != nil {
		return nil, err
	}
	if _, err := parent.RemoveChild(node.Name()); err != nil {
		return nil, err
	}
	if err := parent.AddChild(renamed); err != nil {
		return nil, err
	}
	return renamed, nil
}

// MergeTrees merges src into dst: new nodes are cloned in, and colliding
// nodes have their attribute maps deep-merged with src winning.
func MergeTrees(dst, src *tree.Tree) error {
	return mergeNode(dst.Root(), src.Root())
}

func mergeNode(dst, src *tree.Node) error {
	dstAttrs := dst.Attributes()
	if err := mergo.Merge(&dstAttrs, src.Attributes(), mergo.WithOverride); err != nil {
		return err
	}
	for k, v := range dstAttrs {
		dst.SetAttribute(k, v)
	}

	for _, srcChild := range src.Children() {
		dstChild := dst.Child(srcChild.Name())
		if dstChild == nil {
			cloned, err := cloneNode(srcChild, srcChild.Name())
			if err != nil {
				return err
			}
			if err := dst.AddChild(cloned); err != nil {
				return err
			}
			continue
		}
		if err := mergeNode(dstChild, srcChild); err != nil {
			return err
		}
	}
	return nil
}
