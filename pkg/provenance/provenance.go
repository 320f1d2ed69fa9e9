// Package provenance resolves attribute values while recording which node
// (or nodes) contributed the result, including, for merged mappings, which
// node last wrote each leaf key.
package provenance

import (
	"fmt"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/propagate"
	"github.com/confprop/confprop/pkg/tree"
)

// Record describes the origin of a resolved value. Records are created per
// call and never mutated afterwards.
type Record struct {
	// Value is the resolved value.
	Value any

	// SourcePath names the node that provided the value. For ModeInherit
	// it is the contributing ancestor; for ModeMerge over mappings it is
	// the resolved node itself (each leaf key has its own source in
	// KeySources); for the other modes it is the node resolution started
	// from.
	SourcePath string

	// Mode is the propagation mode that produced the value.
	Mode propagate.Mode

	// KeySources maps dot-joined nested-key paths to the path of the node
	// that last wrote each leaf. Populated only by ModeMerge over mappings.
	KeySources map[string]string

	// ContributingPaths lists, in order, the nodes whose values were
	// included. Populated by ModeAggregate (traversal order, parallel to
	// the value sequence), ModeRequirePath (root→self) and
	// ModeCollectAncestors (self→root, parallel to the value sequence).
	ContributingPaths []string
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := &Record{
		Value:      r.Value,
		SourcePath: r.SourcePath,
		Mode:       r.Mode,
	}
	if r.KeySources != nil {
		clone.KeySources = make(map[string]string, len(r.KeySources))
		for k, v := range r.KeySources {
			clone.KeySources[k] = v
		}
	}
	if r.ContributingPaths != nil {
		clone.ContributingPaths = make([]string, len(r.ContributingPaths))
		copy(clone.ContributingPaths, r.ContributingPaths)
	}
	return clone
}

// Resolve computes the effective value of key on node under the given mode
// and reports its provenance. It mirrors propagate.Resolve: a nil record
// means the value is absent (ModeNone, ModeInherit, ModeMerge,
// ModeRequirePath); ModeAggregate and ModeCollectAncestors always return a
// record, possibly with an empty value sequence.
//
// The only possible error is ErrInvalidMode.
func Resolve(node *tree.Node, key string, mode propagate.Mode) (*Record, error) {
	switch mode {
	case propagate.ModeNone:
		v, ok := node.Attribute(key)
		if !ok {
			return nil, nil
		}
		return &Record{Value: v, SourcePath: node.Path(), Mode: mode}, nil

	case propagate.ModeInherit:
		v, sourcePath, ok := propagate.Inherit(node, key)
		if !ok {
			return nil, nil
		}
		return &Record{Value: v, SourcePath: sourcePath, Mode: mode}, nil

	case propagate.ModeAggregate:
		values, paths := propagate.Aggregate(node, key)
		return &Record{
			Value:             values,
			SourcePath:        node.Path(),
			Mode:              mode,
			ContributingPaths: paths,
		}, nil

	case propagate.ModeMerge:
		return mergeRecord(node, key), nil

	case propagate.ModeRequirePath:
		v, paths, ok := propagate.RequirePath(node, key)
		if !ok {
			return nil, nil
		}
		return &Record{
			Value:             v,
			SourcePath:        node.Path(),
			Mode:              mode,
			ContributingPaths: paths,
		}, nil

	case propagate.ModeCollectAncestors:
		values, paths := propagate.CollectAncestors(node, key)
		return &Record{
			Value:             values,
			SourcePath:        node.Path(),
			Mode:              mode,
			ContributingPaths: paths,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %v", errUtils.ErrInvalidMode, mode)
	}
}

// mergeRecord deep-merges mapping contributions root→node while attributing
// every leaf key to the node that last wrote it. A chain containing any
// non-mapping value degrades to closest-present-wins, attributed to the
// winning node.
func mergeRecord(node *tree.Node, key string) *Record {
	chain := propagate.Contributions(node, key)
	if len(chain) == 0 {
		return nil
	}

	if !propagate.AllMappings(chain) {
		winner := chain[len(chain)-1]
		return &Record{
			Value:      winner.Value,
			SourcePath: winner.Path,
			Mode:       propagate.ModeMerge,
		}
	}

	merged := make(map[string]any)
	keySources := make(map[string]string)
	for _, c := range chain {
		m, _ := propagate.AsMapping(c.Value)
		mergeTracked(merged, m, c.Path, keySources, "")
	}

	return &Record{
		Value:      merged,
		SourcePath: node.Path(),
		Mode:       propagate.ModeMerge,
		KeySources: keySources,
	}
}
