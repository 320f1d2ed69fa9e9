// Package propagate implements the propagation modes that decide how a
// node's effective attribute value is computed from its position in the
// configuration tree.
package propagate

import (
	"fmt"
	"strings"

	errUtils "github.com/confprop/confprop/errors"
)

// Mode selects the propagation strategy for attribute resolution.
// The set is closed: both the value resolver and the provenance tracker
// dispatch on it with a single exhaustive switch, so adding a mode forces
// both to be updated together.
type Mode int

const (
	// ModeNone uses only the node's own value. No traversal.
	ModeNone Mode = iota

	// ModeInherit walks node→root and returns the first present value.
	ModeInherit

	// ModeAggregate collects every present value in the subtree rooted at
	// the node, pre-order, children in insertion order.
	ModeAggregate

	// ModeMerge deep-merges mapping values along the root→node chain,
	// closer-to-node entries overriding. If any contributing value is not
	// a mapping, the closest-to-node present value wins.
	ModeMerge

	// ModeRequirePath returns the node's own value only when the node and
	// every ancestor up to the root hold a truthy value for the key.
	// A key that is absent and a key that is present but falsy fail
	// identically; the failing case yields an absent result, never the
	// default. Callers needing to distinguish the two must check presence
	// with ModeNone first.
	ModeRequirePath

	// ModeCollectAncestors collects every present value on the node→root
	// chain, self first.
	ModeCollectAncestors
)

var modeNames = map[Mode]string{
	ModeNone:             "none",
	ModeInherit:          "inherit",
	ModeAggregate:        "aggregate",
	ModeMerge:            "merge",
	ModeRequirePath:      "require-path",
	ModeCollectAncestors: "collect-ancestors",
}

// String returns the canonical lowercase name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether the mode is one of the defined variants.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", errUtils.ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode converts a mode name to a Mode. Matching is case-insensitive
// and accepts "_" in place of "-".
func ParseMode(s string) (Mode, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for mode, name := range modeNames {
		if name == normalized {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: none, inherit, aggregate, merge, require-path, collect-ancestors)", errUtils.ErrInvalidMode, s)
}
