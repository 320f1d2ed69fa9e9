// Package schema validates node attributes against per-key declarative
// constraints: type, range, allowed values and requiredness.
package schema

import (
	"fmt"
	"sort"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/tree"
)

// Type names the value shapes a schema can require.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeList   Type = "list"
	TypeMap    Type = "map"
	// TypeAny accepts any non-nil value.
	TypeAny Type = "any"
)

var validTypes = map[Type]struct{}{
	TypeString: {}, TypeInt: {}, TypeFloat: {}, TypeBool: {},
	TypeList: {}, TypeMap: {}, TypeAny: {},
}

// AttributeSchema constrains the values an attribute key may carry.
type AttributeSchema struct {
	Type          Type     `yaml:"type" json:"type" mapstructure:"type"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	Required      bool     `yaml:"required,omitempty" json:"required,omitempty" mapstructure:"required"`
	Min           *float64 `yaml:"min,omitempty" json:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" json:"max,omitempty" mapstructure:"max"`
	AllowedValues []any    `yaml:"allowed_values,omitempty" json:"allowed_values,omitempty" mapstructure:"allowed_values"`
	Default       any      `yaml:"default,omitempty" json:"default,omitempty" mapstructure:"default"`
}

// Registry holds attribute schemas keyed by attribute name.
type Registry struct {
	schemas map[string]AttributeSchema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]AttributeSchema)}
}

// Define registers a schema for an attribute key, replacing any previous one.
func (r *Registry) Define(key string, s AttributeSchema) error {
	if s.Type == "" {
		s.Type = TypeAny
	}
	if _, ok := validTypes[s.Type]; !ok {
		return fmt.Errorf("%w: %q for key %q", errUtils.ErrInvalidSchemaType, s.Type, key)
	}
	r.schemas[key] = s
	return nil
}

// Get returns the schema for a key.
func (r *Registry) Get(key string) (AttributeSchema, bool) {
	s, ok := r.schemas[key]
	return s, ok
}

// Keys returns the registered attribute keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Violation describes one failed constraint on one node attribute.
type Violation struct {
	Path    string
	Key     string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Path, v.Key, v.Message)
}

// Report collects the violations found by a validation pass.
type Report struct {
	Violations []Violation
}

// Valid reports whether the pass found no violations.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid report, otherwise ErrSchemaViolation wrapped
// with a summary.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %d violation(s), first: %s", errUtils.ErrSchemaViolation, len(r.Violations), r.Violations[0])
}

func (r *Report) add(path, key, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Path:    path,
		Key:     key,
		Message: fmt.Sprintf(format, args...),
	})
}

// ValidateValue checks a single value against the schema for key.
// An unregistered key always passes.
func (r *Registry) ValidateValue(key string, value any) error {
	s, ok := r.schemas[key]
	if !ok {
		return nil
	}
	report := &Report{}
	r.checkValue(report, "", key, s, value)
	return report.Err()
}

// ValidateNode checks a node's own attributes: every registered constraint
// on keys the node carries, plus requiredness of keys it does not.
func (r *Registry) ValidateNode(report *Report, n *tree.Node) {
	for _, key := range r.Keys() {
		s := r.schemas[key]
		value, present := n.Attribute(key)
		if !present {
			if s.Required {
				report.add(n.Path(), key, "required attribute is missing")
			}
			continue
		}
		r.checkValue(report, n.Path(), key, s, value)
	}
}

// ValidateTree validates every node in the tree and returns the full report.
func (r *Registry) ValidateTree(t *tree.Tree) *Report {
	report := &Report{}
	t.Walk(func(n *tree.Node) {
		r.ValidateNode(report, n)
	})
	return report
}

// ApplyDefaults sets, on every node, each registered required key that is
// absent but declares a default. It returns the number of values applied.
func (r *Registry) ApplyDefaults(t *tree.Tree) int {
	applied := 0
	t.Walk(func(n *tree.Node) {
		for _, key := range r.Keys() {
			s := r.schemas[key]
			if !s.Required || s.Default == nil {
				continue
			}
			if _, present := n.Attribute(key); !present {
				n.SetAttribute(key, s.Default)
				applied++
			}
		}
	})
	return applied
}

func (r *Registry) checkValue(report *Report, path, key string, s AttributeSchema, value any) {
	if !r.checkType(report, path, key, s, value) {
		return
	}
	r.checkRange(report, path, key, s, value)
	r.checkAllowed(report, path, key, s, value)
}

func (r *Registry) checkType(report *Report, path, key string, s AttributeSchema, value any) bool {
	ok := true
	switch s.Type {
	case TypeString:
		_, ok = value.(string)
	case TypeInt:
		_, ok = asInt(value)
	case TypeFloat:
		_, ok = asFloat(value)
	case TypeBool:
		_, ok = value.(bool)
	case TypeList:
		_, ok = value.([]any)
	case TypeMap:
		_, ok = value.(map[string]any)
	case TypeAny:
	}
	if !ok {
		report.add(path, key, "expected %s, got %T", s.Type, value)
	}
	return ok
}

func (r *Registry) checkRange(report *Report, path, key string, s AttributeSchema, value any) {
	if s.Min == nil && s.Max == nil {
		return
	}
	f, ok := asFloat(value)
	if !ok {
		return
	}
	if s.Min != nil && f < *s.Min {
		report.add(path, key, "value %v is below minimum %v", value, *s.Min)
	}
	if s.Max != nil && f > *s.Max {
		report.add(path, key, "value %v is above maximum %v", value, *s.Max)
	}
}

func (r *Registry) checkAllowed(report *Report, path, key string, s AttributeSchema, value any) {
	if len(s.AllowedValues) == 0 {
		return
	}
	for _, allowed := range s.AllowedValues {
		if equalScalar(value, allowed) {
			return
		}
	}
	report.add(path, key, "value %v is not in allowed values %v", value, s.AllowedValues)
}

// asInt accepts the integer representations produced by the YAML and JSON
// decoders.
func asInt(v any) (int64, bool) {
	switch typed := v.(type) {
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case uint64:
		return int64(typed), true
	case float64:
		// JSON decodes all numbers as float64; accept exact integers.
		if typed == float64(int64(typed)) {
			return int64(typed), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	}
	return 0, false
}

// equalScalar compares allowing for the decoder's numeric widenings.
func equalScalar(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}
