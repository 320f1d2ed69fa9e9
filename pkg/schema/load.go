package schema

import (
	"os"

	"github.com/goccy/go-yaml"
)

// LoadRegistry reads a YAML file mapping attribute keys to their schemas,
// e.g.:
//
//	replicas:
//	  type: int
//	  required: true
//	  min: 1
//	env:
//	  type: string
//	  allowed_values: [dev, staging, prod]
func LoadRegistry(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]AttributeSchema
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}

	registry := NewRegistry()
	for key, s := range raw {
		if err := registry.Define(key, s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
