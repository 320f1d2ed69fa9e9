package provenance

import "github.com/confprop/confprop/pkg/propagate"

// mergeTracked merges override into acc, recording in keySources the writer
// path for every leaf key it writes. When both sides at a key hold mappings
// the merge recurses; otherwise the override value replaces whatever was
// there, and if that value is itself a mapping, every leaf beneath it is
// stamped with the writer's path.
//
// Keys in keySources are dot-joined nested-key paths; prefix carries the
// path accumulated so far.
func mergeTracked(acc, override map[string]any, writerPath string, keySources map[string]string, prefix string) {
	for k, v := range override {
		fullKey := joinKey(prefix, k)

		accMap, accIsMap := propagate.AsMapping(acc[k])
		overrideMap, overrideIsMap := propagate.AsMapping(v)
		if accIsMap && overrideIsMap {
			mergeTracked(accMap, overrideMap, writerPath, keySources, fullKey)
			continue
		}

		if overrideIsMap {
			// A freshly written subtree: copy it and attribute every
			// leaf beneath it to this writer, then drop any stale
			// attributions recorded for leaves the subtree replaced.
			clearKeyPrefix(keySources, fullKey)
			acc[k] = propagate.DeepCopyMap(overrideMap)
			stampLeafKeys(overrideMap, writerPath, keySources, fullKey)
			continue
		}

		clearKeyPrefix(keySources, fullKey)
		acc[k] = v
		keySources[fullKey] = writerPath
	}
}

// stampLeafKeys attributes every leaf key beneath a mapping to writerPath,
// recursing into nested mappings.
func stampLeafKeys(m map[string]any, writerPath string, keySources map[string]string, prefix string) {
	for k, v := range m {
		fullKey := joinKey(prefix, k)
		if nested, ok := propagate.AsMapping(v); ok {
			stampLeafKeys(nested, writerPath, keySources, fullKey)
		} else {
			keySources[fullKey] = writerPath
		}
	}
}

// clearKeyPrefix removes attributions for a key and everything beneath it.
// A non-mapping overwrite of a former mapping would otherwise leave the
// replaced subtree's leaves attributed to earlier writers.
func clearKeyPrefix(keySources map[string]string, key string) {
	delete(keySources, key)
	nested := key + "."
	for k := range keySources {
		if len(k) > len(nested) && k[:len(nested)] == nested {
			delete(keySources, k)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
