package codec

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	errUtils "github.com/confprop/confprop/errors"
	"github.com/confprop/confprop/pkg/logger"
	"github.com/confprop/confprop/pkg/tree"
)

// MatchFiles expands file glob patterns (doublestar syntax, including
// "**" for recursive descent) into a sorted, de-duplicated file list.
func MatchFiles(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadGlob loads every tree file matching the glob patterns.
func LoadGlob(patterns ...string) ([]*tree.Tree, error) {
	files, err := MatchFiles(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", errUtils.ErrNoMatchingFiles, patterns)
	}

	trees := make([]*tree.Tree, 0, len(files))
	for _, file := range files {
		logger.Debug("loading tree file", "file", file)
		t, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}
