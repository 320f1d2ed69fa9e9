package tree

import "strings"

// Separator delimits segments in node paths.
const Separator = "/"

// JoinPath joins path segments into a single normalized path.
func JoinPath(segments ...string) string {
	var parts []string
	for _, segment := range segments {
		clean := strings.Trim(segment, Separator)
		if clean == "" {
			continue
		}
		parts = append(parts, strings.Split(clean, Separator)...)
	}
	if len(parts) == 0 {
		return Separator
	}
	return Separator + strings.Join(parts, Separator)
}

// SplitPath splits a path into its segments, dropping empty segments
// produced by repeated separators.
func SplitPath(path string) []string {
	clean := strings.Trim(path, Separator)
	if clean == "" {
		return nil
	}
	var segments []string
	for _, s := range strings.Split(clean, Separator) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// ParentPath returns the parent of the given path, or "/" for a root path.
func ParentPath(path string) string {
	segments := SplitPath(path)
	if len(segments) <= 1 {
		return Separator
	}
	return Separator + strings.Join(segments[:len(segments)-1], Separator)
}

// Basename returns the last segment of a path, or "" for the root path.
func Basename(path string) string {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// NormalizePath returns the canonical form of a path: leading separator,
// no trailing separator, no repeated separators.
func NormalizePath(path string) string {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return Separator
	}
	return Separator + strings.Join(segments, Separator)
}
