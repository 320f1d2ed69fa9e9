// Package match implements wildcard matching over node paths.
//
// Pattern grammar (segments delimited by "/"):
//   - "*" matches exactly one path segment of arbitrary content
//   - "**" matches zero or more consecutive path segments
//   - a segment containing "*" as a substring globs within that single
//     segment, "*" expanding to zero or more non-separator characters
//   - every other character matches literally, including regexp
//     metacharacters such as "."
package match

import (
	"regexp"
	"strings"
	"sync"
)

const (
	segmentPattern = "/[^/]+"
	// gapPattern matches zero or more whole path segments, each with its
	// own leading separator, so "/a/**/c" still matches "/a/c".
	gapPattern = "(?:/[^/]+)*"
)

// Matches reports whether the path matches the wildcard pattern.
// It is total over any string input: a malformed pattern never fails,
// it simply does not match.
func Matches(path, pattern string) bool {
	return Compile(pattern).MatchString(path)
}

var (
	compileCache   = make(map[string]*regexp.Regexp)
	compileCacheMu sync.RWMutex
)

// Compile returns the anchored regular expression for a wildcard pattern.
// Compiled patterns are cached; patterns are typically reused across a
// whole-tree query.
func Compile(pattern string) *regexp.Regexp {
	compileCacheMu.RLock()
	re, ok := compileCache[pattern]
	compileCacheMu.RUnlock()
	if ok {
		return re
	}

	// Translate produces only escaped literals and fixed constructs,
	// so the expression is always valid.
	re = regexp.MustCompile(Translate(pattern))

	compileCacheMu.Lock()
	compileCache[pattern] = re
	compileCacheMu.Unlock()
	return re
}

// Translate converts a wildcard pattern into an anchored regular expression
// in a single forward pass over its segments.
//
// A "**" segment does not emit anything immediately; it sets a pending-gap
// state that is flushed before the next concrete segment (consecutive "**"
// segments collapse into one gap). The expression is anchored at both ends
// exactly once, regardless of how many "**" segments the pattern contains.
func Translate(pattern string) string {
	segments := strings.Split(strings.Trim(pattern, "/"), "/")

	var b strings.Builder
	b.WriteString("^")

	pendingGap := false
	for _, seg := range segments {
		if seg == "**" {
			pendingGap = true
			continue
		}
		if pendingGap {
			b.WriteString(gapPattern)
			pendingGap = false
		}

		switch {
		case seg == "*":
			b.WriteString(segmentPattern)
		case strings.Contains(seg, "*"):
			// In-segment glob: escape the literal parts, expand "*" to
			// any run of non-separator characters.
			escaped := strings.ReplaceAll(regexp.QuoteMeta(seg), `\*`, "[^/]*")
			b.WriteString("/")
			b.WriteString(escaped)
		default:
			b.WriteString("/")
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}

	// Trailing "**" swallows the rest of the path.
	if pendingGap {
		b.WriteString(gapPattern)
	}

	b.WriteString("$")
	return b.String()
}
