package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is a single compiled line of an ignore file.
// A Rule is immutable after construction.
type Rule struct {
	// negated means a match keeps the path instead of ignoring it ("!pattern").
	negated bool
	// directoryOnly restricts the rule to directories (trailing "/").
	directoryOnly bool
	// filenameOnly means the raw pattern contained no path separator, so the
	// rule is matched against the bare filename at any depth.
	filenameOnly bool
	// pattern is the validated glob pattern (slash-separated).
	pattern string
}

// parseRule compiles one line of an ignore file. The refDir anchors patterns
// that start with "/" to that directory's subtree.
//
// Comment lines, blank lines and patterns that fail glob validation yield
// ok=false; a failed line never aborts parsing of the rest of the file.
func parseRule(line, refDir string) (Rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	var r Rule
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") && len(line) > 1 {
		r.directoryOnly = true
		line = line[:len(line)-1]
	}
	if line == "" {
		return Rule{}, false
	}

	// filenameOnly must be decided on the raw body, before anchoring:
	// an anchored pattern always contains a separator afterwards.
	hasSeparator := strings.Contains(line, "/")
	r.filenameOnly = !hasSeparator
	if hasSeparator && strings.HasPrefix(line, "/") {
		line = filepath.ToSlash(refDir) + line
	}

	if !doublestar.ValidatePattern(line) {
		return Rule{}, false
	}
	r.pattern = line
	return r, true
}

// matches reports whether the rule's pattern matches the candidate.
// The candidate is the bare filename for filename-only rules and the full
// slash-separated path otherwise; "*" and "?" never cross a separator, so
// path-relative patterns match separators literally.
func (r Rule) matches(candidate string) bool {
	ok, err := doublestar.Match(r.pattern, candidate)
	return err == nil && ok
}
