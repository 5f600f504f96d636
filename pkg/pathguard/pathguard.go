package pathguard

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrForbidden is returned when a requested path resolves outside the served
// root.
var ErrForbidden = errors.New("access denied: path traversal")

// Guard resolves a client-supplied path against root and returns the absolute
// path it names. root must already be absolute and cleaned. The requested
// path is always treated as relative: leading separators are stripped so an
// absolute request cannot override the root. The resolved path must stay at
// or below root; anything else fails with ErrForbidden.
//
// Guard is purely lexical and never touches the filesystem.
func Guard(root, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	requested = strings.ReplaceAll(requested, "\\", "/")
	requested = strings.TrimLeft(requested, "/")

	if strings.Contains(requested, "\x00") {
		return "", ErrForbidden
	}

	rootClean := filepath.Clean(root)
	if requested == "" || requested == "." {
		return rootClean, nil
	}

	resolved := filepath.Clean(filepath.Join(rootClean, filepath.FromSlash(requested)))
	if !within(rootClean, resolved) {
		return "", ErrForbidden
	}
	return resolved, nil
}

// Rel returns the slash-form path of guarded relative to root, or "" when
// guarded is the root itself.
func Rel(root, guarded string) string {
	rel, err := filepath.Rel(filepath.Clean(root), guarded)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// within reports whether candidate equals root or sits below it. The
// comparison is made at path-segment boundaries so sibling directories
// sharing a name prefix ("/srv/data" vs "/srv/data-other") never match.
func within(root, candidate string) bool {
	if candidate == root {
		return true
	}
	sep := string(filepath.Separator)
	if root == sep {
		return strings.HasPrefix(candidate, sep)
	}
	return strings.HasPrefix(candidate, root+sep)
}
