package filesystem

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/treefs"
)

// splitPath parses p into its segments.
//
// One leading and one trailing "/" are optional and stripped. "" and "/" name the
// root and yield no segments. Any remaining empty segment (i.e. "a//b") as well as
// "." and ".." are rejected with [treefs.ErrInvalidPath].
func splitPath(p string) ([]string, error) {
	if p == "" || p == "/" {
		return nil, nil
	}
	trimmed := strings.TrimPrefix(p, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")

	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		switch seg {
		case "", ".", "..":
			return nil, fmt.Errorf("%w: %q", treefs.ErrInvalidPath, p)
		}
	}
	return segs, nil
}

// splitLeafPath parses p and separates the directory segments from the leaf.
// The root has no leaf and is rejected.
func splitLeafPath(p string) (dirs []string, leaf string, err error) {
	segs, err := splitPath(p)
	if err != nil {
		return nil, "", err
	}
	if len(segs) == 0 {
		return nil, "", fmt.Errorf("%w: root has no name", treefs.ErrInvalidPath)
	}
	return segs[:len(segs)-1], segs[len(segs)-1], nil
}

// joinPath is the inverse of splitPath for a canonical path
func joinPath(segs ...string) string {
	return strings.Join(segs, "/")
}

// hasPrefix reports whether segs is prefix or a descendant of prefix
func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}
