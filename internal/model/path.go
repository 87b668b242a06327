// Package model defines the data structures for config patching and grid expansion.
package model

import "strings"

// FilePath represents a file system path.
type FilePath string

// Path identifies a location in a document tree as an ordered sequence of
// section and key names. Two paths are equal iff their segments are equal.
type Path []string

// ParsePath splits a dotted path ("model.layers") into its segments.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return Path{}
	}

	return Path(strings.Split(dotted, "."))
}

// Dotted joins the segments with dots.
func (p Path) Dotted() string {
	return strings.Join(p, ".")
}

// Leaf returns the final path component, or "" for an empty path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Child returns a new path extended by one segment. The receiver is not
// shared: callers may keep the child while continuing to extend the parent.
func (p Path) Child(name string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)

	return append(child, name)
}

// Equal reports whether both paths have identical segment sequences.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

func (p Path) String() string {
	return p.Dotted()
}
