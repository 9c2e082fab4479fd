package model

import (
	"sort"
	"strings"
)

// FieldMask is a set of leaf field paths present in an object. Masks
// are immutable; the path list is deduplicated and kept sorted.
type FieldMask struct {
	paths []FieldPath
}

// NewFieldMask builds a mask over paths, dropping duplicates.
func NewFieldMask(paths ...FieldPath) FieldMask {
	sorted := make([]FieldPath, len(paths))
	copy(sorted, paths)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || !p.Equal(sorted[i-1]) {
			out = append(out, p)
		}
	}
	return FieldMask{paths: out}
}

// Len returns the number of paths in the mask.
func (m FieldMask) Len() int { return len(m.paths) }

// Empty reports whether the mask has no paths.
func (m FieldMask) Empty() bool { return len(m.paths) == 0 }

// Paths returns the mask's paths in sorted order. Callers must not
// mutate the result.
func (m FieldMask) Paths() []FieldPath { return m.paths }

// Covers reports whether path or one of its prefixes is in the mask.
func (m FieldMask) Covers(path FieldPath) bool {
	for _, p := range m.paths {
		if p.IsPrefixOf(path) {
			return true
		}
	}
	return false
}

// Contains reports whether exactly path is in the mask.
func (m FieldMask) Contains(path FieldPath) bool {
	i := sort.Search(len(m.paths), func(i int) bool {
		return m.paths[i].Compare(path) >= 0
	})
	return i < len(m.paths) && m.paths[i].Equal(path)
}

// Equal reports whether both masks hold the same path set.
func (m FieldMask) Equal(other FieldMask) bool {
	if len(m.paths) != len(other.paths) {
		return false
	}
	for i := range m.paths {
		if !m.paths[i].Equal(other.paths[i]) {
			return false
		}
	}
	return true
}

// String renders the mask as a comma-separated list of canonical paths.
func (m FieldMask) String() string {
	parts := make([]string, len(m.paths))
	for i, p := range m.paths {
		parts[i] = p.CanonicalString()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
