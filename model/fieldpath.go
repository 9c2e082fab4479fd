// Package model holds the document-level types: field paths, the
// overlay-backed ObjectValue, field masks, and documents with their
// resource-path keys.
package model

import (
	"fmt"
	"strings"
)

// KeyFieldName is the reserved segment addressing a document's key
// instead of a data field.
const KeyFieldName = "__name__"

// FieldPath addresses a nested field as an ordered sequence of non-empty
// segments. Paths are immutable; every operation returns a fresh path.
type FieldPath struct {
	segments []string
}

// NewFieldPath builds a path from segments. Empty segments are rejected.
func NewFieldPath(segments ...string) (FieldPath, error) {
	for _, s := range segments {
		if s == "" {
			return FieldPath{}, fmt.Errorf("field path segment must not be empty")
		}
	}
	copied := make([]string, len(segments))
	copy(copied, segments)
	return FieldPath{segments: copied}, nil
}

// MustFieldPath is NewFieldPath for statically known segments; it panics
// on an empty segment.
func MustFieldPath(segments ...string) FieldPath {
	p, err := NewFieldPath(segments...)
	if err != nil {
		panic(err)
	}
	return p
}

// KeyFieldPath returns the single-segment path addressing the document key.
func KeyFieldPath() FieldPath {
	return FieldPath{segments: []string{KeyFieldName}}
}

// ParseFieldPath parses the canonical dotted form produced by
// CanonicalString: segments joined with '.', with segments containing
// '.' or '`' wrapped in backticks and embedded backticks doubled.
func ParseFieldPath(s string) (FieldPath, error) {
	if s == "" {
		return FieldPath{}, fmt.Errorf("field path must not be empty")
	}
	var segments []string
	var cur strings.Builder
	inQuote := false
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '`':
			if inQuote && i+1 < len(s) && s[i+1] == '`' {
				cur.WriteByte('`')
				i += 2
				continue
			}
			inQuote = !inQuote
			i++
		case c == '.' && !inQuote:
			if cur.Len() == 0 {
				return FieldPath{}, fmt.Errorf("field path %q has an empty segment", s)
			}
			segments = append(segments, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if inQuote {
		return FieldPath{}, fmt.Errorf("field path %q has an unterminated backtick", s)
	}
	if cur.Len() == 0 {
		return FieldPath{}, fmt.Errorf("field path %q has an empty segment", s)
	}
	segments = append(segments, cur.String())
	return FieldPath{segments: segments}, nil
}

// Len returns the number of segments.
func (p FieldPath) Len() int { return len(p.segments) }

// Empty reports whether the path has no segments.
func (p FieldPath) Empty() bool { return len(p.segments) == 0 }

// Segment returns the i-th segment.
func (p FieldPath) Segment(i int) string { return p.segments[i] }

// First returns the first segment.
func (p FieldPath) First() string { return p.segments[0] }

// Last returns the final segment.
func (p FieldPath) Last() string { return p.segments[len(p.segments)-1] }

// PopFirst returns the path with its first segment dropped. The result
// shares storage with p; neither is ever mutated.
func (p FieldPath) PopFirst() FieldPath {
	return FieldPath{segments: p.segments[1:]}
}

// Append returns p extended with one trailing segment.
func (p FieldPath) Append(segment string) FieldPath {
	out := make([]string, len(p.segments)+1)
	copy(out, p.segments)
	out[len(p.segments)] = segment
	return FieldPath{segments: out}
}

// AppendPath returns p extended with all of other's segments.
func (p FieldPath) AppendPath(other FieldPath) FieldPath {
	out := make([]string, 0, len(p.segments)+len(other.segments))
	out = append(out, p.segments...)
	out = append(out, other.segments...)
	return FieldPath{segments: out}
}

// IsPrefixOf reports whether every segment of p leads other.
func (p FieldPath) IsPrefixOf(other FieldPath) bool {
	if len(p.segments) > len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if other.segments[i] != s {
			return false
		}
	}
	return true
}

// IsKeyField reports whether the path is exactly the reserved __name__
// segment.
func (p FieldPath) IsKeyField() bool {
	return len(p.segments) == 1 && p.segments[0] == KeyFieldName
}

// Compare orders paths lexicographically by segment.
func (p FieldPath) Compare(other FieldPath) int {
	n := len(p.segments)
	if len(other.segments) < n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(p.segments[i], other.segments[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p.segments) < len(other.segments):
		return -1
	case len(p.segments) > len(other.segments):
		return 1
	default:
		return 0
	}
}

// Equal reports segment-wise equality.
func (p FieldPath) Equal(other FieldPath) bool {
	return p.Compare(other) == 0
}

// CanonicalString renders the path in dotted form, escaping segments
// that contain '.' or '`' by backtick-wrapping with doubled backticks.
func (p FieldPath) CanonicalString() string {
	var b strings.Builder
	for i, s := range p.segments {
		if i > 0 {
			b.WriteByte('.')
		}
		if strings.ContainsAny(s, ".`") {
			b.WriteByte('`')
			b.WriteString(strings.ReplaceAll(s, "`", "``"))
			b.WriteByte('`')
		} else {
			b.WriteString(s)
		}
	}
	return b.String()
}

// String implements fmt.Stringer via the canonical form.
func (p FieldPath) String() string { return p.CanonicalString() }
