package tree

import (
	"strings"
)

// PathSeparator separates segments in the canonical string form
const PathSeparator = "::"

// Wildcard is the terminal segment of a glob import
const Wildcard = "*"

// Path is an ordered sequence of identifiers.
// Every operation returns a new Path; receivers are never mutated.
type Path struct {
	Segments []Identifier
}

// NewPath builds a path from identifiers
func NewPath(ids ...Identifier) Path {
	if len(ids) == 0 {
		return Path{}
	}
	return Path{Segments: append([]Identifier(nil), ids...)}
}

// PathOf builds a path from plain names, classifying reserved ones
func PathOf(names ...string) Path {
	var p Path
	for _, n := range names {
		p.Segments = append(p.Segments, NewIdentifier(n))
	}
	return p
}

// ParsePath splits s on "::" or "." into segments. Empty segments are dropped.
func ParsePath(s string) Path {
	s = strings.ReplaceAll(s, PathSeparator, ".")
	var p Path
	for _, part := range strings.Split(s, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p.Segments = append(p.Segments, NewIdentifier(part))
	}
	return p
}

// ParseCanonical splits s on "::" only, so segment names may contain dots.
// It reverses String.
func ParseCanonical(s string) Path {
	var p Path
	for _, part := range strings.Split(s, PathSeparator) {
		if part == "" {
			continue
		}
		p.Segments = append(p.Segments, NewIdentifier(part))
	}
	return p
}

// Len returns the number of segments
func (p Path) Len() int { return len(p.Segments) }

// IsEmpty reports whether the path has no segments
func (p Path) IsEmpty() bool { return len(p.Segments) == 0 }

// First returns the first segment, or the zero identifier
func (p Path) First() Identifier {
	if p.IsEmpty() {
		return Identifier{}
	}
	return p.Segments[0]
}

// Last returns the last segment, or the zero identifier
func (p Path) Last() Identifier {
	if p.IsEmpty() {
		return Identifier{}
	}
	return p.Segments[len(p.Segments)-1]
}

// Identifier returns the only segment of a single-segment path
func (p Path) Identifier() (Identifier, bool) {
	if len(p.Segments) != 1 {
		return Identifier{}, false
	}
	return p.Segments[0], true
}

// Join appends identifiers
func (p Path) Join(ids ...Identifier) Path {
	out := make([]Identifier, 0, len(p.Segments)+len(ids))
	out = append(out, p.Segments...)
	out = append(out, ids...)
	if len(out) == 0 {
		return Path{}
	}
	return Path{Segments: out}
}

// JoinPath appends every segment of other
func (p Path) JoinPath(other Path) Path {
	return p.Join(other.Segments...)
}

// PushFront prepends an identifier
func (p Path) PushFront(id Identifier) Path {
	return NewPath(id).JoinPath(p)
}

// PushBack appends an identifier
func (p Path) PushBack(id Identifier) Path {
	return p.Join(id)
}

// PopFront splits off the first segment
func (p Path) PopFront() (Identifier, Path, bool) {
	if p.IsEmpty() {
		return Identifier{}, Path{}, false
	}
	return p.Segments[0], p.WithoutFirst(), true
}

// PopBack splits off the last segment
func (p Path) PopBack() (Identifier, Path, bool) {
	if p.IsEmpty() {
		return Identifier{}, Path{}, false
	}
	return p.Last(), p.WithoutLast(), true
}

// WithoutFirst drops the first segment
func (p Path) WithoutFirst() Path {
	if len(p.Segments) <= 1 {
		return Path{}
	}
	return NewPath(p.Segments[1:]...)
}

// WithoutLast drops the last segment
func (p Path) WithoutLast() Path {
	if len(p.Segments) <= 1 {
		return Path{}
	}
	return NewPath(p.Segments[:len(p.Segments)-1]...)
}

// HasPrefix reports whether prefix matches the leading segments
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.Len() > p.Len() {
		return false
	}
	for i, s := range prefix.Segments {
		if p.Segments[i] != s {
			return false
		}
	}
	return true
}

// IsWildcard reports whether the last segment is the glob marker
func (p Path) IsWildcard() bool {
	return !p.IsEmpty() && p.Last().Name == Wildcard
}

// Equal reports segment-wise equality
func (p Path) Equal(other Path) bool {
	return p.Compare(other) == 0
}

// Compare orders paths lexicographically over segments; a strict prefix sorts first
func (p Path) Compare(other Path) int {
	n := min(len(p.Segments), len(other.Segments))
	for i := 0; i < n; i++ {
		if c := p.Segments[i].Compare(other.Segments[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p.Segments) < len(other.Segments):
		return -1
	case len(p.Segments) > len(other.Segments):
		return 1
	}
	return 0
}

// Names returns the segment names
func (p Path) Names() []string {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}
	return names
}

// Format joins segment names with sep
func (p Path) Format(sep string) string {
	return strings.Join(p.Names(), sep)
}

func (p Path) String() string {
	return p.Format(PathSeparator)
}

// MarshalText encodes the path in its "a::b::c" form
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a "a::b::c" path
func (p *Path) UnmarshalText(text []byte) error {
	*p = ParseCanonical(string(text))
	return nil
}
