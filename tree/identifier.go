// Package tree provides the addressing scheme shared by every bindgen entity:
// identifiers, paths, the branch navigation protocol and parent-aware visitors.
package tree

import "strings"

// Kind classifies an identifier for relative path resolution
type Kind int

const (
	// KindOther is an ordinary name
	KindOther Kind = iota
	// KindRoot jumps to the root of the tree
	KindRoot
	// KindSelf refers to the current node
	KindSelf
	// KindSuper refers to the parent node
	KindSuper
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSelf:
		return "self"
	case KindSuper:
		return "super"
	default:
		return "other"
	}
}

// Reserved segment names
const (
	RootName  = "root"
	CrateName = "crate"
	SelfName  = "self"
	SuperName = "super"
)

// Identifier is a name tagged with its navigation kind.
// Identifiers are values: compare them with ==.
type Identifier struct {
	Name string
	Kind Kind
}

// NewIdentifier classifies reserved names and returns the identifier
func NewIdentifier(name string) Identifier {
	switch name {
	case RootName, CrateName:
		return Identifier{Name: name, Kind: KindRoot}
	case SelfName:
		return Identifier{Name: name, Kind: KindSelf}
	case SuperName:
		return Identifier{Name: name, Kind: KindSuper}
	default:
		return Identifier{Name: name, Kind: KindOther}
	}
}

// Root returns the root marker identifier
func Root() Identifier { return Identifier{Name: RootName, Kind: KindRoot} }

// SelfRef returns the self marker identifier
func SelfRef() Identifier { return Identifier{Name: SelfName, Kind: KindSelf} }

// SuperRef returns the parent marker identifier
func SuperRef() Identifier { return Identifier{Name: SuperName, Kind: KindSuper} }

// IsEmpty reports whether the identifier has no name
func (i Identifier) IsEmpty() bool { return i.Name == "" }

// Compare orders identifiers by name, then by kind
func (i Identifier) Compare(other Identifier) int {
	if c := strings.Compare(i.Name, other.Name); c != 0 {
		return c
	}
	switch {
	case i.Kind < other.Kind:
		return -1
	case i.Kind > other.Kind:
		return 1
	}
	return 0
}

func (i Identifier) String() string { return i.Name }

// MarshalText encodes the identifier as its bare name
func (i Identifier) MarshalText() ([]byte, error) {
	return []byte(i.Name), nil
}

// UnmarshalText decodes a bare name, restoring its kind
func (i *Identifier) UnmarshalText(text []byte) error {
	*i = NewIdentifier(string(text))
	return nil
}
