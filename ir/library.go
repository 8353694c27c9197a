package ir

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/tree"
)

// Metadata describes a library package
type Metadata struct {
	Version     string
	Description string
	Authors     []string
	Keywords    []string
	Homepage    string
	License     string
}

// SemVer parses Version. An empty version is 0.0.0.
func (m Metadata) SemVer() (*semver.Version, error) {
	if m.Version == "" {
		return semver.New(0, 0, 0, "", ""), nil
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "library version %q", m.Version)
	}
	return v, nil
}

// Library is the root of the IR: one root module plus package metadata
type Library struct {
	ID         tree.Identifier
	Metadata   Metadata
	RootModule *Module
}

// NewLibrary creates a library whose root module shares its name
func NewLibrary(name string) *Library {
	return &Library{
		ID:         tree.NewIdentifier(name),
		RootModule: NewModule(name),
	}
}

// Normalize runs the rewrite passes every generator expects:
// Self substitution and wildcard-import expansion. Both are idempotent.
func (l *Library) Normalize() {
	if l.RootModule == nil {
		return
	}
	l.RootModule.ReplaceSelfWithExplicitNames()
	l.RootModule.ReplaceWildcardImports()
}

// CountObjects returns the number of objects in every module
func (l *Library) CountObjects() int {
	count := 0
	tree.Walk[Node](l, func(n Node) bool {
		if _, ok := n.(*Object); ok {
			count++
			return false
		}
		return true
	})
	return count
}
