// Package output holds generated files as trees of named sections so
// generators can keep editing them by name until they are serialized.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/teranos/bindgen/tree"
)

// Content is one fragment of a section: Text or a nested *Section.
// The set of variants is closed.
type Content interface {
	isContent()
	writeTo(b *strings.Builder)
}

// Text is a literal fragment
type Text string

func (Text) isContent()                   {}
func (t Text) writeTo(b *strings.Builder) { b.WriteString(string(t)) }

// Section is a named, ordered list of fragments
type Section struct {
	Name    string
	Content []Content
}

func (*Section) isContent() {}

func (s *Section) writeTo(b *strings.Builder) {
	for _, c := range s.Content {
		c.writeTo(b)
	}
}

// NewSection creates an empty section
func NewSection(name string) *Section {
	return &Section{Name: name}
}

// Write appends a literal fragment
func (s *Section) Write(text string) {
	s.Content = append(s.Content, Text(text))
}

// Writeln appends a literal fragment followed by a newline
func (s *Section) Writeln(text string) {
	s.Write(text + "\n")
}

// Writef appends a formatted literal fragment
func (s *Section) Writef(format string, args ...interface{}) {
	s.Write(fmt.Sprintf(format, args...))
}

// IndexedWrite inserts a literal fragment at index, clamped to [0, len]
func (s *Section) IndexedWrite(index int, text string) {
	index = max(0, min(index, len(s.Content)))
	s.Content = append(s.Content, nil)
	copy(s.Content[index+1:], s.Content[index:])
	s.Content[index] = Text(text)
}

// IndexedWriteln inserts a literal fragment and a newline at index
func (s *Section) IndexedWriteln(index int, text string) {
	s.IndexedWrite(index, text+"\n")
}

// Identifier implements the tree protocol
func (s *Section) Identifier() tree.Identifier {
	return tree.NewIdentifier(s.Name)
}

// Branches returns the nested sections in order
func (s *Section) Branches() []*Section {
	var out []*Section
	for _, c := range s.Content {
		if child, ok := c.(*Section); ok {
			out = append(out, child)
		}
	}
	return out
}

// AddBranch appends child and returns it
func (s *Section) AddBranch(child *Section) *Section {
	s.Content = append(s.Content, child)
	return child
}

// Get returns the first nested section called name
func (s *Section) Get(name string) (*Section, bool) {
	for _, c := range s.Content {
		if child, ok := c.(*Section); ok && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Branch returns the nested section called name, appending it if absent
func (s *Section) Branch(name string) *Section {
	if child, ok := s.Get(name); ok {
		return child
	}
	return s.AddBranch(NewSection(name))
}

// PathGet descends through nested sections by name
func (s *Section) PathGet(names ...string) (*Section, bool) {
	current := s
	for _, name := range names {
		next, ok := current.Get(name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Find searches all descendants depth-first for a section called name
func (s *Section) Find(name string) (*Section, bool) {
	var found *Section
	tree.Walk(s, func(n *Section) bool {
		if found != nil {
			return false
		}
		if n != s && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// IndexOf returns the content position of the first nested section called name, or -1
func (s *Section) IndexOf(name string) int {
	for i, c := range s.Content {
		if child, ok := c.(*Section); ok && child.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of fragments
func (s *Section) Len() int { return len(s.Content) }

// String concatenates every fragment depth-first
func (s *Section) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

// WriteTo serializes the section into w
func (s *Section) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
