package tree

import (
	"github.com/teranos/bindgen/errors"
)

// Visitor wraps a node with its parent and its absolute path.
// Fields are set once at construction; no method mutates a Visitor, and a
// parent always exists before its children, so parent chains cannot cycle.
type Visitor[T Branching[T]] struct {
	value  T
	parent *Visitor[T]
	path   Path
}

// NewVisitor wraps value with an explicit parent and path
func NewVisitor[T Branching[T]](value T, parent *Visitor[T], path Path) *Visitor[T] {
	return &Visitor[T]{value: value, parent: parent, path: path}
}

// NewRootVisitor wraps value as a root whose path is its own identifier
func NewRootVisitor[T Branching[T]](value T) *Visitor[T] {
	return NewVisitor(value, nil, NewPath(value.Identifier()))
}

// Value returns the wrapped node
func (v *Visitor[T]) Value() T { return v.value }

// Parent returns the parent visitor, if any
func (v *Visitor[T]) Parent() (*Visitor[T], bool) {
	return v.parent, v.parent != nil
}

// Path returns the path from the root to this node
func (v *Visitor[T]) Path() Path { return v.path }

// Depth is the number of parent links above this node
func (v *Visitor[T]) Depth() int {
	depth := 0
	for p := v.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Child derives a visitor for a branch of this node
func (v *Visitor[T]) Child(value T) *Visitor[T] {
	return NewVisitor(value, v, v.path.Join(value.Identifier()))
}

// Children wraps every branch of this node
func (v *Visitor[T]) Children() []*Visitor[T] {
	branches := v.value.Branches()
	out := make([]*Visitor[T], 0, len(branches))
	for _, b := range branches {
		out = append(out, v.Child(b))
	}
	return out
}

// Root follows parent links to the top
func (v *Visitor[T]) Root() *Visitor[T] {
	current := v
	for current.parent != nil {
		current = current.parent
	}
	return current
}

// Ancestors returns parents from the nearest to the root
func (v *Visitor[T]) Ancestors() []*Visitor[T] {
	var out []*Visitor[T]
	for p := v.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Relative resolves path from this node, left to right:
// root jumps to the root, self stays, super moves to the parent and any other
// segment descends into the branch of that name. Resolution stops at the
// first segment that cannot be followed.
func (v *Visitor[T]) Relative(path Path) (*Visitor[T], bool) {
	found, _, ok := v.relative(path)
	return found, ok
}

// Resolve is Relative with an error naming the segment that failed
func (v *Visitor[T]) Resolve(path Path) (*Visitor[T], error) {
	found, failed, ok := v.relative(path)
	if !ok {
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrUnresolvable, "%s from %s", path, v.path),
			"segment %q could not be followed", failed.Name)
	}
	return found, nil
}

func (v *Visitor[T]) relative(path Path) (*Visitor[T], Identifier, bool) {
	current := v
	for _, seg := range path.Segments {
		switch seg.Kind {
		case KindRoot:
			current = current.Root()
		case KindSelf:
		case KindSuper:
			if current.parent == nil {
				return nil, seg, false
			}
			current = current.parent
		default:
			branch, ok := Get(current.value, seg)
			if !ok {
				return nil, seg, false
			}
			current = current.Child(branch)
		}
	}
	return current, Identifier{}, true
}
