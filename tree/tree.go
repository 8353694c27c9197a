package tree

// HasIdentifier is implemented by anything addressable by name
type HasIdentifier interface {
	Identifier() Identifier
}

// Branching is the navigation protocol: a named node with ordered children.
// Implementations backed by pointers make Get return the stored node, so
// callers can mutate what they find.
type Branching[T any] interface {
	HasIdentifier
	Branches() []T
}

// Growing is a Branching node that accepts new children
type Growing[T any] interface {
	Branching[T]
	// AddBranch inserts child unless a branch with the same identifier
	// exists, and returns the stored branch either way.
	AddBranch(child T) T
}

// Is reports whether node carries id
func Is(node HasIdentifier, id Identifier) bool {
	return node.Identifier() == id
}

// Get returns the first branch of node named id
func Get[T Branching[T]](node T, id Identifier) (T, bool) {
	for _, b := range node.Branches() {
		if b.Identifier() == id {
			return b, true
		}
	}
	var zero T
	return zero, false
}

// GetByName looks a branch up by plain name
func GetByName[T Branching[T]](node T, name string) (T, bool) {
	return Get(node, NewIdentifier(name))
}

// PathGet descends through path one segment at a time.
// The empty path returns node itself.
func PathGet[T Branching[T]](node T, path Path) (T, bool) {
	current := node
	for _, seg := range path.Segments {
		next, ok := Get(current, seg)
		if !ok {
			var zero T
			return zero, false
		}
		current = next
	}
	return current, true
}

// Walk visits node and its descendants depth-first in pre-order.
// Returning false from fn skips the node's children.
func Walk[T Branching[T]](node T, fn func(T) bool) {
	if !fn(node) {
		return
	}
	for _, b := range node.Branches() {
		Walk(b, fn)
	}
}

// Branch returns the branch named id, creating it with create if absent
func Branch[T Growing[T]](node T, id Identifier, create func(Identifier) T) T {
	if existing, ok := Get(node, id); ok {
		return existing
	}
	return node.AddBranch(create(id))
}

// Tree is a generic keyed container: a value plus ordered children.
type Tree[V any] struct {
	id       Identifier
	Value    V
	children []*Tree[V]
}

// NewTree creates a leaf
func NewTree[V any](id Identifier, value V) *Tree[V] {
	return &Tree[V]{id: id, Value: value}
}

func (t *Tree[V]) Identifier() Identifier { return t.id }

func (t *Tree[V]) Branches() []*Tree[V] { return t.children }

func (t *Tree[V]) AddBranch(child *Tree[V]) *Tree[V] {
	for _, c := range t.children {
		if c.id == child.id {
			return c
		}
	}
	t.children = append(t.children, child)
	return child
}

// Insert creates every missing node along path and returns the last one.
// Intermediate nodes get the zero value.
func (t *Tree[V]) Insert(path Path, value V) *Tree[V] {
	current := t
	for _, seg := range path.Segments {
		current = Branch(current, seg, func(id Identifier) *Tree[V] {
			var zero V
			return NewTree(id, zero)
		})
	}
	current.Value = value
	return current
}
