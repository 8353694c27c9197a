package generator

import (
	"sort"
	"strings"
	"sync"

	"github.com/teranos/bindgen/errors"
)

// All selects every registered generator
const All = "all"

// Registry maps target names and their aliases to generators.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	aliases    map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		aliases:    make(map[string]string),
	}
}

// Register adds g under its language and the given aliases
func (r *Registry) Register(g Generator, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(g.Language())
	r.generators[name] = g
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Get returns the generator registered under name or one of its aliases
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	g, ok := r.generators[key]
	if !ok {
		return nil, errors.WithHintf(
			errors.NewNotFoundError("no generator registered for target %q", name),
			"available targets: %s", strings.Join(r.languagesLocked(), ", "))
	}
	return g, nil
}

// Languages returns the registered target names, sorted
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.languagesLocked()
}

func (r *Registry) languagesLocked() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a target list into generators. Entries may be comma
// separated, "all" expands to every target, and duplicates are dropped.
// The result is ordered by first mention, or by name for "all".
func (r *Registry) Resolve(targets []string) ([]Generator, error) {
	var out []Generator
	seen := make(map[string]bool)
	add := func(g Generator) {
		if !seen[g.Language()] {
			seen[g.Language()] = true
			out = append(out, g)
		}
	}

	for _, entry := range targets {
		for _, target := range strings.Split(entry, ",") {
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			if strings.EqualFold(target, All) {
				for _, name := range r.Languages() {
					g, _ := r.Get(name)
					add(g)
				}
				continue
			}
			g, err := r.Get(target)
			if err != nil {
				return nil, err
			}
			add(g)
		}
	}

	if len(out) == 0 {
		return nil, errors.WithHint(
			errors.NewNotFoundError("no generation targets selected"),
			"pass --target c,rust,csharp or --target all")
	}
	return out, nil
}

// DefaultRegistry is the global generator registry.
// Backends register themselves from init().
var DefaultRegistry = NewRegistry()

// Register adds g to DefaultRegistry
func Register(g Generator, aliases ...string) {
	DefaultRegistry.Register(g, aliases...)
}
