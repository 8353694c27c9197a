package parsing

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/bindgen/errors"
)

// Registry maps language names and file extensions to frontends.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]LibraryParser
	extMap  map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]LibraryParser),
		extMap:  make(map[string]string),
	}
}

// Register adds p under its language. The first registration of an
// extension wins.
func (r *Registry) Register(p LibraryParser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(p.Language())
	r.parsers[name] = p
	for _, ext := range p.Extensions() {
		ext = normalizeExtension(ext)
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// ForLanguage returns the frontend registered under name
func (r *Registry) ForLanguage(name string) (LibraryParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[strings.ToLower(name)]
	if !ok {
		return nil, errors.WithHintf(
			errors.NewNotFoundError("no parser registered for language %q", name),
			"available languages: %s", strings.Join(r.languagesLocked(), ", "))
	}
	return p, nil
}

// ForExtension returns the frontend for a file extension or file name
func (r *Registry) ForExtension(ext string) (LibraryParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extMap[normalizeExtension(ext)]
	if !ok {
		return nil, false
	}
	return r.parsers[name], true
}

// Languages returns the registered language names, sorted
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.languagesLocked()
}

func (r *Registry) languagesLocked() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the extensions mapped to language, or every extension
// when language is empty. Sorted.
func (r *Registry) Extensions(language string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	language = strings.ToLower(language)
	var exts []string
	for ext, name := range r.extMap {
		if language == "" || name == language {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// normalizeExtension accepts ".rs", "rs" or "lib.rs"
func normalizeExtension(ext string) string {
	if e := filepath.Ext(ext); e != "" {
		return strings.ToLower(e)
	}
	return "." + strings.ToLower(strings.TrimPrefix(ext, "."))
}

// DefaultRegistry is the global frontend registry.
// Frontends register themselves from init().
var DefaultRegistry = NewRegistry()
