package parsing

import (
	"maps"
	"strconv"

	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/naming"
	"github.com/teranos/bindgen/tree"
)

// DefaultIgnoreAttribute is the attribute group whose ignore flag skips an item
const DefaultIgnoreAttribute = "bindgen"

// Config is the per-run parser configuration. Treat it as immutable once
// built: With returns a modified copy.
type Config struct {
	// NamingConvention is applied to module and library names
	NamingConvention naming.Convention
	// IgnoreAttribute names an extra group checked for the ignore flag
	IgnoreAttribute string
	// Options holds frontend-specific settings
	Options map[string]string
}

// DefaultConfig returns snake_case module names and the bindgen ignore group
func DefaultConfig() *Config {
	return &Config{
		NamingConvention: naming.Snake,
		IgnoreAttribute:  DefaultIgnoreAttribute,
	}
}

// With returns a copy with one option set
func (c *Config) With(key, value string) *Config {
	out := c.clone()
	if out.Options == nil {
		out.Options = make(map[string]string, 1)
	}
	out.Options[key] = value
	return out
}

// WithNamingConvention returns a copy using convention
func (c *Config) WithNamingConvention(convention naming.Convention) *Config {
	out := c.clone()
	out.NamingConvention = convention
	return out
}

func (c *Config) clone() *Config {
	if c == nil {
		return DefaultConfig().clone()
	}
	out := *c
	out.Options = maps.Clone(c.Options)
	return &out
}

// Option returns a frontend setting
func (c *Config) Option(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.Options[key]
	return v, ok
}

// BoolOption reads a boolean setting, falling back to def when unset or malformed
func (c *Config) BoolOption(key string, def bool) bool {
	v, ok := c.Option(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ModuleName converts a source module or package name with the naming convention
func (c *Config) ModuleName(name string) string {
	if c == nil {
		return name
	}
	return c.NamingConvention.Apply(name)
}

// Ignored reports whether attrs mark an item as skipped, either through the
// built-in ignore groups or the configured one
func (c *Config) Ignored(attrs ir.Attributes) bool {
	if attrs.IsIgnored() {
		return true
	}
	if c == nil || c.IgnoreAttribute == "" {
		return false
	}
	return attrs.Has(tree.PathOf(c.IgnoreAttribute, ir.IgnoreFlag))
}
