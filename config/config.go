// Package config loads bindgen.toml through viper.
//
// Values merge in precedence order: defaults < user config
// (~/.config/bindgen/bindgen.toml) < project config (bindgen.toml found by
// walking up from the working directory) < BINDGEN_* environment variables.
package config

import (
	"path/filepath"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/naming"
	"github.com/teranos/bindgen/parsing"
)

// FileName is the project configuration file
const FileName = "bindgen.toml"

// Config is the bindgen project configuration
type Config struct {
	Library   LibraryConfig   `mapstructure:"library" toml:"library"`
	Parser    ParsingConfig   `mapstructure:"parser" toml:"parser"`
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`

	// Path is the file the project config was read from, empty when none was found
	Path string `mapstructure:"-" toml:"-"`
}

// LibraryConfig describes the library being bound
type LibraryConfig struct {
	Name    string `mapstructure:"name" toml:"name"`
	Version string `mapstructure:"version" toml:"version"` // semver, overrides manifest metadata
	// Root is the source directory, relative to the config file
	Root      string   `mapstructure:"root" toml:"root"`
	Sources   []string `mapstructure:"sources" toml:"sources"`     // doublestar patterns, "!" excludes
	Languages []string `mapstructure:"languages" toml:"languages"` // empty = every registered frontend
}

// ParsingConfig is turned into a parsing.Config for every run
type ParsingConfig struct {
	NamingConvention string            `mapstructure:"naming_convention" toml:"naming_convention"`
	IgnoreAttribute  string            `mapstructure:"ignore_attribute" toml:"ignore_attribute"`
	Options          map[string]string `mapstructure:"options" toml:"options,omitempty"`
}

// GeneratorConfig selects the backends and where they write
type GeneratorConfig struct {
	OutputDir string   `mapstructure:"output_dir" toml:"output_dir"`
	Targets   []string `mapstructure:"targets" toml:"targets"` // language names or aliases, "all"
	IRFile    string   `mapstructure:"ir_file" toml:"ir_file"` // persisted IR, .yaml/.json/.toml
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // same scale as -v count
}

// ParserConfig converts the parser section into an immutable parsing config
func (c *Config) ParserConfig() (*parsing.Config, error) {
	out := parsing.DefaultConfig()
	if c.Parser.NamingConvention != "" {
		conv, err := naming.ParseConvention(c.Parser.NamingConvention)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidConfig, err.Error())
		}
		out = out.WithNamingConvention(conv)
	}
	if c.Parser.IgnoreAttribute != "" {
		out.IgnoreAttribute = c.Parser.IgnoreAttribute
	}
	for k, v := range c.Parser.Options {
		out = out.With(k, v)
	}
	return out, nil
}

// Resolve returns p relative to the directory of the config file.
// Absolute paths and configs without a file are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

// SourceRoot is the resolved library root
func (c *Config) SourceRoot() string {
	root := c.Library.Root
	if root == "" {
		root = "."
	}
	return c.Resolve(root)
}
