package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/naming"
)

// Validate checks that the configuration is valid. Failures wrap
// errors.ErrInvalidConfig and name the offending key.
func (c *Config) Validate() error {
	if c.Library.Version != "" {
		if _, err := semver.NewVersion(c.Library.Version); err != nil {
			return invalid("library.version %q is not a semantic version", c.Library.Version)
		}
	}
	for _, l := range c.Library.Languages {
		if strings.TrimSpace(l) == "" {
			return invalid("library.languages cannot contain empty names")
		}
	}

	if c.Parser.NamingConvention != "" {
		if _, err := naming.ParseConvention(c.Parser.NamingConvention); err != nil {
			return errors.WithHint(
				invalid("parser.naming_convention %q is unknown", c.Parser.NamingConvention),
				"use one of preserve, snake, kebab, pascal, camel, screaming_snake")
		}
	}

	for _, t := range c.Generator.Targets {
		if strings.TrimSpace(t) == "" {
			return invalid("generator.targets cannot contain empty names")
		}
	}
	if c.Generator.OutputDir == "" {
		return invalid("generator.output_dir cannot be empty")
	}

	if c.Log.Verbosity < 0 {
		return invalid("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrap(errors.ErrInvalidConfig, errors.Newf(format, args...).Error())
}
