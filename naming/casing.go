// Package naming converts identifiers between the naming conventions of the
// languages bindgen reads and writes.
package naming

import (
	"strings"
	"unicode"

	"github.com/teranos/bindgen/errors"
)

// Convention names a casing style
type Convention string

const (
	// Preserve leaves names untouched
	Preserve Convention = "preserve"
	// Snake is snake_case (Rust, Python, C)
	Snake Convention = "snake"
	// Kebab is kebab-case (crate and package names)
	Kebab Convention = "kebab"
	// Pascal is PascalCase (types, C# members)
	Pascal Convention = "pascal"
	// Camel is camelCase
	Camel Convention = "camel"
	// ScreamingSnake is SCREAMING_SNAKE_CASE (C macros and include guards)
	ScreamingSnake Convention = "screaming_snake"
)

// Conventions lists every supported convention in display order
var Conventions = []Convention{Preserve, Snake, Kebab, Pascal, Camel, ScreamingSnake}

// ParseConvention resolves a convention from its config name.
// The empty string is Preserve.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve", "none":
		return Preserve, nil
	case "snake", "snake_case":
		return Snake, nil
	case "kebab", "kebab-case":
		return Kebab, nil
	case "pascal", "pascalcase":
		return Pascal, nil
	case "camel", "camelcase":
		return Camel, nil
	case "screaming_snake", "screaming", "upper_snake":
		return ScreamingSnake, nil
	}
	return Preserve, errors.Wrapf(errors.ErrInvalidConfig, "unknown naming convention %q", s)
}

// Apply converts name to the convention
func (c Convention) Apply(name string) string {
	switch c {
	case Snake:
		return ToSnakeCase(name)
	case Kebab:
		return ToKebabCase(name)
	case Pascal:
		return ToPascalCase(name)
	case Camel:
		return ToCamelCase(name)
	case ScreamingSnake:
		return strings.ToUpper(ToSnakeCase(name))
	default:
		return name
	}
}

// ToSnakeCase converts PascalCase, camelCase or kebab-case to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection")
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '-' || r == ' ' {
			result.WriteRune('_')
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			// Don't insert underscore inside an acronym unless it ends here
			prev := runes[i-1]
			prevUpper := unicode.IsUpper(prev)
			prevSep := prev == '_' || prev == '-' || prev == ' '
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !prevSep && (!prevUpper || nextLower) {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// ToKebabCase converts any supported convention to kebab-case
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// ToPascalCase converts snake_case or kebab-case to PascalCase
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			// Capitalize first letter, keep rest as-is
			runes := []rune(part)
			result.WriteRune(unicode.ToUpper(runes[0]))
			result.WriteString(string(runes[1:]))
		}
	}

	return result.String()
}

// ToCamelCase converts snake_case or kebab-case to camelCase
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}

	// Lowercase first letter
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
