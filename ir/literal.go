package ir

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Literal is a constant value from source metadata. The set of variants is closed.
type Literal interface {
	isLiteral()
	String() string
}

type (
	StringLiteral          string
	BooleanLiteral         bool
	IntegerLiteral         int64
	UnsignedIntegerLiteral uint64
	FloatLiteral           float64
	CharacterLiteral       rune
)

func (StringLiteral) isLiteral()          {}
func (BooleanLiteral) isLiteral()         {}
func (IntegerLiteral) isLiteral()         {}
func (UnsignedIntegerLiteral) isLiteral() {}
func (FloatLiteral) isLiteral()           {}
func (CharacterLiteral) isLiteral()       {}

func (l StringLiteral) String() string  { return strconv.Quote(string(l)) }
func (l BooleanLiteral) String() string { return strconv.FormatBool(bool(l)) }
func (l IntegerLiteral) String() string { return strconv.FormatInt(int64(l), 10) }
func (l UnsignedIntegerLiteral) String() string {
	return strconv.FormatUint(uint64(l), 10)
}
func (l FloatLiteral) String() string {
	s := strconv.FormatFloat(float64(l), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
func (l CharacterLiteral) String() string { return strconv.QuoteRune(rune(l)) }

// ParseLiteral reads a literal in source form: quoted strings, 'c' characters,
// true/false, integers (unsigned when they overflow int64) and floats.
// Anything else is kept as a string.
func ParseLiteral(src string) Literal {
	s := strings.TrimSpace(src)
	switch {
	case s == "true":
		return BooleanLiteral(true)
	case s == "false":
		return BooleanLiteral(false)
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		if unquoted, err := strconv.Unquote(s); err == nil {
			return StringLiteral(unquoted)
		}
		return StringLiteral(s[1 : len(s)-1])
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		inner := s[1 : len(s)-1]
		if r, err := strconv.Unquote(s); err == nil && utf8.RuneCountInString(r) == 1 {
			c, _ := utf8.DecodeRuneInString(r)
			return CharacterLiteral(c)
		}
		if utf8.RuneCountInString(inner) == 1 {
			c, _ := utf8.DecodeRuneInString(inner)
			return CharacterLiteral(c)
		}
		return StringLiteral(inner)
	}

	clean := strings.ReplaceAll(s, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return IntegerLiteral(i)
	}
	if u, err := strconv.ParseUint(clean, 0, 64); err == nil {
		return UnsignedIntegerLiteral(u)
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return FloatLiteral(f)
	}
	return StringLiteral(s)
}
