package template

import "strings"

// Section markers
const (
	OpenMarker  = "[section("
	CloseMarker = ")]"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenOpen
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenOpen:
		return "open"
	case tokenClose:
		return "close"
	default:
		return "text"
	}
}

// token is one lexeme with its byte offset in the source
type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits src into literal text and marker tokens.
// Markers are matched left to right; the earliest match wins.
func lex(src string) []token {
	var tokens []token
	pos := 0
	for pos < len(src) {
		rest := src[pos:]
		open := strings.Index(rest, OpenMarker)
		closing := strings.Index(rest, CloseMarker)

		next, kind, marker := -1, tokenText, ""
		switch {
		case open >= 0 && (closing < 0 || open <= closing):
			next, kind, marker = open, tokenOpen, OpenMarker
		case closing >= 0:
			next, kind, marker = closing, tokenClose, CloseMarker
		}

		if next < 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest, pos: pos})
			break
		}
		if next > 0 {
			tokens = append(tokens, token{kind: tokenText, text: rest[:next], pos: pos})
		}
		tokens = append(tokens, token{kind: kind, text: marker, pos: pos + next})
		pos += next + len(marker)
	}
	return tokens
}
