package template

import (
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Range is the byte span of one placeholder, markers included
type Range struct {
	Start int
	End   int
}

// node is either literal text or a placeholder naming a sub-template
type node struct {
	text        string
	placeholder bool
	span        Range
}

// parser is a recursive descent parser over the token stream:
//
//	template    := (text | placeholder)*
//	placeholder := Open name Close
type parser struct {
	tokens []token
	pos    int
}

// parse turns template source into literal and placeholder nodes.
// A close marker outside a placeholder is literal text.
func parse(src string) ([]node, error) {
	p := &parser{tokens: lex(src)}
	return p.template()
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) template() ([]node, error) {
	var nodes []node
	for {
		tok, ok := p.peek()
		if !ok {
			return nodes, nil
		}
		switch tok.kind {
		case tokenOpen:
			n, err := p.placeholder()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			p.pos++
			nodes = appendText(nodes, tok.text)
		}
	}
}

func (p *parser) placeholder() (node, error) {
	open := p.tokens[p.pos]
	p.pos++

	var name strings.Builder
	for {
		tok, ok := p.peek()
		if !ok {
			return node{}, errors.WithDetailf(errors.ErrUnterminatedSection,
				"section opened at offset %d has no closing %q", open.pos, CloseMarker)
		}
		p.pos++
		switch tok.kind {
		case tokenText:
			name.WriteString(tok.text)
		case tokenOpen:
			return node{}, errors.WithDetailf(errors.ErrNestedSection,
				"section opened at offset %d is still open at offset %d", open.pos, tok.pos)
		case tokenClose:
			trimmed := strings.TrimSpace(name.String())
			if trimmed == "" {
				return node{}, errors.WithDetailf(errors.ErrEmptySectionName,
					"section at offset %d", open.pos)
			}
			return node{
				text:        trimmed,
				placeholder: true,
				span:        Range{Start: open.pos, End: tok.pos + len(CloseMarker)},
			}, nil
		}
	}
}

// appendText merges consecutive literal fragments
func appendText(nodes []node, text string) []node {
	if n := len(nodes); n > 0 && !nodes[n-1].placeholder {
		nodes[n-1].text += text
		return nodes
	}
	return append(nodes, node{text: text})
}
