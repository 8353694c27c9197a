package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestLex(t *testing.T) {
	tokens := lex("a[section(x)]b)]")
	kinds := make([]tokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.kind
	}
	assert.Equal(t, []tokenKind{tokenText, tokenOpen, tokenText, tokenClose, tokenText, tokenClose}, kinds)
	assert.Equal(t, 1, tokens[1].pos)
	assert.Equal(t, 11, tokens[3].pos)
}

func TestLexEmpty(t *testing.T) {
	assert.Empty(t, lex(""))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []node
	}{
		{
			name:     "plain text",
			src:      "hello",
			expected: []node{{text: "hello"}},
		},
		{
			name: "single placeholder",
			src:  "A[section(mid)]B",
			expected: []node{
				{text: "A"},
				{text: "mid", placeholder: true, span: Range{Start: 1, End: 15}},
				{text: "B"},
			},
		},
		{
			name: "adjacent placeholders",
			src:  "[section(a)][section(b)]",
			expected: []node{
				{text: "a", placeholder: true, span: Range{Start: 0, End: 12}},
				{text: "b", placeholder: true, span: Range{Start: 12, End: 24}},
			},
		},
		{
			name:     "stray close is literal",
			src:      "f(x)] + g",
			expected: []node{{text: "f(x)] + g"}},
		},
		{
			name: "name is trimmed",
			src:  "[section( padded )]",
			expected: []node{
				{text: "padded", placeholder: true, span: Range{Start: 0, End: 19}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nodes)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		sentinel error
	}{
		{"open without close", "A[section(mid", errors.ErrUnterminatedSection},
		{"close before open only", ")]A[section(mid", errors.ErrUnterminatedSection},
		{"open inside open name", "[section(a[section(b)])]", errors.ErrNestedSection},
		{"empty name", "x[section()]y", errors.ErrEmptySectionName},
		{"blank name", "[section(   )]", errors.ErrEmptySectionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.True(t, errors.IsStructuralError(err))
		})
	}
}
