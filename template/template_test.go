package template

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestBuildNestedSections(t *testing.T) {
	reg := New()
	reg.Register("top", "A[section(mid)]B")
	reg.Register("mid", "1[section(inner)]2")

	section, err := reg.Section("top").Build()
	require.NoError(t, err)

	assert.Equal(t, "A12B", section.String())
	assert.Equal(t, "top", section.Name)

	mid, ok := section.Get("mid")
	require.True(t, ok)
	inner, ok := mid.Get("inner")
	require.True(t, ok)
	assert.Equal(t, 0, inner.Len())

	// The unregistered section is still addressable and fillable
	inner.Write("x")
	assert.Equal(t, "A1x2B", section.String())
}

func TestBuildSkipsEmptyText(t *testing.T) {
	st := NewSectionTemplate("t", "[section(a)]")
	section, err := st.Build()
	require.NoError(t, err)
	require.Equal(t, 1, section.Len())
	assert.Equal(t, "a", section.Branches()[0].Name)
}

func TestBuildCycle(t *testing.T) {
	reg := New()
	reg.Register("a", "x[section(b)]")
	reg.Register("b", "y[section(a)]")

	_, err := reg.Section("a").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTemplateCycle))
}

func TestBuildSelfInclusion(t *testing.T) {
	reg := New()
	reg.Register("a", "[section(a)]")
	_, err := reg.Sections("a")
	assert.True(t, errors.Is(err, errors.ErrTemplateCycle))
}

func TestBuildRepeatedSiblingIsNotACycle(t *testing.T) {
	reg := New()
	reg.Register("top", "[section(leaf)],[section(leaf)]")
	reg.Register("leaf", "L")

	section, err := reg.Sections("top")
	require.NoError(t, err)
	assert.Equal(t, "L,L", section.String())
}

func TestBuildPropagatesSubTemplateErrors(t *testing.T) {
	reg := New()
	reg.Register("top", "[section(bad)]")
	reg.Register("bad", "[section(open")

	_, err := reg.Sections("top")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnterminatedSection))
	assert.Contains(t, err.Error(), "bad")
}

func TestRanges(t *testing.T) {
	st := NewSectionTemplate("t", "A[section(x)]B[section(y)]")
	ranges, err := st.Ranges()
	require.NoError(t, err)
	assert.Equal(t, []Range{{Start: 1, End: 13}, {Start: 14, End: 26}}, ranges)

	_, err = NewSectionTemplate("bad", "[section(").Ranges()
	assert.True(t, errors.Is(err, errors.ErrUnterminatedSection))
}

func TestSectionTemplateGet(t *testing.T) {
	reg := New()
	reg.Register("a", "1")

	sibling, ok := reg.Section("b").Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", sibling.Content)

	_, ok = reg.Section("a").Get("zzz")
	assert.False(t, ok)

	_, ok = NewSectionTemplate("solo", "").Get("a")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	reg := New()
	reg.Register("greet", "Hello, {{.Name}}!{{template \"sig\" .}}")
	reg.Register("sig", " -- {{snake .Name}}")

	out, err := reg.Render("greet", struct{ Name string }{"HttpServer"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, HttpServer! -- http_server", out)
}

func TestRenderHelpers(t *testing.T) {
	reg := New()
	reg.RegisterFunction("shout", func(s string) string { return s + "!" })
	reg.Register("t", `{{shout (pascal .)}} {{screaming_snake .}} {{join (list) ","}}`)
	reg.RegisterFunction("list", func() []string { return []string{"a", "b"} })

	out, err := reg.Render("t", "my_type")
	require.NoError(t, err)
	assert.Equal(t, "MyType! MY_TYPE a,b", out)
}

func TestRenderErrors(t *testing.T) {
	reg := New()
	_, err := reg.Render("missing", nil)
	assert.True(t, errors.Is(err, errors.ErrUnknownTemplate))

	reg.Register("broken", "{{.Name")
	_, err = reg.Render("broken", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRenderSections(t *testing.T) {
	reg := New()
	reg.Register("file", "// {{.}}\n[section(body)]// end\n")
	reg.Register("body", "fn {{snake .}}();\n[section(extra)]")

	section, err := reg.RenderSections("file", "DoThing")
	require.NoError(t, err)
	assert.Equal(t, "// DoThing\nfn do_thing();\n// end\n", section.String())

	extra, ok := section.PathGet("body", "extra")
	require.True(t, ok)
	extra.Writeln("fn more();")
	assert.Equal(t, "// DoThing\nfn do_thing();\nfn more();\n// end\n", section.String())
}

func TestRegisterFS(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/header.tmpl":      {Data: []byte("H[section(body)]")},
		"templates/nested/body.tmpl": {Data: []byte("B")},
		"templates/readme.md":        {Data: []byte("ignored")},
	}

	reg := New()
	require.NoError(t, reg.RegisterFS(fsys, "templates"))
	assert.Equal(t, []string{"body", "header"}, reg.Names())
	assert.True(t, reg.Has("header"))
	assert.False(t, reg.Has("readme"))

	section, err := reg.Sections("header")
	require.NoError(t, err)
	assert.Equal(t, "HB", section.String())
}

func TestSectionsUnknown(t *testing.T) {
	_, err := New().Sections("nope")
	assert.True(t, errors.Is(err, errors.ErrUnknownTemplate))
}
