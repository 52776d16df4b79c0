package builder

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TylerFlar/tylerflar.github.io/internal/config"
	"github.com/TylerFlar/tylerflar.github.io/internal/filters"
	"github.com/TylerFlar/tylerflar.github.io/internal/meta"
)

func TestRewriteMDLink(t *testing.T) {
	tests := []struct {
		source, dest, want string
		ok                 bool
	}{
		{"blog/a.md", "b.md", "/blog/b/", true},
		{"blog/a.md", "b.md#intro", "/blog/b/#intro", true},
		{"blog/a.md", "../classes/index.md", "/classes/", true},
		{"index.md", "about.md", "/about/", true},
		{"blog/a.md", "/projects/x.md", "/projects/x/", true},
		{"blog/a.md", "https://example.com/readme.md", "", false},
		{"blog/a.md", "image.png", "", false},
		{"blog/a.md", "#section", "", false},
		{"index.md", "../outside.md", "", false},
	}
	for _, tt := range tests {
		got, ok := rewriteMDLink(tt.source, tt.dest)
		assert.Equal(t, tt.ok, ok, "%s -> %s", tt.source, tt.dest)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.source, tt.dest)
	}
}

func TestMarkdownRender(t *testing.T) {
	cfg := config.Default().Markdown

	t.Run("hard breaks follow config", func(t *testing.T) {
		on, err := NewMarkdown(cfg, true).Render([]byte("a\nb\n"), "x.md")
		require.NoError(t, err)
		assert.Contains(t, on, "<br")

		cfg := cfg
		cfg.Breaks = false
		off, err := NewMarkdown(cfg, true).Render([]byte("a\nb\n"), "x.md")
		require.NoError(t, err)
		assert.NotContains(t, off, "<br")
	})

	t.Run("raw html follows config", func(t *testing.T) {
		cfg := cfg
		cfg.HTML = false
		out, err := NewMarkdown(cfg, true).Render([]byte("<b>hi</b>\n"), "x.md")
		require.NoError(t, err)
		assert.NotContains(t, out, "<b>hi</b>")
	})

	t.Run("math is left for mathjax", func(t *testing.T) {
		out, err := NewMarkdown(cfg, false).Render([]byte("$$\na^2+b^2\n$$\n"), "x.md")
		require.NoError(t, err)
		assert.Contains(t, out, "math display")
		assert.Contains(t, out, "a^2+b^2")
	})

	t.Run("inline tex is not read as emphasis", func(t *testing.T) {
		out, err := NewMarkdown(cfg, false).Render([]byte("Sum $a_1 + b_1$ and $x_i y_i$.\n"), "x.md")
		require.NoError(t, err)
		assert.Contains(t, out, `<span class="math inline">`)
		assert.Contains(t, out, "a_1 + b_1")
		assert.Contains(t, out, "x_i y_i")
		assert.NotContains(t, out, "<em>")

		cfg := cfg
		cfg.Math = false
		plain, err := NewMarkdown(cfg, false).Render([]byte("Sum $a_1 + b_1$ and $x_i y_i$.\n"), "x.md")
		require.NoError(t, err)
		assert.NotContains(t, plain, "math inline")
	})

	t.Run("code is highlighted", func(t *testing.T) {
		out, err := NewMarkdown(cfg, false).Render([]byte("```python\nprint(1)\n```\n"), "x.md")
		require.NoError(t, err)
		assert.Contains(t, out, "chroma")
		assert.Contains(t, out, "print")
	})

	t.Run("syntax css", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewMarkdown(cfg, false).WriteSyntaxCSS(&buf))
		assert.Contains(t, buf.String(), ".chroma")
	})
}

func TestAliasFenceLanguages(t *testing.T) {
	tests := []struct{ in, want string }{
		{"```asm\nmov eax, 1\n```\n", "```nasm\nmov eax, 1\n```\n"},
		{"~~~~ asm {linenos=true}\nret\n~~~~\n", "~~~~ nasm {linenos=true}\nret\n~~~~\n"},
		{"```asm6502\nlda #$01\n```\n", "```asm6502\nlda #$01\n```\n"},
		{"```systemverilog\nmodule m; endmodule\n```\n", "```systemverilog\nmodule m; endmodule\n```\n"},
		{"Inline `asm` stays.\n", "Inline `asm` stays.\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(aliasFenceLanguages([]byte(tt.in))), tt.in)
	}
}

func TestAsmFencesUseIntelSyntax(t *testing.T) {
	asm := "```asm\nmov eax, 1\n```\n"
	out, err := NewMarkdown(config.Default().Markdown, false).Render([]byte(asm), "x.md")
	require.NoError(t, err)

	nasm := "```nasm\nmov eax, 1\n```\n"
	want, err := NewMarkdown(config.Default().Markdown, false).Render([]byte(nasm), "x.md")
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.Contains(t, out, "chroma")
}

func TestSplitFrontMatter(t *testing.T) {
	data, body, err := splitFrontMatter([]byte("---\ntitle: Hi\ntags: [a, b]\n---\nBody\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hi", data["title"])
	assert.Equal(t, []any{"a", "b"}, data["tags"])
	assert.Equal(t, "Body", strings.TrimSpace(string(body)))

	data, body, err = splitFrontMatter([]byte("Just text\n"))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, "Just text", strings.TrimSpace(string(body)))
}

func TestCleanEditML(t *testing.T) {
	out, err := cleanEditML("Plain text stays.")
	require.NoError(t, err)
	assert.Contains(t, out, "Plain text stays.")

	out, err = cleanEditML("This is {+an addition+} and this is {-a deletion-}.")
	require.NoError(t, err)
	assert.Equal(t, "This is an addition and this is .", out)

	out, err = cleanEditML("Keep {=this=} but not {>reviewer note<}.")
	require.NoError(t, err)
	assert.Contains(t, out, "Keep this")
	assert.NotContains(t, out, "reviewer note")
	assert.NotContains(t, out, "{")

	assert.True(t, wantsEditML(map[string]any{"editml": true}))
	assert.False(t, wantsEditML(map[string]any{"editml": "yes"}))
	assert.False(t, wantsEditML(map[string]any{}))
}

func TestBuildCollections(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	c := &Page{InputPath: "c.md", Date: day(3), Tags: []string{"post"}}
	a := &Page{InputPath: "a.md", Date: day(1), Tags: []string{"post", "post", "all"}}
	b := &Page{InputPath: "b.md", Date: day(1), Tags: []string{"projects"}}
	hidden := &Page{InputPath: "h.md", Date: day(2), Tags: []string{"post"}, excluded: true}

	got := buildCollections([]*Page{c, hidden, b, a})
	assert.Equal(t, []*Page{a, b, c}, got[AllCollection])
	assert.Equal(t, []*Page{a, c}, got["post"])
	assert.Equal(t, []*Page{b}, got["projects"])
}

func TestLoadGlobalData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.json"), []byte(`{"name": "Tyler", "year": 2024}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nav.yml"), []byte("- /blog/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	data, err := loadGlobalData(dir)
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, "Tyler", meta.Lookup(data, "site.name"))
	assert.Equal(t, "/blog/", meta.Lookup(data, "nav.0"))

	empty, err := loadGlobalData(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("a: [\n"), 0644))
	_, err = loadGlobalData(dir)
	assert.Error(t, err)
}

func TestPageFields(t *testing.T) {
	p := &Page{
		URL:   "/blog/a/",
		Title: "A",
		Tags:  []string{"post"},
		Data:  map[string]any{"category": "ml"},
	}
	assert.Equal(t, "/blog/a/", meta.Lookup(p, "url"))
	assert.Equal(t, "ml", meta.Lookup(p, "data.category"))
	assert.Equal(t, "post", meta.Lookup(p, "tags.0"))
	assert.Nil(t, meta.Lookup(p, "nope"))

	var nilPage *Page
	assert.Nil(t, meta.Lookup(nilPage, "url"))

	got := filters.FilterByField([]*Page{p, {URL: "/x/"}}, "data.category", "ml")
	assert.Equal(t, []any{p}, got)
}

func TestTitleAndSlug(t *testing.T) {
	assert.Equal(t, "hello-world", fileSlug(filepath.FromSlash("blog/hello-world.md")))
	assert.Equal(t, "blog", fileSlug(filepath.FromSlash("blog/index.md")))
	assert.Equal(t, "", fileSlug("index.md"))
	assert.Equal(t, "Hello World", titleFromSlug("hello-world"))
	assert.Equal(t, "Snake Case", titleFromSlug("snake_case"))
}
