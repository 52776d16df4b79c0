// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/adrg/frontmatter"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/styles"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/TylerFlar/tylerflar.github.io/internal/config"
)

// Markdown renders page bodies to HTML with math passthrough, syntax
// highlighting and optional sanitization.
type Markdown struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	highlight config.HighlightConfig
}

// NewMarkdown builds the renderer from the site's markdown settings. When
// unsafe is false the rendered HTML is passed through a UGC policy.
func NewMarkdown(cfg config.MarkdownConfig, unsafe bool) *Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	}
	if cfg.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if cfg.Math {
		exts = append(exts, mathjax.MathJax)
	}
	exts = append(exts, highlighting.NewHighlighting(
		highlighting.WithStyle(cfg.Highlight.Style),
		highlighting.WithFormatOptions(chromahtml.WithClasses(cfg.Highlight.Classes)),
	))

	var rendererOpts []renderer.Option
	if cfg.Breaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if cfg.HTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	m := &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(
					util.Prioritized(newMDLinkTransformer(), 100),
				),
			),
			goldmark.WithRendererOptions(rendererOpts...),
		),
		highlight: cfg.Highlight,
	}
	if !unsafe {
		// Classes carry chroma token styles and the math spans MathJax looks for.
		policy := bluemonday.UGCPolicy()
		policy.AllowStyling()
		m.sanitizer = policy
	}
	return m
}

// Render converts a Markdown body. relPath is the page's path relative to
// the input directory and anchors relative .md links.
func (m *Markdown) Render(body []byte, relPath string) (string, error) {
	pc := parser.NewContext()
	pc.Set(sourcePathKey, relPath)

	var htmlBuffer bytes.Buffer
	if err := m.md.Convert(aliasFenceLanguages(body), &htmlBuffer, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}
	if m.sanitizer != nil {
		return string(m.sanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return htmlBuffer.String(), nil
}

// fenceAliases maps fence languages to the chroma lexer that should
// highlight them. Bare asm in these notes is Intel syntax, which chroma
// would otherwise hand to the AT&T-only GAS lexer.
var fenceAliases = map[string]string{
	"asm": "nasm",
}

var fenceInfo = regexp.MustCompile("(?m)^([ \t]{0,3}(?:`{3,}|~{3,})[ \t]*)([A-Za-z0-9_+#.-]+)")

// aliasFenceLanguages rewrites the language of opening code fences found
// in fenceAliases. The rest of the info string is kept.
func aliasFenceLanguages(body []byte) []byte {
	return fenceInfo.ReplaceAllFunc(body, func(match []byte) []byte {
		sub := fenceInfo.FindSubmatch(match)
		alias, ok := fenceAliases[string(sub[2])]
		if !ok {
			return match
		}
		out := append([]byte{}, sub[1]...)
		return append(out, alias...)
	})
}

// WriteSyntaxCSS writes the stylesheet for class-based highlighting.
func (m *Markdown) WriteSyntaxCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, styles.Get(m.highlight.Style))
}

// splitFrontMatter separates YAML (---) or TOML (+++) front matter from the
// body. Content without front matter yields empty data.
func splitFrontMatter(raw []byte) (map[string]any, []byte, error) {
	data := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, body, nil
}
