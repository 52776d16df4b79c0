// internal/builder/goldmark_extensions.go
package builder

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	siteutil "github.com/TylerFlar/tylerflar.github.io/internal/util"
)

// sourcePathKey carries the rendered page's input-relative path.
var sourcePathKey = parser.NewContextKey()

// mdLinkTransformer rewrites relative links to other Markdown files into
// the permalink the target page is published at.
type mdLinkTransformer struct{}

func newMDLinkTransformer() parser.ASTTransformer {
	return &mdLinkTransformer{}
}

func (t *mdLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	source, _ := pc.Get(sourcePathKey).(string)
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if dest, ok := rewriteMDLink(source, string(link.Destination)); ok {
			link.Destination = []byte(dest)
		}
		return ast.WalkContinue, nil
	})
}

// rewriteMDLink maps "other.md#section", relative to the page at source,
// to "/dir/other/#section". Absolute URLs and non-Markdown targets are
// left alone.
func rewriteMDLink(source, dest string) (string, bool) {
	if dest == "" || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return "", false
	}
	target, fragment, _ := strings.Cut(dest, "#")
	if !strings.HasSuffix(target, ".md") {
		return "", false
	}

	var rel string
	if strings.HasPrefix(target, "/") {
		rel = strings.TrimPrefix(path.Clean(target), "/")
	} else {
		dir := path.Dir(filepath.ToSlash(source))
		rel = path.Clean(path.Join(dir, target))
	}
	if strings.HasPrefix(rel, "../") {
		return "", false
	}

	url := siteutil.Permalink(filepath.FromSlash(rel))
	if fragment != "" {
		url += "#" + fragment
	}
	return url, true
}
