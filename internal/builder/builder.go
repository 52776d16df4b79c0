// internal/builder/builder.go
package builder

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TylerFlar/tylerflar.github.io/internal/backlink"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
	"github.com/TylerFlar/tylerflar.github.io/internal/filters"
	"github.com/TylerFlar/tylerflar.github.io/internal/util"
)

// SyntaxCSSPath is where the highlighting stylesheet lands, relative to
// the output directory.
const SyntaxCSSPath = "assets/css/syntax.css"

// BuildSite renders every page under the input directory into the output
// directory, copies passthrough files, and returns the number of pages
// written.
func BuildSite(ctx context.Context, site config.SiteConfig, opts BuildOptions) (int, error) {
	outputDir := site.Dir.Output
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	if opts.CleanDestination {
		fmt.Println("Cleaning destination directory...")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return 0, err
			}
		}
	}

	md := NewMarkdown(site.Markdown, opts.Unsafe)

	globalData, err := loadGlobalData(site.DataDir())
	if err != nil {
		return 0, err
	}

	pages, err := loadPages(ctx, site, md, opts)
	if err != nil {
		return 0, err
	}

	funcs := filters.FuncMap()
	funcs["markdownify"] = func(s string) (template.HTML, error) {
		out, err := md.Render([]byte(s), "")
		return template.HTML(out), err
	}
	layouts, err := LoadLayouts(site.IncludesDir(), funcs)
	if err != nil {
		return 0, fmt.Errorf("failed to load layouts: %w", err)
	}

	state := &Site{
		Config:      site,
		Data:        globalData,
		Collections: buildCollections(pages),
	}

	pagesGenerated, err := renderPages(ctx, state, layouts, pages)
	if err != nil {
		return 0, err
	}

	for _, pt := range site.Passthrough {
		if err := copyPassthrough(pt.From, filepath.Join(outputDir, pt.To)); err != nil {
			return 0, fmt.Errorf("failed to copy %s: %w", pt.From, err)
		}
	}

	if site.Markdown.Highlight.Classes {
		if err := writeSyntaxCSS(md, filepath.Join(outputDir, filepath.FromSlash(SyntaxCSSPath))); err != nil {
			return 0, err
		}
	}
	return pagesGenerated, nil
}

// loadPages finds every content file and renders its Markdown. Files are
// processed in parallel; the result keeps walk order.
func loadPages(ctx context.Context, site config.SiteConfig, md *Markdown, opts BuildOptions) ([]*Page, error) {
	inputDir := site.Dir.Input
	skip := map[string]bool{
		filepath.Clean(site.IncludesDir()): true,
		filepath.Clean(site.DataDir()):     true,
		filepath.Clean(site.Dir.Output):    true,
	}
	for _, pt := range site.Passthrough {
		skip[filepath.Clean(pt.From)] = true
	}

	var paths []string
	if err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if skip[filepath.Clean(path)] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(info.Name())
		if ext != ".html" && ext != ".md" {
			return nil
		}
		paths = append(paths, path)
		return nil
	}); err != nil {
		return nil, err
	}

	loaded := make([]*Page, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := loadPage(inputDir, path, site.Dir.Output, md)
			if err != nil {
				return fmt.Errorf("failed to process content for %s: %w", path, err)
			}
			if opts.Debug && page != nil {
				fmt.Printf("  %s -> %s\n", path, page.URL)
			}
			loaded[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pages := make([]*Page, 0, len(loaded))
	for _, p := range loaded {
		if p != nil {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// loadPage reads one content file. It returns a nil page for drafts.
func loadPage(inputDir, path, outputDir string, md *Markdown) (*Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(contentBytes) {
		return nil, fmt.Errorf("content file is not valid UTF-8: %s", path)
	}

	data, body, err := splitFrontMatter(contentBytes)
	if err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel(inputDir, path)
	if err != nil {
		return nil, err
	}
	ext := filepath.Ext(relPath)
	slug := fileSlug(relPath)

	if draft, _ := data["draft"].(bool); draft && !isExceptionPage(strings.TrimSuffix(filepath.ToSlash(relPath), ext)) {
		return nil, nil
	}

	if wantsEditML(data) {
		clean, err := cleanEditML(string(body))
		if err != nil {
			return nil, err
		}
		body = []byte(clean)
	}

	content := string(body)
	if ext == ".md" {
		if content, err = md.Render(body, relPath); err != nil {
			return nil, err
		}
	}

	page := &Page{
		InputPath: path,
		FileSlug:  slug,
		URL:       util.Permalink(relPath),
		Date:      info.ModTime(),
		Tags:      backlink.Tags(data["tags"]),
		Data:      data,
		Content:   template.HTML(content),
		write:     true,
	}

	switch permalink := data["permalink"].(type) {
	case string:
		if permalink != "" {
			page.URL = "/" + strings.TrimPrefix(permalink, "/")
		}
	case bool:
		page.write = permalink
	}
	page.OutputPath = util.OutputPath(outputDir, page.URL)

	if date, ok := filters.ParseDate(data["date"]); ok {
		page.Date = date
	}
	if title, ok := data["title"].(string); ok && title != "" {
		page.Title = title
	} else {
		page.Title = titleFromSlug(slug)
	}
	page.Layout, _ = data["layout"].(string)
	page.excluded, _ = data["eleventyExcludeFromCollections"].(bool)

	if link, ok := backlink.Resolve(data); ok {
		page.BackLink = &link
		data["backLink"] = map[string]any{"href": link.Href, "label": link.Label}
	} else {
		delete(data, "backLink")
	}
	return page, nil
}

// renderPages executes layouts for every writable page in parallel.
func renderPages(ctx context.Context, site *Site, layouts *Layouts, pages []*Page) (int, error) {
	written := make([]bool, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, page := range pages {
		if !page.write {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := renderPage(site, layouts, page); err != nil {
				return fmt.Errorf("failed to render page %s: %w", page.InputPath, err)
			}
			written[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for _, w := range written {
		if w {
			count++
		}
	}
	return count, nil
}

// renderPage executes the page's layout chain and replaces the output
// file in one step, so the dev server never serves a half-written page.
func renderPage(site *Site, layouts *Layouts, page *Page) error {
	if err := os.MkdirAll(filepath.Dir(page.OutputPath), 0755); err != nil {
		return err
	}

	data := PageData{
		Site:        site,
		Page:        page,
		Title:       page.Title,
		Content:     page.Content,
		BackLink:    page.BackLink,
		Collections: site.Collections,
		Data:        page.Data,
	}
	var buf bytes.Buffer
	if err := layouts.Render(&buf, page.Layout, data); err != nil {
		return err
	}
	return atomic.WriteFile(page.OutputPath, &buf)
}

// copyPassthrough copies a file or a directory tree from src to dest.
// A missing source is skipped.
func copyPassthrough(src, dest string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(srcPath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

func writeSyntaxCSS(md *Markdown, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := md.WriteSyntaxCSS(&buf); err != nil {
		return fmt.Errorf("failed to write syntax stylesheet: %w", err)
	}
	return atomic.WriteFile(path, &buf)
}

// fileSlug is the file name without extension; index files take the name
// of their directory.
func fileSlug(relPath string) string {
	base := filepath.Base(relPath)
	slug := strings.TrimSuffix(base, filepath.Ext(base))
	if slug == "index" {
		dir := filepath.Base(filepath.Dir(relPath))
		if dir == "." {
			return ""
		}
		return dir
	}
	return slug
}

// titleFromSlug turns "hello-world" into "Hello World". Casers keep state,
// so each call gets its own.
func titleFromSlug(slug string) string {
	if slug == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}

// isExceptionPage checks for pages that should not be considered drafts.
func isExceptionPage(slug string) bool {
	return slug == "index" || slug == "about" || slug == "404"
}
