// internal/builder/layouts.go
package builder

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// layout is one file from the includes directory. Its own front matter
// may name a parent layout and contribute default data.
type layout struct {
	name   string
	parent string
	data   map[string]any
}

// Layouts holds every include parsed into a single template set, so
// partials can be pulled in with {{ template "partials/nav.html" . }}.
type Layouts struct {
	tmpl   *template.Template
	byName map[string]*layout
}

// LoadLayouts parses all .html files below dir. Templates are named by
// their slash-separated path relative to dir. A missing dir yields an
// empty set.
func LoadLayouts(dir string, funcs template.FuncMap) (*Layouts, error) {
	l := &Layouts{
		tmpl:   template.New("").Funcs(funcs),
		byName: make(map[string]*layout),
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return l, nil
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(info.Name()) != ".html" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read layout %s: %w", path, err)
		}
		data, body, err := splitFrontMatter(raw)
		if err != nil {
			return fmt.Errorf("layout %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if _, err := l.tmpl.New(name).Parse(string(body)); err != nil {
			return fmt.Errorf("failed to parse layout %s: %w", path, err)
		}
		parent, _ := data["layout"].(string)
		delete(data, "layout")
		l.byName[name] = &layout{name: name, parent: parent, data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// lookup accepts names with or without the .html extension.
func (l *Layouts) lookup(name string) (*layout, bool) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	if lay, ok := l.byName[name]; ok {
		return lay, true
	}
	lay, ok := l.byName[name+".html"]
	return lay, ok
}

// Render wraps data.Content in the named layout and then in each parent
// layout in turn, writing the outermost result to w. An empty name writes
// the content unchanged.
func (l *Layouts) Render(w io.Writer, name string, data PageData) error {
	seen := make(map[string]bool)
	for name != "" {
		lay, ok := l.lookup(name)
		if !ok {
			return fmt.Errorf("layout %q not found", name)
		}
		if seen[lay.name] {
			return fmt.Errorf("layout %q includes itself", lay.name)
		}
		seen[lay.name] = true

		data.Data = mergeData(lay.data, data.Data)
		var buf bytes.Buffer
		if err := l.tmpl.ExecuteTemplate(&buf, lay.name, data); err != nil {
			return fmt.Errorf("failed to execute layout %s: %w", lay.name, err)
		}
		data.Content = template.HTML(buf.String())
		name = lay.parent
	}
	_, err := io.WriteString(w, string(data.Content))
	return err
}

// mergeData returns base overlaid with over; over wins on conflicts.
func mergeData(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
