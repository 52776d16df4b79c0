// internal/builder/models.go
package builder

import (
	"html/template"
	"time"

	"github.com/TylerFlar/tylerflar.github.io/internal/backlink"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
)

// BuildOptions controls a single build run.
type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	Debug            bool
}

// Page is one content file after front matter parsing and Markdown
// rendering. Pages are read-only once collections have been built.
type Page struct {
	InputPath  string
	FileSlug   string
	URL        string
	OutputPath string
	Date       time.Time
	Title      string
	Layout     string
	Tags       []string
	// Data is the page's front matter plus computed values such as backLink.
	Data     map[string]any
	Content  template.HTML
	BackLink *backlink.Link

	write    bool
	excluded bool
}

// Field exposes page properties to dotted path lookups, so filters can
// match on "url", "data.category" and the like.
func (p *Page) Field(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	switch name {
	case "url":
		return p.URL, true
	case "inputPath":
		return p.InputPath, true
	case "outputPath":
		return p.OutputPath, true
	case "fileSlug":
		return p.FileSlug, true
	case "date":
		return p.Date, true
	case "title":
		return p.Title, true
	case "data":
		return p.Data, true
	case "tags":
		tags := make([]any, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = t
		}
		return tags, true
	case "content", "templateContent":
		return string(p.Content), true
	}
	return nil, false
}

// Site is shared, read-only state visible to every layout.
type Site struct {
	Config      config.SiteConfig
	Data        map[string]any
	Collections map[string][]*Page
}

// PageData is the struct passed to layouts.
type PageData struct {
	Site        *Site
	Page        *Page
	Title       string
	Content     template.HTML
	BackLink    *backlink.Link
	Collections map[string][]*Page
	// Data is the page's data merged over the data of the layouts
	// rendered so far.
	Data map[string]any
}
