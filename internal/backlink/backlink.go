// internal/backlink/backlink.go
package backlink

// Link points a page back at the listing it belongs to.
type Link struct {
	Href  string `yaml:"href" json:"href"`
	Label string `yaml:"label" json:"label"`
}

// Entry pairs a tag with the link used for pages carrying it.
type Entry struct {
	Tag  string
	Link Link
}

// table is checked in order; the first entry whose tag a page carries wins.
var table = []Entry{
	{Tag: "classes", Link: Link{Href: "/classes/", Label: "Back to Classes"}},
	{Tag: "post", Link: Link{Href: "/blog/", Label: "Back to Blog"}},
	{Tag: "projects", Link: Link{Href: "/projects/", Label: "Back to Projects"}},
}

// Entries returns a copy of the back-link table in precedence order.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Tags normalizes a page's tags value: a single string becomes a
// one-element list, non-string members of a list are dropped and
// anything else is treated as no tags.
func Tags(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// Resolve returns the back link for a page from its metadata.
func Resolve(data map[string]any) (Link, bool) {
	return ForTags(Tags(data["tags"]))
}

// ForTags returns the first table entry present in tags.
func ForTags(tags []string) (Link, bool) {
	for _, e := range table {
		for _, tag := range tags {
			if tag == e.Tag {
				return e.Link, true
			}
		}
	}
	return Link{}, false
}
