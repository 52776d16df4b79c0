package util

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// Permalink computes the pretty URL for a content file given its path
// relative to the input directory. "blog/post.md" becomes "/blog/post/"
// and any "index" file maps to its directory.
func Permalink(relPath string) string {
	p := filepath.ToSlash(relPath)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "" {
		return "/"
	}
	return "/" + strings.Trim(p, "/") + "/"
}

// OutputPath maps a URL onto a file inside outputDir. Directory-style URLs
// get an index.html.
func OutputPath(outputDir, url string) string {
	clean := path.Clean("/" + url)
	if strings.HasSuffix(url, "/") {
		return filepath.Join(outputDir, filepath.FromSlash(clean), "index.html")
	}
	return filepath.Join(outputDir, filepath.FromSlash(clean))
}

// Slugify turns a title into a lowercase ASCII file name. Accented and
// non-Latin letters are transliterated ("Café" becomes "cafe") and
// underscores become dashes.
func Slugify(s string) string {
	return slug.Make(strings.ReplaceAll(s, "_", " "))
}
