// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/TylerFlar/tylerflar.github.io/internal/backlink"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
	"github.com/TylerFlar/tylerflar.github.io/internal/util"
)

// ArchetypePath is the template new content is rendered from.
const ArchetypePath = "archetypes/default.md"

// CreateNewSite writes a starter project into the directory name.
func CreateNewSite(name string) error {
	if _, err := os.Stat(filepath.Join(name, config.DefaultFile)); err == nil {
		return fmt.Errorf("%s already contains a site", name)
	}
	fmt.Println("Scaffolding new site in:", name)

	files := map[string]string{
		config.DefaultFile:         siteYamlContent,
		ArchetypePath:              archetypeDefaultMdContent,
		"src/index.md":             indexMdContent,
		"src/blog/index.md":        blogIndexMdContent,
		"src/blog/hello-world.md":  helloWorldMdContent,
		"src/_includes/base.html":  baseHTMLContent,
		"src/_includes/post.html":  postHTMLContent,
		"src/_includes/list.html":  listHTMLContent,
		"src/_data/nav.yaml":       navYamlContent,
		"src/assets/css/style.css": styleCSSContent,
	}
	for path, content := range files {
		full := filepath.Join(name, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	fmt.Println("Site scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  sitegen serve")
	return nil
}

// CreateNewContent renders the archetype into <input>/<section>/<slug>.md
// and returns the path written. Existing files are never overwritten.
func CreateNewContent(section, title, configPath string) (string, error) {
	site, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return "", err
	}
	slug := util.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters", title)
	}

	path := filepath.Join(site.Dir.Input, section, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	tmplBytes, err := os.ReadFile(ArchetypePath)
	if err != nil {
		return "", fmt.Errorf("could not read archetype file %s: %w", ArchetypePath, err)
	}
	tmpl, err := template.New("archetype").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", ArchetypePath, err)
	}

	data := struct {
		Title  string
		Author string
		Date   string
		Tag    string
	}{
		Title:  title,
		Author: site.Author,
		Date:   time.Now().Format("2006-01-02"),
		Tag:    sectionTag(section),
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	fmt.Println("Created:", path)
	return path, nil
}

// sectionTag picks the tag whose back link points at the section, so a
// new blog entry is tagged "post" and links back to /blog/.
func sectionTag(section string) string {
	section = strings.Trim(filepath.ToSlash(section), "/")
	for _, e := range backlink.Entries() {
		if e.Link.Href == "/"+section+"/" {
			return e.Tag
		}
	}
	return section
}

const siteYamlContent = `title: My Site
author: Your Name
baseurl: /
description: Notes, classes and projects.
dir:
  input: src
  includes: _includes
  data: _data
  output: docs
passthrough:
  - from: src/assets
    to: assets
markdown:
  html: true
  linkify: true
  breaks: true
  math: true
  highlight:
    style: monokai
    classes: true
`

const archetypeDefaultMdContent = `---
title: "{{ .Title }}"
author: {{ .Author }}
date: {{ .Date }}
tags: [{{ .Tag }}]
layout: post.html
---

Write something meaningful here.
`

const indexMdContent = `---
title: Home
layout: base.html
---
Welcome! Recent writing lives on the [blog](blog/index.md).
`

const blogIndexMdContent = `---
title: Blog
layout: list.html
---
`

const helloWorldMdContent = "---\n" +
	"title: Hello World\n" +
	"date: 2024-01-01\n" +
	"tags: [post]\n" +
	"layout: post.html\n" +
	"---\n" +
	"Inline math like $e^{i\\pi} + 1 = 0$ is left for MathJax.\n\n" +
	"```go\n" +
	"fmt.Println(\"hello\")\n" +
	"```\n"

const baseHTMLContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }} | {{ .Site.Config.Title }}</title>
  <meta name="description" content="{{ or .Data.description .Site.Config.Description }}">
  <link rel="stylesheet" href="/assets/css/style.css">
  <link rel="stylesheet" href="/assets/css/syntax.css">
  <script>
    window.MathJax = { tex: { inlineMath: [["$", "$"], ["\\(", "\\)"]], displayMath: [["$$", "$$"], ["\\[", "\\]"]] } };
  </script>
  <script async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js"></script>
</head>
<body>
  <header>
    <nav>{{ range .Site.Data.nav }}<a href="{{ .href }}">{{ .label }}</a> {{ end }}</nav>
  </header>
  <main>
    {{ with .BackLink }}<p class="back-link"><a href="{{ .Href }}">&larr; {{ .Label }}</a></p>{{ end }}
    {{ .Content }}
  </main>
  <footer>&copy; {{ .Site.Config.Author }}</footer>
</body>
</html>
`

const postHTMLContent = `---
layout: base.html
---
<article>
  <h1>{{ .Title }}</h1>
  <p class="date">{{ readableDate .Page.Date }}</p>
  {{ .Content }}
</article>
`

const listHTMLContent = `---
layout: base.html
---
<h1>{{ .Title }}</h1>
{{ .Content }}
<ul class="posts">
{{ range .Collections.post }}  <li><a href="{{ .URL }}">{{ .Title }}</a> <span>{{ readableDate .Date "monthYear" }}</span></li>
{{ end }}</ul>
`

const navYamlContent = `- href: /
  label: Home
- href: /blog/
  label: Blog
- href: /classes/
  label: Classes
- href: /projects/
  label: Projects
`

const styleCSSContent = `body {
  font-family: system-ui, sans-serif;
  max-width: 720px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
}
nav a { margin-right: 1em; }
.back-link a, .date { color: #666; font-size: 0.9em; }
pre.chroma { padding: 0.75em; overflow-x: auto; }
footer { margin-top: 3em; color: #777; font-size: 0.9em; }
`
