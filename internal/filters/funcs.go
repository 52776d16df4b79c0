// internal/filters/funcs.go
package filters

import (
	"html/template"

	"github.com/TylerFlar/tylerflar.github.io/internal/meta"
)

// FuncMap returns the filters registered with every layout.
//
//	{{ readableDate .Page.Date "monthYear" }}
//	{{ range filterByField .Collections.all "data.category" "ml" }}...{{ end }}
//	{{ plainify .Content 160 }}
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"readableDate":  ReadableDate,
		"filterByField": FilterByField,
		"rejectByField": RejectByField,
		"getByPath":     meta.Lookup,
		"plainify":      Plainify,
	}
}
