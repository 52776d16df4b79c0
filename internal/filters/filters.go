// internal/filters/filters.go
package filters

import (
	"reflect"

	"github.com/TylerFlar/tylerflar.github.io/internal/meta"
)

// FilterByField keeps the items whose field at path equals expected.
// Anything that is not a sequence yields an empty result.
func FilterByField(collection any, path string, expected any) []any {
	return partition(collection, path, expected, true)
}

// RejectByField keeps the items whose field at path does not equal expected.
func RejectByField(collection any, path string, expected any) []any {
	return partition(collection, path, expected, false)
}

func partition(collection any, path string, expected any, keep bool) []any {
	items, ok := elements(collection)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if meta.Equal(meta.Lookup(item, path), expected) == keep {
			out = append(out, item)
		}
	}
	return out
}

// elements flattens a sequence into a fresh []any.
func elements(collection any) ([]any, bool) {
	switch c := collection.(type) {
	case nil:
		return nil, false
	case []any:
		return append([]any(nil), c...), true
	case []map[string]any:
		out := make([]any, len(c))
		for i, m := range c {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(c))
		for i, s := range c {
			out[i] = s
		}
		return out, true
	}

	// Typed slices such as []*builder.Page.
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
