// internal/meta/meta.go
package meta

import (
	"strconv"
	"strings"
	"time"
)

// Fielder is implemented by values that expose named fields to dotted
// path lookups, such as rendered pages.
type Fielder interface {
	Field(name string) (any, bool)
}

// Resolve walks a dotted path like "data.author.name" through nested page
// metadata. Any missing segment, falsy intermediate value or value that
// cannot be descended yields (nil, false).
func Resolve(root any, path string) (any, bool) {
	cur := root
	for _, key := range strings.Split(path, ".") {
		if !truthy(cur) {
			return nil, false
		}
		next, ok := child(cur, key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Lookup is Resolve without the presence flag, convenient in templates.
func Lookup(root any, path string) any {
	v, _ := Resolve(root, path)
	return v
}

func child(v any, key string) (any, bool) {
	switch m := v.(type) {
	case Fielder:
		return m.Field(key)
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[any]any:
		// yaml.v2 decodes nested mappings with interface keys.
		val, ok := m[key]
		return val, ok
	case []any:
		return index(len(m), key, func(i int) any { return m[i] })
	case []string:
		return index(len(m), key, func(i int) any { return m[i] })
	}
	return nil, false
}

func index(n int, key string, at func(int) any) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return nil, false
	}
	return at(i), true
}

// truthy reports whether a value would allow a lookup to continue.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case map[string]any:
		return x != nil
	case map[any]any:
		return x != nil
	case []any:
		return x != nil
	}
	return true
}

// Equal compares two metadata values strictly. Numbers compare by value
// regardless of their Go type, times by instant, and mappings or sequences
// are never equal to anything.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
