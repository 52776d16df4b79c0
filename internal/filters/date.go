// internal/filters/date.go
package filters

import (
	"strings"
	"time"
)

// dateLayouts are the variants readableDate understands.
var dateLayouts = map[string]string{
	"default":   "Jan 2, 2006",
	"monthYear": "Jan 2006",
}

// inputLayouts are tried in order when a date arrives as a string.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate turns a front matter date value into a time. Strings are parsed
// with the common layouts above.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range inputLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ReadableDate formats a date as "Jan 2, 2006" or, with the "monthYear"
// variant, "Jan 2006". Empty or unparseable values render as "".
func ReadableDate(value any, variant ...string) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	layout := dateLayouts["default"]
	if len(variant) > 0 {
		if l, ok := dateLayouts[variant[0]]; ok {
			layout = l
		}
	}
	return t.UTC().Format(layout)
}
