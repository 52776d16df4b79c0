package filters

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jaytaylor/html2text"
)

// Plainify renders HTML as plain text for meta descriptions and feed
// summaries. Links keep their text only. A positive limit truncates to
// that many runes with a trailing ellipsis. Unparseable input gives "".
func Plainify(value any, limit ...int) string {
	var html string
	switch v := value.(type) {
	case nil:
		return ""
	case template.HTML:
		html = string(v)
	case string:
		html = v
	default:
		html = fmt.Sprint(v)
	}

	text, err := html2text.FromString(html, html2text.Options{OmitLinks: true})
	if err != nil {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")

	if len(limit) > 0 && limit[0] > 0 {
		runes := []rune(text)
		if len(runes) > limit[0] {
			return strings.TrimSpace(string(runes[:limit[0]])) + "…"
		}
	}
	return text
}
