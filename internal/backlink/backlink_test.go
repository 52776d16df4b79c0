package backlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	blog := Link{Href: "/blog/", Label: "Back to Blog"}

	tests := []struct {
		name   string
		data   map[string]any
		want   Link
		wantOK bool
	}{
		{
			name:   "single string tag",
			data:   map[string]any{"tags": "classes"},
			want:   Link{Href: "/classes/", Label: "Back to Classes"},
			wantOK: true,
		},
		{
			name:   "table order beats tag order",
			data:   map[string]any{"tags": []any{"projects", "post"}},
			want:   blog,
			wantOK: true,
		},
		{
			name:   "post before projects",
			data:   map[string]any{"tags": []string{"post", "projects"}},
			want:   blog,
			wantOK: true,
		},
		{
			name:   "projects alone",
			data:   map[string]any{"tags": []any{"ml", "projects"}},
			want:   Link{Href: "/projects/", Label: "Back to Projects"},
			wantOK: true,
		},
		{name: "no tags", data: map[string]any{}},
		{name: "nil data", data: nil},
		{name: "unrelated tag", data: map[string]any{"tags": []any{"unrelated"}}},
		{name: "non-string tags", data: map[string]any{"tags": []any{1, true}}},
		{name: "numeric tags value", data: map[string]any{"tags": 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"post"}, Tags("post"))
	assert.Equal(t, []string{"a", "b"}, Tags([]any{"a", 3, "b"}))
	assert.Empty(t, Tags(nil))
	assert.Empty(t, Tags(""))
}

func TestEntriesIsACopy(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"classes", "post", "projects"}, []string{entries[0].Tag, entries[1].Tag, entries[2].Tag})

	entries[0].Link.Href = "/elsewhere/"
	got, ok := Resolve(map[string]any{"tags": "classes"})
	require.True(t, ok)
	assert.Equal(t, "/classes/", got.Href)
}
