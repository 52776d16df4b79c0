// internal/builder/collections.go
package builder

import "sort"

// AllCollection holds every page that did not opt out of collections.
const AllCollection = "all"

// buildCollections groups pages by tag. Every collection is sorted by
// date, oldest first, with the input path breaking ties.
func buildCollections(pages []*Page) map[string][]*Page {
	all := make([]*Page, 0, len(pages))
	for _, p := range pages {
		if !p.excluded {
			all = append(all, p)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.InputPath < b.InputPath
	})

	collections := map[string][]*Page{AllCollection: all}
	for _, p := range all {
		seen := make(map[string]bool, len(p.Tags))
		for _, tag := range p.Tags {
			if tag == AllCollection || seen[tag] {
				continue
			}
			seen[tag] = true
			collections[tag] = append(collections[tag], p)
		}
	}
	return collections
}
