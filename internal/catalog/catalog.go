package catalog

import (
	"github.com/watersight/watersight/internal/mapdata"
)

// ParseCategory maps a source category string onto a Category. Unrecognized
// values map to Unknown.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryVeryWeak, CategoryWeak, CategoryGood, CategoryVeryGood:
		return Category(s)
	default:
		return CategoryUnknown
	}
}

// Build normalizes features into a deduplicated list of areas. Features are
// visited in input order and the first feature per distinct name wins;
// later duplicates are discarded. An empty or nil input yields an empty
// catalog, never an error: downstream operations degrade to no-ops while the
// first data load is still in flight.
func Build(features []mapdata.Feature) []Area {
	areas := make([]Area, 0, len(features))
	seen := make(map[string]struct{}, len(features))

	for _, f := range features {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}

		category := ParseCategory(f.Category)
		if f.Category == "" {
			category = CategoryFor(f.Accessibility)
		}

		areas = append(areas, Area{
			Name:          f.Name,
			Accessibility: f.Accessibility,
			Population:    f.Population,
			Category:      category,
		})
	}

	return areas
}
