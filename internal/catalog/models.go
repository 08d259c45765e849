// Package catalog normalizes raw map features into a deduplicated list of
// named areas and resolves fuzzy area-name references against them.
package catalog

// Category classifies an area's water accessibility.
type Category string

const (
	CategoryVeryWeak Category = "Very Weak"
	CategoryWeak     Category = "Weak"
	CategoryGood     Category = "Good"
	CategoryVeryGood Category = "Very Good"
	CategoryUnknown  Category = "Unknown"
)

// CategoryFor derives a category from an accessibility score.
// Thresholds: < 1.0 Very Weak, < 1.2 Weak, < 1.5 Good, otherwise Very Good.
func CategoryFor(accessibility float64) Category {
	switch {
	case accessibility < 1.0:
		return CategoryVeryWeak
	case accessibility < 1.2:
		return CategoryWeak
	case accessibility < 1.5:
		return CategoryGood
	default:
		return CategoryVeryGood
	}
}

// categoryColors is the single source of truth for category coloring,
// shared by map styling, the legend and chart bars.
var categoryColors = map[Category]string{
	CategoryVeryWeak: "#ff0000",
	CategoryWeak:     "#ff8800",
	CategoryGood:     "#88ccff",
	CategoryVeryGood: "#0066cc",
	CategoryUnknown:  "#cccccc",
}

// Color returns the display color for the category.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryUnknown]
}

// Area is a named sub-region with its accessibility attributes.
type Area struct {
	// Name is unique within a catalog snapshot.
	Name string

	// Accessibility is the combined accessibility score.
	Accessibility float64

	// Population is the total population served, never negative.
	Population int

	// Category is the accessibility classification.
	Category Category
}
