// Package chart reshapes the area catalog into typed chart payloads.
package chart

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/watersight/watersight/internal/catalog"
)

// Composer errors.
var (
	// ErrNoMatchingAreas means a name filter matched nothing; callers keep
	// the previous chart rather than surfacing an error.
	ErrNoMatchingAreas = errors.New("no matching areas")

	// ErrEmptyCatalog means no map data has loaded yet.
	ErrEmptyCatalog = errors.New("empty catalog")
)

// Kind identifies a chart payload shape.
type Kind string

const (
	KindTargetedComparison Kind = "targeted_comparison"
	KindSmartRanking       Kind = "smart_ranking"
	KindFocusedStatistics  Kind = "focused_statistics"
	KindPopulationAnalysis Kind = "population_analysis"
	KindCategoryBreakdown  Kind = "category_breakdown"
)

// Row is one bar of a chart. Area-shaped rows carry accessibility and
// population; category-shaped rows carry count and percentage.
type Row struct {
	Name          string           `json:"name"`
	Accessibility *float64         `json:"accessibility,omitempty"`
	Population    *int             `json:"population,omitempty"`
	Category      catalog.Category `json:"category,omitempty"`
	Color         string           `json:"color,omitempty"`

	// DeltaFromMean and AboveAverage are set for targeted comparisons,
	// relative to the mean over the entire catalog.
	DeltaFromMean *float64 `json:"delta_from_mean,omitempty"`
	AboveAverage  *bool    `json:"above_average,omitempty"`

	// Count and Percentage are set for category aggregations.
	Count      *int     `json:"count,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// Payload is a complete chart. It is immutable once produced; a new
// instruction fully replaces it.
type Payload struct {
	Title    string         `json:"title"`
	Kind     Kind           `json:"kind"`
	Rows     []Row          `json:"rows"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func areaRow(a catalog.Area) Row {
	acc := a.Accessibility
	pop := a.Population
	return Row{
		Name:          a.Name,
		Accessibility: &acc,
		Population:    &pop,
		Category:      a.Category,
		Color:         a.Category.Color(),
	}
}

func meanAccessibility(areas []catalog.Area) float64 {
	if len(areas) == 0 {
		return 0
	}
	var sum float64
	for _, a := range areas {
		sum += a.Accessibility
	}
	return sum / float64(len(areas))
}

// TargetedComparison shows only the compared areas, each annotated with its
// delta from the mean accessibility of the entire catalog, so comparisons
// stay relative to the whole territory rather than the matched subset.
func TargetedComparison(areas []catalog.Area, targets []string) (*Payload, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	matched := catalog.ResolveAny(areas, targets)
	if len(matched) == 0 {
		return nil, ErrNoMatchingAreas
	}

	mean := meanAccessibility(areas)

	rows := make([]Row, 0, len(matched))
	for _, a := range matched {
		row := areaRow(a)
		delta := a.Accessibility - mean
		above := delta > 0
		row.DeltaFromMean = &delta
		row.AboveAverage = &above
		rows = append(rows, row)
	}

	return &Payload{
		Title: "Comparison: " + strings.Join(targets, " vs "),
		Kind:  KindTargetedComparison,
		Rows:  rows,
		Metadata: map[string]any{
			"average":     mean,
			"total_areas": len(areas),
		},
	}, nil
}

// SmartRanking sorts areas by accessibility, ascending ("worst first", the
// default) or descending, after an optional show-only name filter and before
// an optional limit.
func SmartRanking(areas []catalog.Area, order string, limit int, showOnly []string) (*Payload, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	filtered := areas
	if len(showOnly) > 0 {
		filtered = catalog.ResolveAny(areas, showOnly)
		if len(filtered) == 0 {
			return nil, ErrNoMatchingAreas
		}
	}

	if order != "desc" {
		order = "asc"
	}

	sorted := make([]catalog.Area, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == "asc" {
			return sorted[i].Accessibility < sorted[j].Accessibility
		}
		return sorted[i].Accessibility > sorted[j].Accessibility
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	title := "Accessibility Ranking (Worst to Best)"
	if order == "desc" {
		title = "Accessibility Ranking (Best to Worst)"
	}
	if len(showOnly) > 0 {
		title = "Focused Ranking: " + strings.Join(showOnly, ", ")
	}

	rows := make([]Row, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, areaRow(a))
	}

	return &Payload{
		Title: title,
		Kind:  KindSmartRanking,
		Rows:  rows,
		Metadata: map[string]any{
			"order":          order,
			"total_filtered": len(filtered),
			"total_areas":    len(areas),
		},
	}, nil
}

// FocusedStatistics passes the catalog through as the row set, optionally
// filtered to the focus areas.
func FocusedStatistics(areas []catalog.Area, focusAreas []string) (*Payload, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	rowsFrom := areas
	title := "Statistical Summary"
	if len(focusAreas) > 0 {
		rowsFrom = catalog.ResolveAny(areas, focusAreas)
		if len(rowsFrom) == 0 {
			return nil, ErrNoMatchingAreas
		}
		title = "Statistics: " + strings.Join(focusAreas, ", ")
	}

	rows := make([]Row, 0, len(rowsFrom))
	for _, a := range rowsFrom {
		rows = append(rows, areaRow(a))
	}

	return &Payload{Title: title, Kind: KindFocusedStatistics, Rows: rows}, nil
}

// categoryOrder fixes aggregation row ordering, worst category first.
var categoryOrder = []catalog.Category{
	catalog.CategoryVeryWeak,
	catalog.CategoryWeak,
	catalog.CategoryGood,
	catalog.CategoryVeryGood,
	catalog.CategoryUnknown,
}

// aggregateByCategory groups areas by category with count, total population
// and the share of the grand total population to one decimal place. A zero
// grand total yields 0%, never a division error.
func aggregateByCategory(areas []catalog.Area, title string, kind Kind) (*Payload, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	type bucket struct {
		count      int
		population int
	}
	buckets := make(map[catalog.Category]*bucket)
	var totalPopulation int
	for _, a := range areas {
		b := buckets[a.Category]
		if b == nil {
			b = &bucket{}
			buckets[a.Category] = b
		}
		b.count++
		b.population += a.Population
		totalPopulation += a.Population
	}

	rows := make([]Row, 0, len(buckets))
	for _, cat := range categoryOrder {
		b, ok := buckets[cat]
		if !ok {
			continue
		}
		var pct float64
		if totalPopulation > 0 {
			pct = math.Round(float64(b.population)/float64(totalPopulation)*1000) / 10
		}
		count := b.count
		pop := b.population
		rows = append(rows, Row{
			Name:       string(cat),
			Category:   cat,
			Color:      cat.Color(),
			Count:      &count,
			Population: &pop,
			Percentage: &pct,
		})
	}

	return &Payload{Title: title, Kind: kind, Rows: rows}, nil
}

// PopulationAnalysis breaks down the population impact per category.
func PopulationAnalysis(areas []catalog.Area) (*Payload, error) {
	return aggregateByCategory(areas, "Population Impact Analysis", KindPopulationAnalysis)
}

// CategoryBreakdown shows the distribution of areas across categories. It
// shares the aggregation with PopulationAnalysis; the kinds differ only in
// title and label semantics.
func CategoryBreakdown(areas []catalog.Area) (*Payload, error) {
	return aggregateByCategory(areas, "Category Distribution", KindCategoryBreakdown)
}

// DefaultRanking is the all-areas ascending ranking used by the keyword
// fallback when the assistant sent no explicit chart instruction.
func DefaultRanking(areas []catalog.Area) (*Payload, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	sorted := make([]catalog.Area, len(areas))
	copy(sorted, areas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Accessibility < sorted[j].Accessibility
	})

	rows := make([]Row, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, areaRow(a))
	}

	return &Payload{
		Title: "Water Accessibility Rankings (All Areas)",
		Kind:  KindSmartRanking,
		Rows:  rows,
	}, nil
}
