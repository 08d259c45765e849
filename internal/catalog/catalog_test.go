package catalog_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watersight/watersight/internal/catalog"
	"github.com/watersight/watersight/internal/mapdata"
)

func testFeature(name string, accessibility float64, population int) mapdata.Feature {
	return mapdata.Feature{
		Name:          name,
		Accessibility: accessibility,
		Population:    population,
		Geometry: orb.Polygon{
			{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		},
	}
}

func TestBuild_DeduplicatesByName(t *testing.T) {
	features := []mapdata.Feature{
		testFeature("Karaba", 0.8, 1200),
		testFeature("Mbeti South", 1.4, 3400),
		testFeature("Karaba", 2.1, 9999), // duplicate, first wins
	}

	areas := catalog.Build(features)
	require.Len(t, areas, 2)

	assert.Equal(t, "Karaba", areas[0].Name)
	assert.Equal(t, 0.8, areas[0].Accessibility)
	assert.Equal(t, 1200, areas[0].Population)
	assert.Equal(t, "Mbeti South", areas[1].Name)
}

func TestBuild_EmptyInput(t *testing.T) {
	areas := catalog.Build(nil)
	assert.Empty(t, areas)

	areas = catalog.Build([]mapdata.Feature{})
	assert.Empty(t, areas)
}

func TestBuild_DerivesCategoryFromScore(t *testing.T) {
	features := []mapdata.Feature{
		testFeature("A", 0.5, 100),
		testFeature("B", 1.1, 100),
		testFeature("C", 1.4, 100),
		testFeature("D", 1.5, 100),
	}

	areas := catalog.Build(features)
	require.Len(t, areas, 4)

	assert.Equal(t, catalog.CategoryVeryWeak, areas[0].Category)
	assert.Equal(t, catalog.CategoryWeak, areas[1].Category)
	assert.Equal(t, catalog.CategoryGood, areas[2].Category)
	assert.Equal(t, catalog.CategoryVeryGood, areas[3].Category)
}

func TestBuild_PrefersSourceCategory(t *testing.T) {
	f := testFeature("A", 0.5, 100)
	f.Category = "Very Good" // source category wins over the derived one

	areas := catalog.Build([]mapdata.Feature{f})
	require.Len(t, areas, 1)
	assert.Equal(t, catalog.CategoryVeryGood, areas[0].Category)
}

func TestCategoryFor_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  catalog.Category
	}{
		{0.0, catalog.CategoryVeryWeak},
		{0.99, catalog.CategoryVeryWeak},
		{1.0, catalog.CategoryWeak},
		{1.19, catalog.CategoryWeak},
		{1.2, catalog.CategoryGood},
		{1.49, catalog.CategoryGood},
		{1.5, catalog.CategoryVeryGood},
		{3.0, catalog.CategoryVeryGood},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.CategoryFor(tt.score), "score %v", tt.score)
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	assert.Equal(t, catalog.CategoryUnknown, catalog.ParseCategory("something else"))
	assert.Equal(t, catalog.CategoryUnknown, catalog.ParseCategory("Unknown"))
	assert.Equal(t, catalog.CategoryGood, catalog.ParseCategory("Good"))
}

func TestCategoryColor(t *testing.T) {
	assert.Equal(t, "#ff0000", catalog.CategoryVeryWeak.Color())
	assert.Equal(t, "#ff8800", catalog.CategoryWeak.Color())
	assert.Equal(t, "#88ccff", catalog.CategoryGood.Color())
	assert.Equal(t, "#0066cc", catalog.CategoryVeryGood.Color())
	assert.Equal(t, "#cccccc", catalog.CategoryUnknown.Color())
}
