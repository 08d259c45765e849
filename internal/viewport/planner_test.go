package viewport_test

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watersight/watersight/internal/mapdata"
	"github.com/watersight/watersight/internal/viewport"
)

// squareFeature builds a feature with a square boundary of the given size at
// (lon, lat).
func squareFeature(name string, lon, lat, size float64) mapdata.Feature {
	return mapdata.Feature{
		Name:          name,
		Accessibility: 0.8,
		Population:    12345,
		Category:      "Very Weak",
		Geometry: orb.Polygon{
			{{lon, lat}, {lon + size, lat}, {lon + size, lat + size}, {lon, lat + size}, {lon, lat}},
		},
	}
}

// testDataset spans roughly one degree of longitude: two clusters of small
// features at the west and east edges.
func testDataset() []mapdata.Feature {
	return []mapdata.Feature{
		squareFeature("West A", 0, 0, 0.1),
		squareFeature("West B", 0.2, 0, 0.1),
		squareFeature("East A", 1.0, 0, 0.1),
	}
}

func TestPlan_ZeroMatches(t *testing.T) {
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	plan := p.Plan(nil, testDataset(), true)
	require.NotNil(t, plan)
	assert.Empty(t, plan.Highlights)
	assert.Empty(t, plan.Popups)
	assert.Nil(t, plan.Camera)
}

func TestPlan_SingleMatch(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	plan := p.Plan(all[:1], all, true)
	require.Len(t, plan.Highlights, 1)
	require.Len(t, plan.Popups, 1)

	require.NotNil(t, plan.Camera)
	assert.Equal(t, viewport.FitSingle, plan.Camera.Kind)
	assert.Equal(t, 50, plan.Camera.Padding)
	assert.Equal(t, 14, plan.Camera.MaxZoom)
	assert.Equal(t, all[0].Bound(), plan.Camera.Bound)
}

func TestPlan_ClusteredMatches(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	// the two western features span well under 70% of the full extent
	plan := p.Plan(all[:2], all, true)
	require.NotNil(t, plan.Camera)
	assert.Equal(t, viewport.FitCluster, plan.Camera.Kind)
	assert.Equal(t, 30, plan.Camera.Padding)
	assert.Equal(t, 13, plan.Camera.MaxZoom)

	union := all[0].Bound().Union(all[1].Bound())
	assert.Equal(t, union, plan.Camera.Bound)
}

func TestPlan_ScatteredMatches(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	// westmost and eastmost features span the full extent
	matched := []mapdata.Feature{all[0], all[2]}
	plan := p.Plan(matched, all, true)
	require.NotNil(t, plan.Camera)
	assert.Equal(t, viewport.FitFull, plan.Camera.Kind)
	assert.Equal(t, 20, plan.Camera.Padding)
	assert.Equal(t, 10, plan.Camera.MinZoom)
	assert.Equal(t, 12, plan.Camera.MaxZoom)
}

func TestPlan_TooManyMatchesLeavesCamera(t *testing.T) {
	var all []mapdata.Feature
	for i := 0; i < 19; i++ {
		all = append(all, squareFeature(fmt.Sprintf("Area %d", i), float64(i)*0.2, 0, 0.1))
	}

	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())
	plan := p.Plan(all, all, true)

	// the frame cap only suppresses the camera, never the highlights
	assert.Len(t, plan.Highlights, 19)
	assert.Len(t, plan.Popups, 19)
	assert.Nil(t, plan.Camera)
}

func TestPlan_PopupContent(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	plan := p.Plan(all[:1], all, true)
	require.Len(t, plan.Popups, 1)

	popup := plan.Popups[0]
	assert.Equal(t, "West A", popup.Name)
	assert.Equal(t, "0.800", popup.Accessibility)
	assert.Equal(t, "12,345", popup.Population)
	assert.Equal(t, "Very Weak", string(popup.Category))
	assert.Equal(t, "#ff0000", popup.CategoryColor)

	// anchor is the mean of the outer ring's vertices, closing point
	// included
	assert.InDelta(t, 0.04, popup.Anchor[0], 1e-9)
	assert.InDelta(t, 0.04, popup.Anchor[1], 1e-9)
}

func TestPlan_PopupsSuppressed(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	plan := p.Plan(all[:1], all, false)
	assert.Len(t, plan.Highlights, 1)
	assert.Empty(t, plan.Popups)
	assert.NotNil(t, plan.Camera)
}

func TestPlan_HighlightStyle(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	plan := p.Plan(all[:1], all, true)
	require.Len(t, plan.Highlights, 1)

	style := plan.Highlights[0].Style
	assert.Equal(t, "#00ff88", style.Color)
	assert.Equal(t, 6, style.Weight)
	assert.Equal(t, 1.0, style.Opacity)
	assert.Equal(t, "#00ff88", style.FillColor)
	assert.Equal(t, 0.15, style.FillOpacity)
}

func TestPlan_Deterministic(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.DefaultPlannerConfig())

	first := p.Plan(all[:2], all, true)
	second := p.Plan(all[:2], all, true)
	assert.Equal(t, first, second)
}

func TestNewPlanner_ZeroConfigDefaults(t *testing.T) {
	all := testDataset()
	p := viewport.NewPlanner(viewport.PlannerConfig{})

	plan := p.Plan(all[:1], all, true)
	require.NotNil(t, plan.Camera)
	assert.Equal(t, 50, plan.Camera.Padding)
	assert.Equal(t, viewport.DefaultHighlightStyle, plan.Highlights[0].Style)
}
