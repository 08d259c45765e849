// Package mapdata provides access to map feature snapshots with caching.
package mapdata

import (
	"errors"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Provider errors.
var (
	ErrNoMapData           = errors.New("no map data available")
	ErrProviderUnavailable = errors.New("map data provider unavailable")
)

// Feature is a sublocation boundary with its accessibility attributes.
type Feature struct {
	// Name identifies the sublocation and is used to match labels and popups.
	Name string

	// Accessibility is the combined accessibility score.
	Accessibility float64

	// Population is the total population of the sublocation.
	Population int

	// Category is the raw accessibility category from the source,
	// empty when the source omits one.
	Category string

	// Geometry is a Polygon or MultiPolygon boundary.
	Geometry orb.Geometry
}

// Bound returns the bounding box of the feature geometry.
func (f Feature) Bound() orb.Bound {
	if f.Geometry == nil {
		return orb.Bound{}
	}
	return f.Geometry.Bound()
}

// Center returns the popup anchor for the feature: the mean of the outer
// ring's vertices (first polygon for MultiPolygon). This matches label
// placement rather than a true centroid.
func (f Feature) Center() orb.Point {
	var ring orb.Ring
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			ring = g[0]
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			ring = g[0][0]
		}
	}
	if len(ring) == 0 {
		return orb.Point{}
	}

	var lon, lat float64
	for _, p := range ring {
		lon += p[0]
		lat += p[1]
	}
	n := float64(len(ring))
	return orb.Point{lon / n, lat / n}
}

// WaterPoint is a single water source, independent of any area boundary.
type WaterPoint struct {
	Name          string
	WaterSource   string
	CapacityScore int // 1 (low), 2 (medium) or 3 (high)
	Status        string
	Position      orb.Point
}

// MarkerRadius returns the render radius for the water point marker.
func (w WaterPoint) MarkerRadius() float64 {
	return 4 + float64(w.CapacityScore)*2
}

// MarkerColor returns the display color for the water point's capacity.
func (w WaterPoint) MarkerColor() string {
	switch w.CapacityScore {
	case 3:
		return "#0066cc"
	case 2:
		return "#ffaa00"
	case 1:
		return "#ff0000"
	default:
		return "#666666"
	}
}

// Snapshot is a point-in-time snapshot of all map data. It is replaced
// wholesale when new data arrives, never mutated incrementally.
type Snapshot struct {
	Features    []Feature
	WaterPoints []WaterPoint

	// FetchedAt is when this snapshot was retrieved from the provider.
	FetchedAt time.Time

	// Provider identifies the data source.
	Provider string
}

// Bound returns the union bounding box of all feature geometries: the full
// dataset extent used by camera-fit planning.
func (s *Snapshot) Bound() orb.Bound {
	var bound orb.Bound
	for i, f := range s.Features {
		if f.Geometry == nil {
			continue
		}
		if i == 0 || bound.IsEmpty() {
			bound = f.Bound()
			continue
		}
		bound = bound.Union(f.Bound())
	}
	return bound
}

// FeatureCollection re-encodes the sublocation features as GeoJSON for the
// rendering client.
func (s *Snapshot) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range s.Features {
		gf := geojson.NewFeature(f.Geometry)
		gf.Properties = geojson.Properties{
			"name":          f.Name,
			"accessibility": f.Accessibility,
			"population":    f.Population,
			"category":      f.Category,
		}
		fc.Append(gf)
	}
	return fc
}

// WaterPointCollection re-encodes the water points as GeoJSON, including the
// marker styling metadata used by the rendering client.
func (s *Snapshot) WaterPointCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, w := range s.WaterPoints {
		gf := geojson.NewFeature(w.Position)
		gf.Properties = geojson.Properties{
			"name":           w.Name,
			"water_source":   w.WaterSource,
			"capacity_score": w.CapacityScore,
			"status":         w.Status,
			"marker_radius":  w.MarkerRadius(),
			"marker_color":   w.MarkerColor(),
		}
		fc.Append(gf)
	}
	return fc
}
