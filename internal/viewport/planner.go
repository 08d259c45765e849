// Package viewport computes highlight styling, popups and camera-fit plans
// from matched feature geometry.
package viewport

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/watersight/watersight/internal/catalog"
	"github.com/watersight/watersight/internal/mapdata"
)

// HighlightStyle describes how a matched feature is emphasized. Highlights
// render above the base layers.
type HighlightStyle struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
}

// DefaultHighlightStyle is the fixed emphasis style: stroke width 6, full
// opacity, translucent 15% fill.
var DefaultHighlightStyle = HighlightStyle{
	Color:       "#00ff88",
	Weight:      6,
	Opacity:     1,
	FillColor:   "#00ff88",
	FillOpacity: 0.15,
}

// FitKind classifies a camera-fit plan.
type FitKind string

const (
	// FitNone leaves the camera untouched: zero matches, or too many to
	// usefully frame.
	FitNone FitKind = "none"

	// FitSingle frames exactly one matched feature.
	FitSingle FitKind = "single"

	// FitCluster frames the union bounds of geographically close matches.
	FitCluster FitKind = "cluster"

	// FitFull frames the full dataset extent for scattered matches.
	FitFull FitKind = "full"
)

// CameraFit is a camera adjustment framing a bound with padding and zoom
// limits.
type CameraFit struct {
	Kind    FitKind   `json:"kind"`
	Bound   orb.Bound `json:"bound"`
	Padding int       `json:"padding"`
	MinZoom int       `json:"min_zoom,omitempty"`
	MaxZoom int       `json:"max_zoom"`
}

// Highlight pairs a matched feature with its emphasis style.
type Highlight struct {
	Feature mapdata.Feature `json:"feature"`
	Style   HighlightStyle  `json:"style"`
}

// Popup is one info popup anchored at a matched feature's center.
type Popup struct {
	Name          string           `json:"name"`
	Anchor        orb.Point        `json:"anchor"`
	Accessibility string           `json:"accessibility"`
	Category      catalog.Category `json:"category"`
	CategoryColor string           `json:"category_color"`
	Population    string           `json:"population"`
}

// Plan is the complete result of planning one instruction: the highlight
// set, its popups and an optional camera fit. Plans replace the previous
// highlight state atomically; they are never patched incrementally.
type Plan struct {
	Highlights []Highlight `json:"highlights"`
	Popups     []Popup     `json:"popups"`
	Camera     *CameraFit  `json:"camera,omitempty"`
}

// PlannerConfig holds the camera-fit tuning knobs. The cluster ratio and
// frame cap carry no deeper rationale than observed behavior, so they stay
// configurable rather than hard-coded.
type PlannerConfig struct {
	// ClusterRatio is the union-extent to full-extent diagonal ratio below
	// which matches count as clustered. Default: 0.7.
	ClusterRatio float64

	// MaxFrameable is the largest match count the camera will frame.
	// Beyond it the camera stays put. Default: 18.
	MaxFrameable int

	// SinglePadding / SingleMaxZoom frame one matched feature without
	// over-zooming. Defaults: 50 / 14.
	SinglePadding int
	SingleMaxZoom int

	// ClusterPadding / ClusterMaxZoom frame a clustered union bound more
	// tightly. Defaults: 30 / 13.
	ClusterPadding int
	ClusterMaxZoom int

	// FullPadding / FullMinZoom / FullMaxZoom clamp the full-extent fit.
	// Defaults: 20 / 10 / 12.
	FullPadding int
	FullMinZoom int
	FullMaxZoom int

	// Style is the highlight style. Default: DefaultHighlightStyle.
	Style HighlightStyle
}

// DefaultPlannerConfig returns the default configuration.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		ClusterRatio:   0.7,
		MaxFrameable:   18,
		SinglePadding:  50,
		SingleMaxZoom:  14,
		ClusterPadding: 30,
		ClusterMaxZoom: 13,
		FullPadding:    20,
		FullMinZoom:    10,
		FullMaxZoom:    12,
		Style:          DefaultHighlightStyle,
	}
}

// Planner computes highlight and camera-fit plans.
type Planner struct {
	config PlannerConfig
}

// NewPlanner creates a Planner, filling zero config fields with defaults.
func NewPlanner(config PlannerConfig) *Planner {
	def := DefaultPlannerConfig()
	if config.ClusterRatio <= 0 {
		config.ClusterRatio = def.ClusterRatio
	}
	if config.MaxFrameable <= 0 {
		config.MaxFrameable = def.MaxFrameable
	}
	if config.SinglePadding <= 0 {
		config.SinglePadding = def.SinglePadding
	}
	if config.SingleMaxZoom <= 0 {
		config.SingleMaxZoom = def.SingleMaxZoom
	}
	if config.ClusterPadding <= 0 {
		config.ClusterPadding = def.ClusterPadding
	}
	if config.ClusterMaxZoom <= 0 {
		config.ClusterMaxZoom = def.ClusterMaxZoom
	}
	if config.FullPadding <= 0 {
		config.FullPadding = def.FullPadding
	}
	if config.FullMinZoom <= 0 {
		config.FullMinZoom = def.FullMinZoom
	}
	if config.FullMaxZoom <= 0 {
		config.FullMaxZoom = def.FullMaxZoom
	}
	if config.Style == (HighlightStyle{}) {
		config.Style = def.Style
	}
	return &Planner{config: config}
}

// Plan computes the highlight set, popups and camera fit for the matched
// features. allFeatures is the full dataset, used for the scattered-match
// fallback extent. Zero matches yield an empty plan: applying it clears
// previous highlights and leaves the camera untouched. The same inputs
// always produce an identical plan.
func (p *Planner) Plan(matched, allFeatures []mapdata.Feature, showPopup bool) *Plan {
	plan := &Plan{}
	if len(matched) == 0 {
		return plan
	}

	plan.Highlights = make([]Highlight, 0, len(matched))
	for _, f := range matched {
		plan.Highlights = append(plan.Highlights, Highlight{Feature: f, Style: p.config.Style})
	}

	// Popups default on; only an explicit opt-out suppresses them.
	if showPopup {
		plan.Popups = make([]Popup, 0, len(matched))
		for _, f := range matched {
			cat := catalog.ParseCategory(f.Category)
			plan.Popups = append(plan.Popups, Popup{
				Name:          f.Name,
				Anchor:        f.Center(),
				Accessibility: strconv.FormatFloat(f.Accessibility, 'f', 3, 64),
				Category:      cat,
				CategoryColor: cat.Color(),
				Population:    groupThousands(f.Population),
			})
		}
	}

	plan.Camera = p.cameraFit(matched, allFeatures)
	return plan
}

// cameraFit implements the camera algorithm: single fit for one match,
// cluster-versus-scattered for 2 to MaxFrameable matches, and no change
// beyond that cap. The cap is an explicit upper bound, not a truncation:
// highlights and popups are unaffected by it.
func (p *Planner) cameraFit(matched, allFeatures []mapdata.Feature) *CameraFit {
	if len(matched) > p.config.MaxFrameable {
		return nil
	}

	if len(matched) == 1 {
		return &CameraFit{
			Kind:    FitSingle,
			Bound:   matched[0].Bound(),
			Padding: p.config.SinglePadding,
			MaxZoom: p.config.SingleMaxZoom,
		}
	}

	union := matched[0].Bound()
	for _, f := range matched[1:] {
		union = union.Union(f.Bound())
	}

	full := unionBound(allFeatures)

	// A union box spanning most of the dataset offers no useful framing
	// over showing everything.
	if diagonal(union) < diagonal(full)*p.config.ClusterRatio {
		return &CameraFit{
			Kind:    FitCluster,
			Bound:   union,
			Padding: p.config.ClusterPadding,
			MaxZoom: p.config.ClusterMaxZoom,
		}
	}

	return &CameraFit{
		Kind:    FitFull,
		Bound:   full,
		Padding: p.config.FullPadding,
		MinZoom: p.config.FullMinZoom,
		MaxZoom: p.config.FullMaxZoom,
	}
}

func unionBound(features []mapdata.Feature) orb.Bound {
	var bound orb.Bound
	for i, f := range features {
		if i == 0 {
			bound = f.Bound()
			continue
		}
		bound = bound.Union(f.Bound())
	}
	return bound
}

// diagonal returns the geodesic extent of a bound: the distance between its
// southwest and northeast corners.
func diagonal(b orb.Bound) float64 {
	return geo.Distance(b.Min, b.Max)
}

// groupThousands formats n with thousands separators, e.g. 12345 -> "12,345".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
