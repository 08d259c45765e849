// Package instruction defines the semi-structured instruction payloads
// produced by the assistant backend and their interpretation into map and
// chart directives.
package instruction

import "github.com/watersight/watersight/internal/viewstate"

// FocusComparison names a primary and secondary area to compare.
type FocusComparison struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Instruction is the map-control payload. Every field is optional; a missing
// field means "do nothing for this aspect". Map-control fields may combine
// freely.
type Instruction struct {
	HighlightAreas  []string         `json:"highlight_areas,omitempty"`
	ZoomToLocation  string           `json:"zoom_to_location,omitempty"`
	FocusComparison *FocusComparison `json:"focus_comparison,omitempty"`
	PulseAnimation  []string         `json:"pulse_animation,omitempty"`
	SwitchToView    string           `json:"switch_to_view,omitempty"`

	// ShowPopup defaults to true when absent; only an explicit false
	// suppresses popups.
	ShowPopup *bool `json:"show_popup,omitempty"`
}

// ComparisonChart requests a targeted comparison of named areas.
type ComparisonChart struct {
	Areas []string `json:"areas"`
}

// RankingChart requests an accessibility ranking.
type RankingChart struct {
	// Order is "asc" (worst first, the default) or "desc".
	Order string `json:"order,omitempty"`

	// Limit truncates the sorted sequence from the front when positive.
	Limit int `json:"limit,omitempty"`

	// ShowOnly restricts the ranking to matching areas.
	ShowOnly []string `json:"show_only,omitempty"`
}

// StatisticsChart requests focused statistics.
type StatisticsChart struct {
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// PopulationChart requests a population impact breakdown.
type PopulationChart struct {
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// CategoryChart requests a category distribution breakdown.
type CategoryChart struct{}

// ChartIntent is the chart-control payload. At most one variant is honored
// per instruction; when several are present the first in declaration order
// wins.
type ChartIntent struct {
	ComparisonChart      *ComparisonChart `json:"comparison_chart,omitempty"`
	AccessibilityRanking *RankingChart    `json:"accessibility_ranking,omitempty"`
	StatisticalSummary   *StatisticsChart `json:"statistical_summary,omitempty"`
	PopulationImpact     *PopulationChart `json:"population_impact,omitempty"`
	CategoryDistribution *CategoryChart   `json:"category_distribution,omitempty"`
}

// Operation labels the visual operation an instruction asks for.
type Operation string

const (
	OpNone      Operation = "none"
	OpHighlight Operation = "highlight"
	OpZoom      Operation = "zoom"
	OpCompare   Operation = "compare"
	OpPulse     Operation = "pulse"
)

// Directive is the interpreted form of a map instruction.
type Directive struct {
	// Targets is the ordered union of all named areas, first appearance
	// preserved. This order drives popup and highlight sequencing.
	Targets []string

	// Operation is the primary visual operation.
	Operation Operation

	// TargetView is the view the map should switch to.
	TargetView viewstate.View

	// ShowPopup is false only when the instruction said so explicitly.
	ShowPopup bool
}

// IsNoop reports whether the directive carries no map work at all.
func (d Directive) IsNoop() bool {
	return len(d.Targets) == 0
}
