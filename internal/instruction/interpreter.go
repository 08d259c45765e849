package instruction

import (
	"strings"

	"github.com/watersight/watersight/internal/viewstate"
)

// FallbackChartKeywords is the default trigger set for generating a chart
// when the assistant sent no explicit chart instruction. Matching is
// case-insensitive substring against the user's raw query.
var FallbackChartKeywords = []string{"worst", "statistics", "ranking", "compare", "chart", "areas"}

// FallbackChartTriggered reports whether the raw query should trigger the
// default ranking chart. Evaluated by the caller, not the interpreter, and
// kept a pure function of the keyword list and query string.
func FallbackChartTriggered(query string, keywords []string) bool {
	q := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Interpret folds a map instruction into a directive. Target names are
// unioned in precedence order highlight areas, zoom location, comparison
// primary and secondary, pulse areas; each is added only on first
// appearance. An instruction naming no areas interprets to a no-op
// directive, which is distinct from an error.
//
// Any non-empty map instruction forces the view to Both unless the
// instruction explicitly names a view, so highlighting and zooming always
// have both layers available to draw on.
func Interpret(instr *Instruction) Directive {
	d := Directive{
		Operation:  OpNone,
		TargetView: viewstate.ViewBoth,
		ShowPopup:  true,
	}
	if instr == nil {
		return d
	}

	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		d.Targets = append(d.Targets, name)
	}

	for _, name := range instr.HighlightAreas {
		add(name)
	}
	add(instr.ZoomToLocation)
	if instr.FocusComparison != nil {
		add(instr.FocusComparison.Primary)
		add(instr.FocusComparison.Secondary)
	}
	for _, name := range instr.PulseAnimation {
		add(name)
	}

	switch {
	case len(instr.HighlightAreas) > 0:
		d.Operation = OpHighlight
	case instr.ZoomToLocation != "":
		d.Operation = OpZoom
	case instr.FocusComparison != nil:
		d.Operation = OpCompare
	case len(instr.PulseAnimation) > 0:
		d.Operation = OpPulse
	}

	if v, ok := viewstate.ParseView(instr.SwitchToView); ok {
		d.TargetView = v
	}

	if instr.ShowPopup != nil {
		d.ShowPopup = *instr.ShowPopup
	}

	return d
}

// ChartKind identifies one of the five chart-intent variants.
type ChartKind string

const (
	ChartNone       ChartKind = ""
	ChartComparison ChartKind = "targeted_comparison"
	ChartRanking    ChartKind = "smart_ranking"
	ChartStatistics ChartKind = "focused_statistics"
	ChartPopulation ChartKind = "population_analysis"
	ChartCategory   ChartKind = "category_breakdown"
)

// SelectChart picks the chart-intent variant by presence precedence:
// comparison, ranking, statistics, population, category. ChartNone means the
// intent carried no variant.
func SelectChart(intent *ChartIntent) ChartKind {
	if intent == nil {
		return ChartNone
	}
	switch {
	case intent.ComparisonChart != nil:
		return ChartComparison
	case intent.AccessibilityRanking != nil:
		return ChartRanking
	case intent.StatisticalSummary != nil:
		return ChartStatistics
	case intent.PopulationImpact != nil:
		return ChartPopulation
	case intent.CategoryDistribution != nil:
		return ChartCategory
	default:
		return ChartNone
	}
}
