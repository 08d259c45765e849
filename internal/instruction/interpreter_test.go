package instruction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watersight/watersight/internal/instruction"
	"github.com/watersight/watersight/internal/viewstate"
)

func TestInterpret_NilInstruction(t *testing.T) {
	d := instruction.Interpret(nil)
	assert.True(t, d.IsNoop())
	assert.Equal(t, instruction.OpNone, d.Operation)
	assert.True(t, d.ShowPopup)
}

func TestInterpret_UnionOrderAndDeduplication(t *testing.T) {
	instr := &instruction.Instruction{
		HighlightAreas: []string{"Karaba", "Mbeti South"},
		ZoomToLocation: "Karaba", // duplicate, keeps first position
		FocusComparison: &instruction.FocusComparison{
			Primary:   "Gachuriri",
			Secondary: "Mbeti South", // duplicate
		},
		PulseAnimation: []string{"Kiritiri"},
	}

	d := instruction.Interpret(instr)
	assert.Equal(t, []string{"Karaba", "Mbeti South", "Gachuriri", "Kiritiri"}, d.Targets)
	assert.Equal(t, instruction.OpHighlight, d.Operation)
}

func TestInterpret_OperationPrecedence(t *testing.T) {
	d := instruction.Interpret(&instruction.Instruction{ZoomToLocation: "Karaba"})
	assert.Equal(t, instruction.OpZoom, d.Operation)

	d = instruction.Interpret(&instruction.Instruction{
		FocusComparison: &instruction.FocusComparison{Primary: "A", Secondary: "B"},
	})
	assert.Equal(t, instruction.OpCompare, d.Operation)

	d = instruction.Interpret(&instruction.Instruction{PulseAnimation: []string{"A"}})
	assert.Equal(t, instruction.OpPulse, d.Operation)
}

func TestInterpret_ForcesBothView(t *testing.T) {
	d := instruction.Interpret(&instruction.Instruction{HighlightAreas: []string{"Karaba"}})
	assert.Equal(t, viewstate.ViewBoth, d.TargetView)
}

func TestInterpret_ExplicitViewWins(t *testing.T) {
	d := instruction.Interpret(&instruction.Instruction{
		HighlightAreas: []string{"Karaba"},
		SwitchToView:   "waterpoints",
	})
	assert.Equal(t, viewstate.ViewWaterPoints, d.TargetView)

	// unrecognized view falls back to Both
	d = instruction.Interpret(&instruction.Instruction{SwitchToView: "satellite"})
	assert.Equal(t, viewstate.ViewBoth, d.TargetView)
}

func TestInterpret_ShowPopup(t *testing.T) {
	d := instruction.Interpret(&instruction.Instruction{HighlightAreas: []string{"A"}})
	assert.True(t, d.ShowPopup, "popups default on")

	off := false
	d = instruction.Interpret(&instruction.Instruction{
		HighlightAreas: []string{"A"},
		ShowPopup:      &off,
	})
	assert.False(t, d.ShowPopup)
}

func TestInterpret_EmptyInstructionIsNoop(t *testing.T) {
	d := instruction.Interpret(&instruction.Instruction{})
	assert.True(t, d.IsNoop())
	assert.Equal(t, instruction.OpNone, d.Operation)
	assert.Equal(t, viewstate.ViewBoth, d.TargetView)
}

func TestSelectChart_PresencePrecedence(t *testing.T) {
	intent := &instruction.ChartIntent{
		ComparisonChart:      &instruction.ComparisonChart{Areas: []string{"A", "B"}},
		AccessibilityRanking: &instruction.RankingChart{},
	}
	assert.Equal(t, instruction.ChartComparison, instruction.SelectChart(intent))

	intent = &instruction.ChartIntent{
		AccessibilityRanking: &instruction.RankingChart{},
		CategoryDistribution: &instruction.CategoryChart{},
	}
	assert.Equal(t, instruction.ChartRanking, instruction.SelectChart(intent))

	assert.Equal(t, instruction.ChartNone, instruction.SelectChart(nil))
	assert.Equal(t, instruction.ChartNone, instruction.SelectChart(&instruction.ChartIntent{}))
}

func TestFallbackChartTriggered(t *testing.T) {
	keywords := instruction.FallbackChartKeywords
	require.NotEmpty(t, keywords)

	assert.True(t, instruction.FallbackChartTriggered("show me the WORST areas", keywords))
	assert.True(t, instruction.FallbackChartTriggered("give me some statistics", keywords))
	assert.True(t, instruction.FallbackChartTriggered("compare Karaba and Gachuriri", keywords))
	assert.False(t, instruction.FallbackChartTriggered("where is Karaba?", keywords))
	assert.False(t, instruction.FallbackChartTriggered("", keywords))
}
