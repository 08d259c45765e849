// Package controller orchestrates one user query end to end: transcript,
// assistant call, instruction interpretation, view transition, viewport
// planning, render sequencing and chart composition.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/watersight/watersight/internal/assistant"
	"github.com/watersight/watersight/internal/catalog"
	"github.com/watersight/watersight/internal/chart"
	"github.com/watersight/watersight/internal/instruction"
	"github.com/watersight/watersight/internal/mapdata"
	"github.com/watersight/watersight/internal/transcript"
	"github.com/watersight/watersight/internal/viewport"
	"github.com/watersight/watersight/internal/viewstate"
)

// Controller errors.
var (
	// ErrBusy means a query is already in flight; at most one query is
	// processed at a time.
	ErrBusy = errors.New("a query is already being processed")

	// ErrEmptyQuery means the submitted query was blank.
	ErrEmptyQuery = errors.New("empty query")
)

const welcomeMessage = "Welcome to the water accessibility assistant. " +
	"Ask about sublocations, water points, or accessibility comparisons, " +
	"and the map and charts will follow your questions."

// loadErrorMessage goes into the transcript when the initial map data load
// fails, so the failure is explained in the conversation rather than only in
// the logs.
const loadErrorMessage = "Connection error: unable to load water accessibility data. " +
	"Please check that the backend server is running, the database connection " +
	"is active and network connectivity is stable. Contact your system " +
	"administrator if the problem persists."

// queryErrorMessage goes into the transcript when the assistant backend
// fails on a single query.
const queryErrorMessage = "I ran into an issue processing your water accessibility " +
	"query. This could be due to temporary server overload, database connectivity " +
	"issues, or complex query processing. Please try rephrasing your question or " +
	"try again in a moment."

// Config carries the controller dependencies.
type Config struct {
	MapData   *mapdata.Service
	Assistant assistant.Querier
	Surface   viewport.RenderSurface
	Planner   *viewport.Planner
	View      *viewstate.Machine
	Logger    zerolog.Logger

	// UserID is sent with every assistant query. Defaults to
	// "watersight_user".
	UserID string

	// FallbackChartKeywords trigger the default ranking chart when the
	// assistant sent no chart instruction. Defaults to
	// instruction.FallbackChartKeywords.
	FallbackChartKeywords []string
}

// Controller drives the map and chart state from user queries.
type Controller struct {
	mapData   *mapdata.Service
	assistant assistant.Querier
	surface   viewport.RenderSurface
	planner   *viewport.Planner
	view      *viewstate.Machine
	log       *transcript.Log
	logger    zerolog.Logger

	userID   string
	keywords []string

	busy atomic.Bool

	mu        sync.RWMutex
	lastChart *chart.Payload
	lastPlan  *viewport.Plan
}

// New creates a controller with a welcome-seeded transcript.
func New(cfg Config) *Controller {
	if cfg.UserID == "" {
		cfg.UserID = "watersight_user"
	}
	if cfg.FallbackChartKeywords == nil {
		cfg.FallbackChartKeywords = instruction.FallbackChartKeywords
	}
	if cfg.Surface == nil {
		cfg.Surface = viewport.NopSurface{}
	}
	if cfg.Planner == nil {
		cfg.Planner = viewport.NewPlanner(viewport.DefaultPlannerConfig())
	}
	if cfg.View == nil {
		cfg.View = viewstate.NewMachine()
	}

	return &Controller{
		mapData:   cfg.MapData,
		assistant: cfg.Assistant,
		surface:   cfg.Surface,
		planner:   cfg.Planner,
		view:      cfg.View,
		log:       transcript.NewLog(welcomeMessage),
		logger:    cfg.Logger.With().Str("component", "controller").Logger(),
		userID:    cfg.UserID,
		keywords:  cfg.FallbackChartKeywords,
	}
}

// QueryResult is the full controller state after a query was processed.
type QueryResult struct {
	Message     transcript.Message `json:"message"`
	Plan        *viewport.Plan     `json:"plan,omitempty"`
	Chart       *chart.Payload     `json:"chart,omitempty"`
	ViewState   viewstate.State    `json:"view_state"`
	Suggestions []string           `json:"suggestions,omitempty"`
}

// WarmUp performs the initial map data load. A failure is reported in the
// transcript, mirroring how the assistant reports per-query failures, and
// returned for the caller's logs; the controller stays usable and later
// queries retry the load through the map data service.
func (c *Controller) WarmUp(ctx context.Context) error {
	if _, err := c.mapData.GetSnapshot(ctx); err != nil {
		c.logger.Error().Err(err).Msg("initial map data load failed")
		c.log.AppendAssistant(loadErrorMessage, "", "")
		return err
	}
	return nil
}

// Transcript returns the chat transcript so far.
func (c *Controller) Transcript() []transcript.Message {
	return c.log.Messages()
}

// ViewState returns the current map view state.
func (c *Controller) ViewState() viewstate.State {
	return c.view.State()
}

// SelectView switches the map to an explicitly chosen view tab.
func (c *Controller) SelectView(v viewstate.View) viewstate.State {
	c.view.Transition(v)
	return c.view.State()
}

// ToggleLayer flips a layer's visibility in the Both view.
func (c *Controller) ToggleLayer(v viewstate.View) viewstate.State {
	switch v {
	case viewstate.ViewSublocations:
		c.view.ToggleSublocations()
	case viewstate.ViewWaterPoints:
		c.view.ToggleWaterPoints()
	}
	return c.view.State()
}

// Chart returns the most recently composed chart, or nil before the first.
func (c *Controller) Chart() *chart.Payload {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastChart
}

// Plan returns the most recently applied viewport plan, or nil.
func (c *Controller) Plan() *viewport.Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPlan
}

// Busy reports whether a query is currently in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Submit processes one user query. At most one query runs at a time;
// concurrent submissions fail with ErrBusy rather than queueing.
//
// An assistant failure is not an error from the user's point of view: the
// failure is explained in the transcript and the map and chart are left
// untouched.
func (c *Controller) Submit(ctx context.Context, query string) (*QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	c.log.AppendUser(query)

	resp, err := c.assistant.Query(ctx, assistant.QueryRequest{Query: query, UserID: c.userID})
	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("assistant query failed")
		msg := c.log.AppendAssistant(queryErrorMessage, "", "")
		return &QueryResult{Message: msg, ViewState: c.view.State()}, nil
	}

	msg := c.log.AppendAssistant(resp.TextResponse, string(resp.ConfidenceLevel), resp.SpatialContext)

	snapshot, err := c.mapData.GetSnapshot(ctx)
	if err != nil {
		// The conversation can continue without map data; instructions
		// that need it fall away below.
		c.logger.Warn().Err(err).Msg("map data unavailable, skipping map and chart control")
		snapshot = &mapdata.Snapshot{}
	}
	areas := catalog.Build(snapshot.Features)

	c.applyMapInstructions(ctx, resp.MapInstructions, snapshot)
	c.composeChart(query, resp.ChartInstructions, areas)

	c.mu.RLock()
	result := &QueryResult{
		Message:     msg,
		Plan:        c.lastPlan,
		Chart:       c.lastChart,
		ViewState:   c.view.State(),
		Suggestions: resp.ProactiveSuggestions,
	}
	c.mu.RUnlock()
	return result, nil
}

// applyMapInstructions interprets a map instruction and sequences it onto
// the render surface. Any non-nil instruction tears down previous highlights
// and forces the interpreted view, even when it names no areas.
func (c *Controller) applyMapInstructions(ctx context.Context, instr *instruction.Instruction, snapshot *mapdata.Snapshot) {
	if instr == nil {
		return
	}

	d := instruction.Interpret(instr)
	c.view.Transition(d.TargetView)
	c.surface.Clear()

	if d.IsNoop() {
		c.mu.Lock()
		c.lastPlan = nil
		c.mu.Unlock()
		return
	}

	matched := catalog.MatchFeatures(snapshot.Features, d.Targets)
	plan := c.planner.Plan(matched, snapshot.Features, d.ShowPopup)
	if len(matched) == 0 {
		c.logger.Debug().Strs("targets", d.Targets).Msg("no areas matched instruction targets")
		c.mu.Lock()
		c.lastPlan = plan
		c.mu.Unlock()
		return
	}

	// Geometry must be mounted and measurable before the plan is applied,
	// otherwise the camera fit would run against unmeasured layers.
	if err := c.surface.MountGeometry(ctx, matched); err != nil {
		c.logger.Error().Err(err).Msg("mounting geometry failed")
		return
	}
	if err := c.surface.Apply(plan); err != nil {
		c.logger.Error().Err(err).Msg("applying viewport plan failed")
		return
	}
	c.view.FitApplied()

	c.mu.Lock()
	c.lastPlan = plan
	c.mu.Unlock()

	c.logger.Info().
		Str("operation", string(d.Operation)).
		Strs("targets", d.Targets).
		Int("matched", len(matched)).
		Msg("map instruction applied")
}

// composeChart builds the chart for an explicit chart instruction, or for
// the keyword fallback when none was sent. Composition failures keep the
// previous chart on screen.
func (c *Controller) composeChart(query string, intent *instruction.ChartIntent, areas []catalog.Area) {
	var (
		payload *chart.Payload
		err     error
	)

	switch kind := instruction.SelectChart(intent); kind {
	case instruction.ChartComparison:
		payload, err = chart.TargetedComparison(areas, intent.ComparisonChart.Areas)
	case instruction.ChartRanking:
		r := intent.AccessibilityRanking
		payload, err = chart.SmartRanking(areas, r.Order, r.Limit, r.ShowOnly)
	case instruction.ChartStatistics:
		payload, err = chart.FocusedStatistics(areas, intent.StatisticalSummary.FocusAreas)
	case instruction.ChartPopulation:
		payload, err = chart.PopulationAnalysis(areas)
	case instruction.ChartCategory:
		payload, err = chart.CategoryBreakdown(areas)
	case instruction.ChartNone:
		if intent != nil || instruction.FallbackChartTriggered(query, c.keywords) {
			payload, err = chart.DefaultRanking(areas)
		} else {
			return
		}
	}

	if err != nil {
		c.logger.Debug().Err(err).Msg("chart composition skipped")
		return
	}

	c.mu.Lock()
	c.lastChart = payload
	c.mu.Unlock()

	c.logger.Info().Str("kind", string(payload.Kind)).Int("rows", len(payload.Rows)).Msg("chart composed")
}
