package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watersight/watersight/internal/api"
	"github.com/watersight/watersight/internal/assistant"
	"github.com/watersight/watersight/internal/controller"
	"github.com/watersight/watersight/internal/instruction"
	"github.com/watersight/watersight/internal/mapdata"
)

type stubQuerier struct {
	response *assistant.QueryResponse
	err      error
}

func (s *stubQuerier) Query(_ context.Context, _ assistant.QueryRequest) (*assistant.QueryResponse, error) {
	return s.response, s.err
}

type stubProvider struct {
	snapshot *mapdata.Snapshot
	err      error
}

func (s *stubProvider) FetchSnapshot(_ context.Context) (*mapdata.Snapshot, error) {
	return s.snapshot, s.err
}

func (s *stubProvider) FetchFeatures(_ context.Context) ([]mapdata.Feature, error) {
	return s.snapshot.Features, s.err
}

func (s *stubProvider) FetchWaterPoints(_ context.Context) ([]mapdata.WaterPoint, error) {
	return s.snapshot.WaterPoints, s.err
}

func testRouter(t *testing.T, querier assistant.Querier, provider mapdata.Provider) http.Handler {
	t.Helper()

	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
	})
	ctrl := controller.New(controller.Config{
		MapData:   svc,
		Assistant: querier,
		Logger:    zerolog.New(io.Discard),
	})

	return api.NewRouter(api.RouterConfig{
		Version:    "test",
		BuildTime:  "now",
		Logger:     zerolog.New(io.Discard),
		Controller: ctrl,
		MapData:    svc,
		Readiness: func(ctx context.Context) error {
			_, err := svc.GetSnapshot(ctx)
			return err
		},
	})
}

func testSnapshot() *mapdata.Snapshot {
	return &mapdata.Snapshot{
		Features: []mapdata.Feature{
			{
				Name:          "Karaba",
				Accessibility: 0.8,
				Population:    1200,
				Geometry: orb.Polygon{
					{{37.4, -0.7}, {37.5, -0.7}, {37.5, -0.6}, {37.4, -0.6}, {37.4, -0.7}},
				},
			},
		},
		WaterPoints: []mapdata.WaterPoint{
			{Name: "Borehole 1", WaterSource: "borehole", CapacityScore: 2, Status: "operational", Position: orb.Point{37.45, -0.65}},
		},
		FetchedAt: time.Now(),
		Provider:  "test",
	}
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestRouter_Readiness(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Readiness_ProviderDown(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{err: mapdata.ErrProviderUnavailable, snapshot: &mapdata.Snapshot{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_MapData(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/map/data", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var fc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 1)
}

func TestRouter_WaterPoints(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/map/water-points", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marker_color")
}

func TestRouter_SubmitQuery(t *testing.T) {
	querier := &stubQuerier{response: &assistant.QueryResponse{
		TextResponse: "Karaba highlighted.",
		MapInstructions: &instruction.Instruction{
			HighlightAreas: []string{"Karaba"},
		},
	}}
	router := testRouter(t, querier, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{"query": "show me Karaba"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	message := body["message"].(map[string]any)
	assert.Equal(t, "Karaba highlighted.", message["text"])
	assert.NotNil(t, body["plan"])
	viewState := body["view_state"].(map[string]any)
	assert.Equal(t, "both", viewState["view"])
}

func TestRouter_SubmitQuery_Empty(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{"query": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_SubmitQuery_WrongContentType(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader("query=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_ViewRoundTrip(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/map/view", strings.NewReader(`{"view": "both"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/map/view", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "both", state["view"])
	assert.Equal(t, true, state["toggles_enabled"])
}

func TestRouter_ViewValidation(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/map/view", strings.NewReader(`{"view": "satellite"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Transcript(t *testing.T) {
	router := testRouter(t, &stubQuerier{}, &stubProvider{snapshot: testSnapshot()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transcript", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	messages := body["messages"].([]any)
	require.NotEmpty(t, messages) // welcome message is always present
	assert.Equal(t, false, body["busy"])
}
