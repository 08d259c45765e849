package mapdata_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watersight/watersight/internal/mapdata"
)

// mockProvider is a test provider that returns configurable data.
type mockProvider struct {
	snapshot   *mapdata.Snapshot
	err        error
	fetchCount atomic.Int32
}

func (m *mockProvider) FetchSnapshot(_ context.Context) (*mapdata.Snapshot, error) {
	m.fetchCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func (m *mockProvider) FetchFeatures(_ context.Context) ([]mapdata.Feature, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot.Features, nil
}

func (m *mockProvider) FetchWaterPoints(_ context.Context) ([]mapdata.WaterPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot.WaterPoints, nil
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
			{
				Name:          "Mbeti South",
				Accessibility: 1.4,
				Population:    3400,
				Geometry: orb.Polygon{
					{{37.6, -0.7}, {37.7, -0.7}, {37.7, -0.6}, {37.6, -0.6}, {37.6, -0.7}},
				},
			},
		},
		WaterPoints: []mapdata.WaterPoint{
			{Name: "Borehole 1", WaterSource: "borehole", CapacityScore: 3, Status: "operational", Position: orb.Point{37.45, -0.65}},
		},
		FetchedAt: time.Now(),
		Provider:  "test",
	}
}

func TestService_GetSnapshot(t *testing.T) {
	provider := &mockProvider{snapshot: testSnapshot()}
	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
		CacheTTL: 5 * time.Minute,
	})

	ctx := context.Background()

	// First call should fetch from provider
	snapshot, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Features, 2)
	assert.Equal(t, int32(1), provider.fetchCount.Load())

	// Second call should use cache
	snapshot2, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, snapshot2)
	assert.Equal(t, int32(1), provider.fetchCount.Load())
}

func TestService_GetSnapshot_CacheExpiry(t *testing.T) {
	provider := &mockProvider{snapshot: testSnapshot()}
	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
		CacheTTL: 50 * time.Millisecond,
	})

	ctx := context.Background()

	_, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.fetchCount.Load())

	time.Sleep(60 * time.Millisecond)

	_, err = svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.fetchCount.Load())
}

func TestService_GetSnapshot_ProviderError_StaleData(t *testing.T) {
	provider := &mockProvider{snapshot: testSnapshot()}
	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.New(io.Discard),
		CacheTTL:        50 * time.Millisecond,
		StaleIfErrorTTL: 1 * time.Hour,
	})

	ctx := context.Background()

	_, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	provider.err = errors.New("provider unavailable")

	// Should serve stale data
	result, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, result.Features, 2)
}

func TestService_GetSnapshot_ProviderError_NoCache(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
	})

	_, err := svc.GetSnapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mapdata.ErrProviderUnavailable)
}

func TestService_InvalidateCache(t *testing.T) {
	provider := &mockProvider{snapshot: testSnapshot()}
	svc := mapdata.NewService(mapdata.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.New(io.Discard),
	})

	ctx := context.Background()

	_, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.fetchCount.Load())
}

func TestWaterPoint_MarkerStyling(t *testing.T) {
	tests := []struct {
		capacity   int
		wantRadius float64
		wantColor  string
	}{
		{3, 10, "#0066cc"},
		{2, 8, "#ffaa00"},
		{1, 6, "#ff0000"},
		{0, 4, "#666666"},
	}

	for _, tt := range tests {
		w := mapdata.WaterPoint{CapacityScore: tt.capacity}
		assert.Equal(t, tt.wantRadius, w.MarkerRadius(), "capacity %d", tt.capacity)
		assert.Equal(t, tt.wantColor, w.MarkerColor(), "capacity %d", tt.capacity)
	}
}

func TestSnapshot_Collections(t *testing.T) {
	s := testSnapshot()

	fc := s.FeatureCollection()
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Karaba", fc.Features[0].Properties["name"])
	assert.Equal(t, 0.8, fc.Features[0].Properties["accessibility"])

	wc := s.WaterPointCollection()
	require.Len(t, wc.Features, 1)
	assert.Equal(t, "Borehole 1", wc.Features[0].Properties["name"])
	assert.Equal(t, float64(10), wc.Features[0].Properties["marker_radius"])
	assert.Equal(t, "#0066cc", wc.Features[0].Properties["marker_color"])
}
