package timeseries

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/catalog"
	"pulse/internal/resolver"
	"pulse/internal/store"
	"pulse/internal/synth"
	"pulse/internal/zones"
)

type fakeStore struct {
	rows []store.HistoryPoint
	ok   bool
	err  error
}

func (f *fakeStore) LatestValues(_ context.Context, _ catalog.LayerDefinition, _ []string) ([]store.Point, bool, error) {
	return nil, false, nil
}

func (f *fakeStore) History(_ context.Context, _ catalog.LayerDefinition, _ string) ([]store.HistoryPoint, bool, error) {
	return f.rows, f.ok, f.err
}

func newTestReconstructor(st store.Store) *Reconstructor {
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	r := New(st, logger)
	r.clock = func() time.Time {
		return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	}
	return r
}

func mustLayer(t *testing.T, id string) catalog.LayerDefinition {
	t.Helper()
	layer, err := catalog.Layer(id)
	require.NoError(t, err)
	return layer
}

func mustZone(t *testing.T, key string) zones.Zone {
	t.Helper()
	z, ok := zones.Get(key)
	require.True(t, ok)
	return z
}

func TestYearlySyntheticShape(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76107")

	points, src, err := r.Series(context.Background(), layer, zone, Yearly)
	require.NoError(t, err)
	assert.Equal(t, resolver.SourceModeled, src)
	require.Len(t, points, YearlyWindow)

	assert.Equal(t, "2016", points[0].Period)
	assert.Equal(t, "2026", points[len(points)-1].Period)
	assert.True(t, sort.SliceIsSorted(points, func(i, j int) bool {
		return points[i].Period < points[j].Period
	}))

	// The final point anchors exactly on the current synthesized value.
	assert.Equal(t, synth.Value(layer, zone), points[len(points)-1].Value)
}

func TestMonthlySyntheticShape(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76092")

	points, src, err := r.Series(context.Background(), layer, zone, Monthly)
	require.NoError(t, err)
	assert.Equal(t, resolver.SourceModeled, src)
	require.Len(t, points, MonthlyWindow)

	assert.Equal(t, "2023-09", points[0].Period)
	assert.Equal(t, "2026-08", points[len(points)-1].Period)
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Period, points[i].Period)
	}
	for _, p := range points {
		assert.Positive(t, p.Value)
	}
}

func TestSeriesIsReproducible(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "rent_price")
	zone := mustZone(t, "75243")

	first, _, err := r.Series(context.Background(), layer, zone, Monthly)
	require.NoError(t, err)
	second, _, err := r.Series(context.Background(), layer, zone, Monthly)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHomeValueHistoryShowsBoomBust(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76248")

	points, _, err := r.Series(context.Background(), layer, zone, Yearly)
	require.NoError(t, err)

	current := points[len(points)-1].Value
	oldest := points[0].Value
	peak := points[6].Value // four years back

	assert.Less(t, oldest, current*0.65, "history should start well below today")
	assert.Greater(t, peak, current*1.02, "cycle peak should exceed today's value")
}

func TestNonHomeValueCurrencyTrendsUpward(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "rent_price")
	zone := mustZone(t, "76107")

	points, _, err := r.Series(context.Background(), layer, zone, Yearly)
	require.NoError(t, err)

	// Flat growth back-projection: oldest near (1.035)^-10 of current.
	current := points[len(points)-1].Value
	oldest := points[0].Value
	assert.InDelta(t, current*0.709, oldest, current*0.05)
}

func TestRealMonthlyHistoryAggregatesToYearly(t *testing.T) {
	rows := []store.HistoryPoint{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Value: 140},
		{Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Value: 160},
		// Outside the 11-year window, must be dropped.
		{Date: time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC), Value: 9999},
	}
	r := newTestReconstructor(&fakeStore{rows: rows, ok: true})
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76107")

	points, src, err := r.Series(context.Background(), layer, zone, Yearly)
	require.NoError(t, err)
	assert.Equal(t, resolver.SourceLive, src)
	require.Len(t, points, 2)
	assert.Equal(t, Point{Period: "2025", Value: 120}, points[0])
	assert.Equal(t, Point{Period: "2026", Value: 160}, points[1])
}

func TestRealMonthlyHistoryWindowed(t *testing.T) {
	rows := []store.HistoryPoint{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: 80}, // before window
		{Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), Value: 150},
		{Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Value: 152},
	}
	r := newTestReconstructor(&fakeStore{rows: rows, ok: true})
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76107")

	points, _, err := r.Series(context.Background(), layer, zone, Monthly)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-05", points[0].Period)
	assert.Equal(t, "2026-06", points[1].Period)
}

func TestInvalidGranularity(t *testing.T) {
	r := newTestReconstructor(nil)
	layer := mustLayer(t, "home_value")
	zone := mustZone(t, "76107")

	_, _, err := r.Series(context.Background(), layer, zone, Granularity("weekly"))
	require.Error(t, err)
}
