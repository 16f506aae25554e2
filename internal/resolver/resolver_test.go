package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/catalog"
	"pulse/internal/store"
	"pulse/internal/zones"
)

// fakeStore scripts the three store outcomes: data, absence, fault.
type fakeStore struct {
	points []store.Point
	ok     bool
	err    error
}

func (f *fakeStore) LatestValues(_ context.Context, _ catalog.LayerDefinition, _ []string) ([]store.Point, bool, error) {
	return f.points, f.ok, f.err
}

func (f *fakeStore) History(_ context.Context, _ catalog.LayerDefinition, _ string) ([]store.HistoryPoint, bool, error) {
	return nil, false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func testZones(t *testing.T, keys ...string) []zones.Zone {
	t.Helper()
	zs := make([]zones.Zone, len(keys))
	for i, k := range keys {
		z, ok := zones.Get(k)
		require.True(t, ok, "zone %s", k)
		zs[i] = z
	}
	return zs
}

func TestResolvePrefersRealData(t *testing.T) {
	layer, err := catalog.Layer("home_value")
	require.NoError(t, err)

	st := &fakeStore{
		points: []store.Point{{Zone: "76092", Value: 1200000}, {Zone: "76106", Value: 230000}},
		ok:     true,
	}
	r := New(st, testLogger())

	points, src, err := r.Resolve(context.Background(), layer, testZones(t, "76092", "76106"))
	require.NoError(t, err)
	assert.Equal(t, SourceLive, src)
	require.Len(t, points, 2)
	assert.Equal(t, 1200000.0, points[0].Value)
	assert.Equal(t, "$1,200,000", points[0].Label)
}

func TestResolveFallsBackWhenStoreAbsent(t *testing.T) {
	layer, err := catalog.Layer("home_value")
	require.NoError(t, err)

	r := New(&fakeStore{ok: false}, testLogger())

	zs := testZones(t, "76092", "76106", "76107")
	points, src, err := r.Resolve(context.Background(), layer, zs)
	require.NoError(t, err)
	assert.Equal(t, SourceModeled, src)
	require.Len(t, points, len(zs))
	for _, p := range points {
		assert.Positive(t, p.Value)
		assert.True(t, strings.HasPrefix(p.Label, "$"), "label %q", p.Label)
	}
}

func TestResolveRefusesPartialMixing(t *testing.T) {
	layer, err := catalog.Layer("home_value")
	require.NoError(t, err)

	// Store covers one of two requested zones; the whole call must go synthetic.
	st := &fakeStore{points: []store.Point{{Zone: "76092", Value: 1200000}}, ok: true}
	r := New(st, testLogger())

	points, src, err := r.Resolve(context.Background(), layer, testZones(t, "76092", "76106"))
	require.NoError(t, err)
	assert.Equal(t, SourceModeled, src)
	require.Len(t, points, 2)
	assert.NotEqual(t, 1200000.0, points[0].Value, "partial real data must not leak through")
}

func TestResolvePropagatesTransientFault(t *testing.T) {
	layer, err := catalog.Layer("home_value")
	require.NoError(t, err)

	r := New(&fakeStore{err: errors.New("connection refused")}, testLogger())

	_, _, err = r.Resolve(context.Background(), layer, testZones(t, "76092"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolveNilStoreIsSyntheticOnly(t *testing.T) {
	layer, err := catalog.Layer("days_on_market")
	require.NoError(t, err)

	r := New(nil, testLogger())

	points, src, err := r.Resolve(context.Background(), layer, testZones(t, "75034", "76010"))
	require.NoError(t, err)
	assert.Equal(t, SourceModeled, src)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.True(t, strings.HasSuffix(p.Label, " days"), "label %q", p.Label)
	}
}

func TestDerivedLayerNeverHitsStore(t *testing.T) {
	layer, err := catalog.Layer("cap_rate")
	require.NoError(t, err)

	// A faulting store must not matter for a derived layer.
	r := New(&fakeStore{err: errors.New("boom")}, testLogger())

	points, src, err := r.Resolve(context.Background(), layer, testZones(t, "76092"))
	require.NoError(t, err)
	assert.Equal(t, SourceModeled, src)
	require.Len(t, points, 1)
}
