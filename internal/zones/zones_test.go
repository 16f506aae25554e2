package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	z, ok := Get("76092")
	require.True(t, ok)
	assert.Equal(t, "Southlake", z.City)
	assert.True(t, z.HasBaselines())

	_, ok = Get("00000")
	assert.False(t, ok)
}

func TestInRegion(t *testing.T) {
	tests := []struct {
		name   string
		region string
		want   int
	}{
		{name: "by_city", region: "Fort Worth", want: 4},
		{name: "case_insensitive", region: "fort worth", want: 4},
		{name: "by_county", region: "Tarrant", want: 9},
		{name: "unknown_region", region: "Atlantis", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InRegion(tt.region)
			assert.Len(t, got, tt.want)
		})
	}

	// Empty region means the full zone set.
	assert.Len(t, InRegion(""), len(All()))
}

func TestBaselinesArePlausible(t *testing.T) {
	withBaselines := 0
	for _, z := range All() {
		require.NotEmpty(t, z.Key)
		require.NotEmpty(t, z.City)
		require.NotEmpty(t, z.County)

		if !z.HasBaselines() {
			continue
		}
		withBaselines++
		assert.Greater(t, z.BaselineHomeValue, 100_000.0, "zone %s", z.Key)
		assert.Greater(t, z.BaselineIncome, 30_000.0, "zone %s", z.Key)
		assert.Greater(t, z.BaselinePopulation, 5_000.0, "zone %s", z.Key)
	}

	// Most zones carry baselines; a few deliberately do not.
	assert.Greater(t, withBaselines, len(All())/2)
	assert.Less(t, withBaselines, len(All()))
}
