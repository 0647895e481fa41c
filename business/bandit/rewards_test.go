package bandit

import (
	"testing"
	"time"

	"banditHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardForEvent(t *testing.T) {
	cfg := DefaultConfig()

	r, err := cfg.RewardForEvent(domain.EventImpression, 0)
	require.NoError(t, err)
	assert.Equal(t, cfg.RewardImpression, r)

	r, err = cfg.RewardForEvent(domain.EventClick, 0)
	require.NoError(t, err)
	assert.Equal(t, cfg.RewardClick, r)

	r, err = cfg.RewardForEvent(domain.EventConvert, 150000)
	require.NoError(t, err)
	assert.Equal(t, cfg.RewardConvert+cfg.ValueWeight*150000, r)

	_, err = cfg.RewardForEvent("hover", 0)
	require.Error(t, err)
}

func TestBuildFeatureVector(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) // Monday morning

	x := BuildFeatureVector(now, nil)
	require.Len(t, x, FeatureDim)
	assert.Equal(t, 1.0, x[0])
	assert.Equal(t, 0.33, x[1])
	assert.InDelta(t, 1.0/6.0, x[2], 1e-9)
	assert.Equal(t, 0.5, x[3]) // unknown platform

	withPlatform := BuildFeatureVector(now, map[string]any{"platform": "android"})
	assert.NotEqual(t, 0.5, withPlatform[3])

	// deterministic per platform
	again := BuildFeatureVector(now, map[string]any{"platform": "android"})
	assert.Equal(t, withPlatform[3], again[3])
}

func TestComputeTimeBucket(t *testing.T) {
	cases := map[int]string{
		2:  "night",
		9:  "morning",
		14: "afternoon",
		21: "evening",
	}
	for hour, want := range cases {
		ts := time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC)
		assert.Equal(t, want, computeTimeBucket(ts))
	}
}
