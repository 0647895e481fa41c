package bandit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constArms() map[string]Arm {
	return map[string]Arm{
		"a": NewConstArm(1.0),
		"b": NewConstArm(0.0),
	}
}

func TestEpsilonGreedyPicksBestConstArm(t *testing.T) {
	p := &EpsilonGreedy{Epsilon: 0}
	rng := rand.New(rand.NewSource(1))

	key, arm, err := p.Choose(constArms(), nil, rng)
	require.NoError(t, err)
	assert.Equal(t, "a", key)

	mean, err := arm.Mean(nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mean)
}

func TestEpsilonGreedyExploresWhenForced(t *testing.T) {
	p := &EpsilonGreedy{Epsilon: 1}
	rng := rand.New(rand.NewSource(2))

	seen := map[string]int{}
	for i := 0; i < 500; i++ {
		key, _, err := p.Choose(constArms(), nil, rng)
		require.NoError(t, err)
		seen[key]++
	}
	assert.Greater(t, seen["a"], 0)
	assert.Greater(t, seen["b"], 0)
}

func TestPoliciesRejectEmptyArms(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	policies := []ChoiceAlgorithm{
		&EpsilonGreedy{},
		&ThompsonSampling{},
		&UpperConfidenceBound{},
	}
	for _, p := range policies {
		_, _, err := p.Choose(map[string]Arm{}, nil, rng)
		require.ErrorIs(t, err, ErrNoArms)
	}
}

func TestThompsonPrefersTrainedArm(t *testing.T) {
	good := NewBetaBernoulli(1, 1)
	bad := NewBetaBernoulli(1, 1)
	require.NoError(t, good.PartialFit(nil, ones(40)))
	require.NoError(t, bad.PartialFit(nil, zeros(40)))

	arms := map[string]Arm{
		"good": NewModelArm(good),
		"bad":  NewModelArm(bad),
	}
	for _, arm := range arms {
		armLearner(arm).SetRand(rand.New(rand.NewSource(11)))
	}

	p := &ThompsonSampling{}
	rng := rand.New(rand.NewSource(11))

	goodCount := 0
	for i := 0; i < 200; i++ {
		key, _, err := p.Choose(arms, nil, rng)
		require.NoError(t, err)
		if key == "good" {
			goodCount++
		}
	}
	assert.Greater(t, goodCount, 150)
}

func TestUCBPrefersHigherQuantile(t *testing.T) {
	good := NewBetaBernoulli(1, 1)
	bad := NewBetaBernoulli(1, 1)
	require.NoError(t, good.PartialFit(nil, ones(40)))
	require.NoError(t, bad.PartialFit(nil, zeros(40)))

	arms := map[string]Arm{
		"good": NewModelArm(good),
		"bad":  NewModelArm(bad),
	}
	for _, arm := range arms {
		armLearner(arm).SetRand(rand.New(rand.NewSource(17)))
	}

	p := &UpperConfidenceBound{Alpha: 0.84, Draws: 200}
	rng := rand.New(rand.NewSource(17))

	key, _, err := p.Choose(arms, nil, rng)
	require.NoError(t, err)
	assert.Equal(t, "good", key)
}

func TestNewPolicyUnknownName(t *testing.T) {
	_, err := NewPolicy(PolicySpec{Name: "softmax"})
	require.Error(t, err)
}

func ones(n int) []float64 {
	ys := make([]float64, n)
	for i := range ys {
		ys[i] = 1
	}
	return ys
}

func zeros(n int) []float64 {
	return make([]float64, n)
}
