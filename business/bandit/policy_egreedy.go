package bandit

import (
	"fmt"
	"math/rand"
)

// EpsilonGreedy explores a uniformly random arm with probability Epsilon and
// otherwise picks the arm with the highest posterior mean. Epsilon 0 is pure
// greedy.
type EpsilonGreedy struct {
	Epsilon float64
}

func (p *EpsilonGreedy) Choose(arms map[string]Arm, x []float64, rng *rand.Rand) (string, Arm, error) {
	keys := sortedKeys(arms)
	if len(keys) == 0 {
		return "", nil, ErrNoArms
	}

	if p.Epsilon > 0 && rng.Float64() < p.Epsilon {
		key := keys[rng.Intn(len(keys))]
		return key, arms[key], nil
	}

	bestKey := ""
	bestMean := 0.0
	for _, key := range keys {
		mean, err := arms[key].Mean(x)
		if err != nil {
			return "", nil, fmt.Errorf("mean of arm %q: %w", key, err)
		}
		if bestKey == "" || mean > bestMean {
			bestKey = key
			bestMean = mean
		}
	}
	return bestKey, arms[bestKey], nil
}
