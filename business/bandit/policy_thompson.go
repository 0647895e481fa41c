package bandit

import (
	"fmt"
	"math/rand"
)

// ThompsonSampling draws one posterior sample per arm and picks the argmax,
// so arms are chosen in proportion to their probability of being best.
type ThompsonSampling struct{}

func (p *ThompsonSampling) Choose(arms map[string]Arm, x []float64, rng *rand.Rand) (string, Arm, error) {
	keys := sortedKeys(arms)
	if len(keys) == 0 {
		return "", nil, ErrNoArms
	}

	bestKey := ""
	bestDraw := 0.0
	for _, key := range keys {
		draws, err := arms[key].Sample(x, 1)
		if err != nil {
			return "", nil, fmt.Errorf("sample of arm %q: %w", key, err)
		}
		if bestKey == "" || draws[0] > bestDraw {
			bestKey = key
			bestDraw = draws[0]
		}
	}
	return bestKey, arms[bestKey], nil
}
