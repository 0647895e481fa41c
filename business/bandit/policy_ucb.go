package bandit

import (
	"fmt"
	"math/rand"
)

const (
	defaultUCBAlpha = 0.84
	defaultUCBDraws = 100
)

// UpperConfidenceBound scores each arm by an empirical upper quantile of its
// posterior draws and picks the highest. Alpha is the quantile level, Draws
// the number of posterior samples per arm.
type UpperConfidenceBound struct {
	Alpha float64
	Draws int
}

func (p *UpperConfidenceBound) Choose(arms map[string]Arm, x []float64, rng *rand.Rand) (string, Arm, error) {
	keys := sortedKeys(arms)
	if len(keys) == 0 {
		return "", nil, ErrNoArms
	}

	alpha := p.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = defaultUCBAlpha
	}
	draws := p.Draws
	if draws <= 0 {
		draws = defaultUCBDraws
	}

	bestKey := ""
	bestBound := 0.0
	for _, key := range keys {
		samples, err := arms[key].Sample(x, draws)
		if err != nil {
			return "", nil, fmt.Errorf("sample of arm %q: %w", key, err)
		}
		bound := quantile(samples, alpha)
		if bestKey == "" || bound > bestBound {
			bestKey = key
			bestBound = bound
		}
	}
	return bestKey, arms[bestKey], nil
}
