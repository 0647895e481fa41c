package bandit

import (
	"fmt"
	"math/rand"
)

// BetaBernoulli keeps a conjugate Beta posterior over a Bernoulli reward.
// Targets are clamped into [0, 1], so fractional rewards act as partial
// successes.
type BetaBernoulli struct {
	alpha float64
	beta  float64
	decay float64
	rng   *rand.Rand
}

func NewBetaBernoulli(alpha, beta float64) *BetaBernoulli {
	if alpha <= 0 {
		alpha = 1
	}
	if beta <= 0 {
		beta = 1
	}
	return &BetaBernoulli{
		alpha: alpha,
		beta:  beta,
		rng:   newRand(0),
	}
}

func (l *BetaBernoulli) Sample(x []float64, size int) ([]float64, error) {
	if size <= 0 {
		size = 1
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = betaVariate(l.rng, l.alpha, l.beta)
	}
	return out, nil
}

func (l *BetaBernoulli) PartialFit(xs [][]float64, ys []float64) error {
	if xs != nil && len(xs) != len(ys) {
		return fmt.Errorf("%w: %d feature rows vs %d targets", ErrShapeMismatch, len(xs), len(ys))
	}

	if l.decay > 0 {
		keep := 1 - l.decay
		l.alpha *= keep
		l.beta *= keep
		if l.alpha < 1e-9 {
			l.alpha = 1e-9
		}
		if l.beta < 1e-9 {
			l.beta = 1e-9
		}
	}

	for _, y := range ys {
		if y < 0 {
			y = 0
		} else if y > 1 {
			y = 1
		}
		l.alpha += y
		l.beta += 1 - y
	}
	return nil
}

func (l *BetaBernoulli) SetParams(params map[string]any) error {
	// validate every key before touching any state
	vals := make(map[string]float64, len(params))
	for k, v := range params {
		switch k {
		case "alpha", "beta", "decay":
		default:
			return fmt.Errorf("%w: %q", ErrUnknownParam, k)
		}
		f, err := paramFloat(k, v)
		if err != nil {
			return err
		}
		vals[k] = f
	}

	for k, f := range vals {
		switch k {
		case "alpha":
			l.alpha = f
		case "beta":
			l.beta = f
		case "decay":
			l.decay = f
		}
	}
	return nil
}

func (l *BetaBernoulli) Mean(x []float64) (float64, error) {
	return l.alpha / (l.alpha + l.beta), nil
}

func (l *BetaBernoulli) SetRand(rng *rand.Rand) {
	if rng != nil {
		l.rng = rng
	}
}

func (l *BetaBernoulli) snapshot() *LearnerSnapshot {
	return &LearnerSnapshot{
		Kind:  LearnerBetaBernoulli,
		Alpha: l.alpha,
		Beta:  l.beta,
		Decay: l.decay,
	}
}
