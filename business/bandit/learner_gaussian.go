package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// GaussianEstimator keeps a normal posterior over the mean reward with a
// known observation precision. Useful for unbounded real-valued rewards.
type GaussianEstimator struct {
	mu       float64 // posterior mean
	tau      float64 // posterior precision
	noiseTau float64 // observation precision
	decay    float64
	rng      *rand.Rand
}

func NewGaussianEstimator(mu, tau float64) *GaussianEstimator {
	if tau <= 0 {
		tau = 1
	}
	return &GaussianEstimator{
		mu:       mu,
		tau:      tau,
		noiseTau: 1,
		rng:      newRand(0),
	}
}

func (l *GaussianEstimator) Sample(x []float64, size int) ([]float64, error) {
	if size <= 0 {
		size = 1
	}
	std := 1 / math.Sqrt(l.tau)
	out := make([]float64, size)
	for i := range out {
		out[i] = l.mu + l.rng.NormFloat64()*std
	}
	return out, nil
}

func (l *GaussianEstimator) PartialFit(xs [][]float64, ys []float64) error {
	if xs != nil && len(xs) != len(ys) {
		return fmt.Errorf("%w: %d feature rows vs %d targets", ErrShapeMismatch, len(xs), len(ys))
	}

	if l.decay > 0 {
		// soft forgetting: shrink precision back toward the prior
		l.tau *= 1 - l.decay
		if l.tau < 1e-9 {
			l.tau = 1e-9
		}
	}

	for _, y := range ys {
		l.mu = (l.tau*l.mu + l.noiseTau*y) / (l.tau + l.noiseTau)
		l.tau += l.noiseTau
	}
	return nil
}

func (l *GaussianEstimator) SetParams(params map[string]any) error {
	// validate every key before touching any state
	vals := make(map[string]float64, len(params))
	for k, v := range params {
		switch k {
		case "mu", "tau", "noise", "decay":
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
		case "mu":
			l.mu = f
		case "tau":
			l.tau = f
		case "noise":
			l.noiseTau = f
		case "decay":
			l.decay = f
		}
	}
	return nil
}

func (l *GaussianEstimator) Mean(x []float64) (float64, error) {
	return l.mu, nil
}

func (l *GaussianEstimator) SetRand(rng *rand.Rand) {
	if rng != nil {
		l.rng = rng
	}
}

func (l *GaussianEstimator) snapshot() *LearnerSnapshot {
	return &LearnerSnapshot{
		Kind:  LearnerGaussian,
		Mu:    l.mu,
		Tau:   l.tau,
		Noise: l.noiseTau,
		Decay: l.decay,
	}
}
