package bandit

import (
	"fmt"
	"math"
	"math/rand"
)

// LinearGaussian is a contextual linear reward model: a ridge-regularized
// design matrix A and response vector b, with Thompson draws of theta from
// a diagonal Gaussian around the ridge solution.
type LinearGaussian struct {
	dim   int
	a     [][]float64 // A = ridge*I + sum x x^T
	b     []float64   // b = sum r x
	ridge float64
	decay float64
	rng   *rand.Rand
}

const defaultRidge = 0.1

func NewLinearGaussian(dim int) *LinearGaussian {
	if dim <= 0 {
		dim = 1
	}
	return &LinearGaussian{
		dim:   dim,
		a:     identityScaled(dim, defaultRidge),
		b:     make([]float64, dim),
		ridge: defaultRidge,
		rng:   newRand(0),
	}
}

func (l *LinearGaussian) Dim() int { return l.dim }

// theta solves A theta = b. The inverse is also returned for uncertainty
// estimates.
func (l *LinearGaussian) theta() ([]float64, [][]float64, error) {
	aInv, err := invert(l.a)
	if err != nil {
		return nil, nil, fmt.Errorf("solve theta: %w", err)
	}
	return matVecMul(aInv, l.b), aInv, nil
}

func (l *LinearGaussian) checkDim(x []float64) error {
	if len(x) != l.dim {
		return fmt.Errorf("%w: feature vector has %d entries, model expects %d", ErrShapeMismatch, len(x), l.dim)
	}
	return nil
}

func (l *LinearGaussian) Sample(x []float64, size int) ([]float64, error) {
	if err := l.checkDim(x); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 1
	}

	theta, aInv, err := l.theta()
	if err != nil {
		return nil, err
	}

	out := make([]float64, size)
	draw := make([]float64, l.dim)
	for i := range out {
		for j := 0; j < l.dim; j++ {
			v := aInv[j][j]
			if v < 0 {
				v = 0
			}
			draw[j] = theta[j] + l.rng.NormFloat64()*math.Sqrt(v)
		}
		out[i] = dot(draw, x)
	}
	return out, nil
}

func (l *LinearGaussian) PartialFit(xs [][]float64, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d feature rows vs %d targets", ErrShapeMismatch, len(xs), len(ys))
	}
	for _, x := range xs {
		if err := l.checkDim(x); err != nil {
			return err
		}
	}

	if l.decay > 0 {
		keep := 1 - l.decay
		for i := range l.a {
			for j := range l.a[i] {
				l.a[i][j] *= keep
			}
			l.b[i] *= keep
		}
	}

	for i, x := range xs {
		addOuter(l.a, x)
		addScaled(l.b, x, ys[i])
	}
	return nil
}

func (l *LinearGaussian) SetParams(params map[string]any) error {
	// validate every key before touching any state
	vals := make(map[string]float64, len(params))
	for k, v := range params {
		switch k {
		case "ridge", "decay":
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
		case "ridge":
			l.ridge = f
		case "decay":
			l.decay = f
		}
	}
	return nil
}

func (l *LinearGaussian) Mean(x []float64) (float64, error) {
	if err := l.checkDim(x); err != nil {
		return 0, err
	}
	theta, _, err := l.theta()
	if err != nil {
		return 0, err
	}
	return dot(theta, x), nil
}

func (l *LinearGaussian) SetRand(rng *rand.Rand) {
	if rng != nil {
		l.rng = rng
	}
}

func (l *LinearGaussian) snapshot() *LearnerSnapshot {
	return &LearnerSnapshot{
		Kind:  LearnerLinearGaussian,
		Dim:   l.dim,
		Ridge: l.ridge,
		Decay: l.decay,
		A:     copyMatrix(l.a),
		B:     copyVector(l.b),
	}
}
