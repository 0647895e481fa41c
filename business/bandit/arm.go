package bandit

// ModelArm is the basic Arm implementation: a learner, a pull counter and a
// configured constant reward used when no learner is attached. The constant
// fallback makes learner-less arms usable in greedy comparisons instead of
// hiding behind a hidden default.
type ModelArm struct {
	learner Learner
	pulls   int64
	reward  float64
}

// NewModelArm wraps a learner in an arm.
func NewModelArm(learner Learner) *ModelArm {
	return &ModelArm{learner: learner}
}

// NewConstArm builds a learner-less arm whose Sample and Mean always report
// the given reward.
func NewConstArm(reward float64) *ModelArm {
	return &ModelArm{reward: reward}
}

// Learner exposes the underlying model. Nil for constant arms.
func (m *ModelArm) Learner() Learner { return m.learner }

// Pulls reports how many times the arm has been selected.
func (m *ModelArm) Pulls() int64 { return m.pulls }

func (m *ModelArm) Pull() {
	m.pulls++
}

func (m *ModelArm) Sample(x []float64, size int) ([]float64, error) {
	if size <= 0 {
		size = 1
	}
	if m.learner == nil {
		out := make([]float64, size)
		for i := range out {
			out[i] = m.reward
		}
		return out, nil
	}
	return m.learner.Sample(x, size)
}

func (m *ModelArm) Update(x []float64, y []float64) error {
	// nil y: pull-count-only feedback, nothing to learn from
	if m.learner == nil || y == nil {
		return nil
	}

	var xs [][]float64
	if x != nil {
		xs = make([][]float64, len(y))
		for i := range xs {
			xs[i] = x
		}
	}
	return m.learner.PartialFit(xs, y)
}

func (m *ModelArm) Mean(x []float64) (float64, error) {
	if m.learner == nil {
		return m.reward, nil
	}
	return m.learner.Mean(x)
}

func (m *ModelArm) setPulls(n int64) { m.pulls = n }
