package bandit

import (
	"fmt"
)

// Learner kinds stored in snapshots.
const (
	LearnerBetaBernoulli  = "beta_bernoulli"
	LearnerGaussian       = "gaussian"
	LearnerLinearGaussian = "linear_gaussian"
)

// LearnerSnapshot is the serializable state of a learner. Which fields are
// meaningful depends on Kind.
type LearnerSnapshot struct {
	Kind string `json:"kind"`

	// beta_bernoulli
	Alpha float64 `json:"alpha,omitempty"`
	Beta  float64 `json:"beta,omitempty"`

	// gaussian
	Mu    float64 `json:"mu,omitempty"`
	Tau   float64 `json:"tau,omitempty"`
	Noise float64 `json:"noise,omitempty"`

	// linear_gaussian
	Dim   int         `json:"dim,omitempty"`
	Ridge float64     `json:"ridge,omitempty"`
	A     [][]float64 `json:"A,omitempty"`
	B     []float64   `json:"b,omitempty"`

	Decay float64 `json:"decay,omitempty"`
}

// ArmSnapshot is the serializable state of one arm. Exactly one of Learner
// and Group is set for model arms and nested bandits respectively; neither
// is set for constant arms.
type ArmSnapshot struct {
	Learner *LearnerSnapshot `json:"learner,omitempty"`
	Group   *Snapshot        `json:"group,omitempty"`
	Pulls   int64            `json:"pulls"`
	Reward  float64          `json:"reward,omitempty"`
}

// Snapshot is the full serializable state of an ArmGroup, recursively
// including any nested groups.
type Snapshot struct {
	Policy  PolicySpec             `json:"policy"`
	Seed    int64                  `json:"seed,omitempty"`
	LastArm string                 `json:"last_arm,omitempty"`
	Arms    map[string]ArmSnapshot `json:"arms"`
}

// BuildGroup reconstructs a live ArmGroup from its snapshot.
func BuildGroup(s *Snapshot) (*ArmGroup, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}

	g, err := NewArmGroup(s.Policy, s.Seed)
	if err != nil {
		return nil, err
	}
	for key, armSnap := range s.Arms {
		arm, err := buildArm(armSnap)
		if err != nil {
			return nil, fmt.Errorf("arm %q: %w", key, err)
		}
		if err := g.AddArm(key, arm); err != nil {
			return nil, err
		}
	}

	if s.LastArm != "" {
		if _, ok := g.arms[s.LastArm]; !ok {
			return nil, fmt.Errorf("last arm %q: %w", s.LastArm, ErrUnknownArm)
		}
		g.last = s.LastArm
	}
	return g, nil
}

func buildArm(s ArmSnapshot) (Arm, error) {
	if s.Group != nil {
		return BuildGroup(s.Group)
	}

	var arm *ModelArm
	if s.Learner == nil {
		arm = NewConstArm(s.Reward)
	} else {
		learner, err := buildLearner(s.Learner)
		if err != nil {
			return nil, err
		}
		arm = NewModelArm(learner)
	}
	arm.setPulls(s.Pulls)
	return arm, nil
}

func buildLearner(s *LearnerSnapshot) (Learner, error) {
	switch s.Kind {
	case LearnerBetaBernoulli:
		l := NewBetaBernoulli(s.Alpha, s.Beta)
		l.decay = s.Decay
		return l, nil
	case LearnerGaussian:
		l := NewGaussianEstimator(s.Mu, s.Tau)
		if s.Noise > 0 {
			l.noiseTau = s.Noise
		}
		l.decay = s.Decay
		return l, nil
	case LearnerLinearGaussian:
		l := NewLinearGaussian(s.Dim)
		if s.Ridge > 0 {
			l.ridge = s.Ridge
		}
		l.decay = s.Decay
		if len(s.A) == l.dim && len(s.B) == l.dim {
			l.a = copyMatrix(s.A)
			l.b = copyVector(s.B)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown learner kind %q", s.Kind)
	}
}

// SnapshotGroup captures the serializable state of a group, recursively for
// nested groups. Arms outside the shipped implementations, and groups built
// with NewArmGroupWithPolicy, cannot be serialized and fail loudly.
func SnapshotGroup(g *ArmGroup) (*Snapshot, error) {
	if g.spec.Name == "" {
		return nil, fmt.Errorf("group has no serializable policy spec")
	}

	snap := &Snapshot{
		Policy:  g.spec,
		Seed:    g.seed,
		LastArm: g.last,
		Arms:    make(map[string]ArmSnapshot, len(g.arms)),
	}

	for key, arm := range g.arms {
		armSnap, err := snapshotArm(arm)
		if err != nil {
			return nil, fmt.Errorf("arm %q: %w", key, err)
		}
		snap.Arms[key] = armSnap
	}
	return snap, nil
}

func snapshotArm(arm Arm) (ArmSnapshot, error) {
	switch a := arm.(type) {
	case *ModelArm:
		snap := ArmSnapshot{Pulls: a.pulls, Reward: a.reward}
		if a.learner != nil {
			ls, err := snapshotLearner(a.learner)
			if err != nil {
				return ArmSnapshot{}, err
			}
			snap.Learner = ls
			snap.Reward = 0
		}
		return snap, nil
	case *ArmGroup:
		nested, err := SnapshotGroup(a)
		if err != nil {
			return ArmSnapshot{}, err
		}
		return ArmSnapshot{Group: nested}, nil
	default:
		return ArmSnapshot{}, fmt.Errorf("unsupported arm type %T", arm)
	}
}

func snapshotLearner(l Learner) (*LearnerSnapshot, error) {
	type snapshotter interface {
		snapshot() *LearnerSnapshot
	}
	s, ok := l.(snapshotter)
	if !ok {
		return nil, fmt.Errorf("unsupported learner type %T", l)
	}
	return s.snapshot(), nil
}
