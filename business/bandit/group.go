package bandit

import (
	"fmt"
	"math/rand"
)

// ArmGroup is the composite Bandit implementation: a keyed set of arms, a
// choice algorithm and the last arm pulled. ArmGroup itself satisfies Arm,
// so a group can be registered as an arm of a parent group.
type ArmGroup struct {
	arms   map[string]Arm
	policy ChoiceAlgorithm
	spec   PolicySpec
	last   string
	seed   int64
	rng    *rand.Rand
}

var (
	_ Arm    = (*ArmGroup)(nil)
	_ Bandit = (*ArmGroup)(nil)
)

// NewArmGroup builds an empty group with the policy described by spec.
// Seed 0 seeds the random source from the clock; any other value gives
// reproducible choices. The seed advances on every pull, so groups rebuilt
// from successive snapshots do not replay the same draws.
func NewArmGroup(spec PolicySpec, seed int64) (*ArmGroup, error) {
	policy, err := NewPolicy(spec)
	if err != nil {
		return nil, err
	}
	g := NewArmGroupWithPolicy(policy, seed)
	g.spec = spec
	return g, nil
}

// NewArmGroupWithPolicy builds a group around a caller-supplied choice
// algorithm. Such groups work like any other but cannot be snapshotted,
// since the policy has no serializable spec.
func NewArmGroupWithPolicy(policy ChoiceAlgorithm, seed int64) *ArmGroup {
	return &ArmGroup{
		arms:   make(map[string]Arm),
		policy: policy,
		seed:   seed,
		rng:    newRand(seed),
	}
}

// AddArm registers an arm under key. Keys are unique.
func (g *ArmGroup) AddArm(key string, arm Arm) error {
	if key == "" {
		return fmt.Errorf("arm key must not be empty")
	}
	if _, ok := g.arms[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateArm, key)
	}
	if learner := armLearner(arm); learner != nil {
		learner.SetRand(g.rng)
	}
	g.arms[key] = arm
	return nil
}

func (g *ArmGroup) Arms() map[string]Arm { return g.arms }

func (g *ArmGroup) Policy() ChoiceAlgorithm { return g.policy }

func (g *ArmGroup) Rand() *rand.Rand { return g.rng }

func (g *ArmGroup) LastArmPulled() (string, Arm, bool) {
	if g.last == "" {
		return "", nil, false
	}
	arm, ok := g.arms[g.last]
	if !ok {
		return "", nil, false
	}
	return g.last, arm, true
}

// ChooseAndPull asks the policy for an arm, records it as the last arm
// pulled and pulls it.
func (g *ArmGroup) ChooseAndPull(x []float64) error {
	key, arm, err := g.policy.Choose(g.arms, x, g.rng)
	if err != nil {
		return err
	}
	g.last = key
	arm.Pull()

	// rotate the stored seed; a snapshot taken after this pull reseeds the
	// next rebuild at a fresh point in the stream
	if g.seed != 0 {
		g.seed = g.rng.Int63()
	}
	return nil
}

// Pull satisfies the Arm contract for nested groups: pulling a group as an
// arm of its parent chooses and pulls one of its own arms. A choice failure
// (empty group) leaves the group untouched.
func (g *ArmGroup) Pull() {
	_ = g.ChooseAndPull(nil)
}

// Sample draws from the arm the policy would currently pick. The selection
// is not recorded, so sampling stays read-only with respect to lastArmPulled.
func (g *ArmGroup) Sample(x []float64, size int) ([]float64, error) {
	_, arm, err := g.policy.Choose(g.arms, x, g.rng)
	if err != nil {
		return nil, err
	}
	return arm.Sample(x, size)
}

// Update delegates the observed reward to the last arm pulled.
func (g *ArmGroup) Update(x []float64, y []float64) error {
	if g.last == "" {
		return ErrNoArmPulled
	}
	arm, ok := g.arms[g.last]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownArm, g.last)
	}
	return arm.Update(x, y)
}

// UpdateArm feeds a reward to a specific arm by key, bypassing the
// last-pulled bookkeeping. Used when feedback arrives out of band, keyed by
// a decision record.
func (g *ArmGroup) UpdateArm(key string, x []float64, y []float64) error {
	arm, ok := g.arms[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownArm, key)
	}
	return arm.Update(x, y)
}

// Mean reports the expected reward of the arm the policy would pick.
func (g *ArmGroup) Mean(x []float64) (float64, error) {
	_, arm, err := g.policy.Choose(g.arms, x, g.rng)
	if err != nil {
		return 0, err
	}
	return arm.Mean(x)
}

// armLearner unwraps the learner of a ModelArm, nil for anything else.
func armLearner(arm Arm) Learner {
	if m, ok := arm.(*ModelArm); ok {
		return m.Learner()
	}
	return nil
}
