package bandit

import "math/rand"

// Learner is the statistical model behind an arm. Implementations keep a
// posterior over the arm's reward: Sample draws from it without mutating
// anything, PartialFit folds observed rewards into it in place.
type Learner interface {
	// Sample returns size posterior draws for the given feature vector.
	// x may be nil for context-free learners.
	Sample(x []float64, size int) ([]float64, error)

	// PartialFit updates the posterior with observed targets ys. xs may be
	// nil for context-free learners; when present its row count must match
	// len(ys) or ErrShapeMismatch is returned.
	PartialFit(xs [][]float64, ys []float64) error

	// SetParams overwrites named hyperparameters. Unrecognized keys fail
	// with ErrUnknownParam.
	SetParams(params map[string]any) error

	// Mean returns the posterior point estimate of the expected reward.
	Mean(x []float64) (float64, error)

	// SetRand replaces the learner's random source.
	SetRand(rng *rand.Rand)
}

// Arm is a selectable action whose reward is modeled by a Learner. Bandits
// satisfy Arm as well, so a bandit can sit inside another bandit's arm set.
type Arm interface {
	// Pull records that the arm was selected.
	Pull()

	// Sample draws size posterior reward estimates. x may be nil.
	Sample(x []float64, size int) ([]float64, error)

	// Update feeds an observed reward back into the arm. y may be nil for
	// arms that only track pull counts.
	Update(x []float64, y []float64) error

	// Mean returns the current expected-reward point estimate without
	// mutating the arm.
	Mean(x []float64) (float64, error)
}

// ChoiceAlgorithm picks one arm out of a bandit's arm set. The owning group
// passes its own arms and random source on every call, so a single policy
// value can serve any number of bandits.
type ChoiceAlgorithm interface {
	// Choose returns the key and arm selected from arms. Fails with
	// ErrNoArms when arms is empty. The returned arm is always a member of
	// the given set.
	Choose(arms map[string]Arm, x []float64, rng *rand.Rand) (string, Arm, error)
}

// Bandit is an Arm that owns a keyed set of arms and a choice algorithm.
// Because Bandit embeds Arm, groups compose recursively.
type Bandit interface {
	Arm

	// ChooseAndPull asks the choice algorithm for an arm, records it as the
	// last arm pulled and pulls it.
	ChooseAndPull(x []float64) error

	// Arms exposes the live arm set keyed by name.
	Arms() map[string]Arm

	// Policy exposes the bound choice algorithm.
	Policy() ChoiceAlgorithm

	// Rand exposes the random source shared with the group's learners.
	Rand() *rand.Rand

	// LastArmPulled reports the most recently chosen arm, if any.
	LastArmPulled() (string, Arm, bool)
}
