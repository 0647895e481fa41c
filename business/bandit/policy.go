package bandit

import (
	"fmt"
	"sort"
)

// Policy names accepted in PolicySpec and stored in snapshots.
const (
	PolicyEpsilonGreedy = "epsilon_greedy"
	PolicyThompson      = "thompson"
	PolicyUCB           = "ucb"
)

// PolicySpec is the serializable description of a choice algorithm.
// Zero-valued tuning fields fall back to the policy defaults.
type PolicySpec struct {
	Name    string  `json:"name"`
	Epsilon float64 `json:"epsilon,omitempty"`
	Alpha   float64 `json:"alpha,omitempty"`
	Draws   int     `json:"draws,omitempty"`
}

// NewPolicy builds a choice algorithm from its spec.
func NewPolicy(spec PolicySpec) (ChoiceAlgorithm, error) {
	switch spec.Name {
	case PolicyEpsilonGreedy:
		return &EpsilonGreedy{Epsilon: spec.Epsilon}, nil
	case PolicyThompson:
		return &ThompsonSampling{}, nil
	case PolicyUCB:
		return &UpperConfidenceBound{Alpha: spec.Alpha, Draws: spec.Draws}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", spec.Name)
	}
}

// sortedKeys gives policies a stable iteration order so ties break the same
// way under a fixed seed.
func sortedKeys(arms map[string]Arm) []string {
	keys := make([]string, 0, len(arms))
	for k := range arms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
