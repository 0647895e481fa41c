package bandit

import "time"

// Config carries the service-level knobs applied per bandit: reward mapping
// for feedback events and how long a decision accepts feedback.
type Config struct {
	RewardImpression float64
	RewardClick      float64
	RewardConvert    float64

	// how much monetary value influences the reward
	ValueWeight float64

	DecisionTTL time.Duration
}

const (
	defaultRewardImpression = 0.0
	defaultRewardClick      = 1.0
	defaultRewardConvert    = 5.0
	defaultValueWeight      = 0.0001
	defaultDecisionTTL      = 30 * time.Minute
)

func DefaultConfig() Config {
	return Config{
		RewardImpression: defaultRewardImpression,
		RewardClick:      defaultRewardClick,
		RewardConvert:    defaultRewardConvert,
		ValueWeight:      defaultValueWeight,
		DecisionTTL:      defaultDecisionTTL,
	}
}
