package bandit

import (
	"fmt"

	"banditHub/domain"
)

// RewardForEvent turns a feedback event into a numeric reward using the
// current config.
func (cfg Config) RewardForEvent(eventType string, value float64) (float64, error) {
	var base float64

	switch eventType {
	case domain.EventImpression:
		base = cfg.RewardImpression
	case domain.EventClick:
		base = cfg.RewardClick
	case domain.EventConvert:
		base = cfg.RewardConvert
	default:
		return 0, fmt.Errorf("unknown event type: %s", eventType)
	}

	// business value component (dynamic, from the client)
	if value > 0 {
		base += cfg.ValueWeight * value
	}

	return base, nil
}
