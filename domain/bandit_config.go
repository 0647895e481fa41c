package domain

import "time"

// BanditConfig is the per-bandit reward mapping stored in Postgres. Missing
// rows fall back to the service defaults.
type BanditConfig struct {
	BanditKey string `json:"bandit_key" gorm:"column:bandit_key;primaryKey"`

	// per-event base rewards
	RewardImpression float64 `json:"reward_impression" gorm:"column:reward_impression"`
	RewardClick      float64 `json:"reward_click" gorm:"column:reward_click"`
	RewardConvert    float64 `json:"reward_convert" gorm:"column:reward_convert"`

	// how much monetary value influences the reward
	ValueWeight float64 `json:"value_weight" gorm:"column:value_weight"`

	// how long an issued decision accepts feedback, in seconds
	DecisionTTLSeconds int `json:"decision_ttl_seconds" gorm:"column:decision_ttl_seconds"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (BanditConfig) TableName() string {
	return "bandit_configs"
}
