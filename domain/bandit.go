package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Event types accepted as decision feedback.
const (
	EventDecision   = "decision"
	EventImpression = "impression"
	EventClick      = "click"
	EventConvert    = "convert"
)

// BanditEvent is one row of the append-only decision/feedback log.
type BanditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BanditKey  string    `gorm:"column:bandit_key;not null" json:"bandit_key"`
	ArmKey     string    `gorm:"column:arm_key;not null" json:"arm_key"`
	DecisionID string    `gorm:"column:decision_id;not null;index" json:"decision_id"`
	EventType  string    `gorm:"column:event_type;not null" json:"event_type"`
	Reward     float64   `gorm:"column:reward" json:"reward"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Value   float64           `gorm:"-" json:"value"` // raw business value from the client
	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (BanditEvent) TableName() string {
	return "bandit_events"
}

// Decision is the serving-side view of one choose-and-pull: which arm was
// picked, plus an opaque token the client echoes back with feedback.
type Decision struct {
	BanditKey  string `json:"bandit_key"`
	ArmKey     string `json:"arm_key"`
	DecisionID string `json:"decision_id"`
	Token      string `json:"token"`
}

// ArmView is the debug/inspection view of one arm.
type ArmView struct {
	Key        string  `json:"key"`
	Mean       float64 `json:"mean"`
	Pulls      int64   `json:"pulls"`
	LastPulled bool    `json:"last_pulled"`
	Nested     bool    `json:"nested"`
}
