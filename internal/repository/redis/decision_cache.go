package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"banditHub/business/bandit"

	"github.com/redis/go-redis/v9"
)

// ErrDecisionNotFound covers both expired and already-consumed decisions.
var ErrDecisionNotFound = errors.New("decision not found or expired")

// DecisionCache stores pending decisions under a TTL so feedback can be
// validated and deduplicated without touching Postgres.
type DecisionCache struct {
	client *redis.Client
}

var _ bandit.DecisionCache = (*DecisionCache)(nil)

func NewDecisionCache(client *redis.Client) *DecisionCache {
	return &DecisionCache{
		client: client,
	}
}

func decisionKey(decisionID string) string {
	return fmt.Sprintf("decision:pending:%s", decisionID)
}

func (c *DecisionCache) StorePending(ctx context.Context, decisionID string, d bandit.PendingDecision, ttl time.Duration) error {
	jsonData, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal pending decision: %w", err)
	}

	if err := c.client.Set(ctx, decisionKey(decisionID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending decision in Redis: %w", err)
	}

	return nil
}

// TakePending removes and returns the pending decision, so a decision
// accepts feedback at most once.
func (c *DecisionCache) TakePending(ctx context.Context, decisionID string) (bandit.PendingDecision, error) {
	val, err := c.client.GetDel(ctx, decisionKey(decisionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return bandit.PendingDecision{}, ErrDecisionNotFound
		}
		return bandit.PendingDecision{}, fmt.Errorf("failed to take pending decision: %w", err)
	}

	var pending bandit.PendingDecision
	if err := json.Unmarshal([]byte(val), &pending); err != nil {
		return bandit.PendingDecision{}, fmt.Errorf("failed to unmarshal pending decision: %w", err)
	}

	return pending, nil
}
