package bandit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"banditHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes ----

type memStateRepo struct {
	states       map[string]*Snapshot
	failNextSave bool
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{states: make(map[string]*Snapshot)}
}

func (r *memStateRepo) GetState(_ context.Context, key string) (*Snapshot, error) {
	snap, ok := r.states[key]
	if !ok {
		return nil, nil
	}
	// round-trip through JSON so the fake behaves like the database
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var out Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *memStateRepo) SaveState(_ context.Context, key string, s *Snapshot) error {
	if r.failNextSave {
		r.failNextSave = false
		return errors.New("connection reset")
	}
	r.states[key] = s
	return nil
}

type memEventRepo struct {
	events []domain.BanditEvent
}

func (r *memEventRepo) SaveEvent(_ context.Context, event domain.BanditEvent) error {
	r.events = append(r.events, event)
	return nil
}

type memConfigRepo struct {
	configs map[string]domain.BanditConfig
}

func (r *memConfigRepo) GetConfig(_ context.Context, banditKey string) (domain.BanditConfig, bool, error) {
	cfg, ok := r.configs[banditKey]
	return cfg, ok, nil
}

func (r *memConfigRepo) UpsertConfig(_ context.Context, cfg domain.BanditConfig) error {
	if r.configs == nil {
		r.configs = make(map[string]domain.BanditConfig)
	}
	r.configs[cfg.BanditKey] = cfg
	return nil
}

var errPendingNotFound = errors.New("pending decision not found")

type memDecisionCache struct {
	pending map[string]PendingDecision
}

func newMemDecisionCache() *memDecisionCache {
	return &memDecisionCache{pending: make(map[string]PendingDecision)}
}

func (c *memDecisionCache) StorePending(_ context.Context, id string, d PendingDecision, _ time.Duration) error {
	c.pending[id] = d
	return nil
}

func (c *memDecisionCache) TakePending(_ context.Context, id string) (PendingDecision, error) {
	d, ok := c.pending[id]
	if !ok {
		return PendingDecision{}, errPendingNotFound
	}
	delete(c.pending, id)
	return d, nil
}

// jsonTokenCodec swaps the encrypted production codec for plain JSON.
type jsonTokenCodec struct{}

func (jsonTokenCodec) Encode(tok DecisionToken) (string, error) {
	raw, err := json.Marshal(tok)
	return string(raw), err
}

func (jsonTokenCodec) Decode(s string) (DecisionToken, error) {
	var tok DecisionToken
	err := json.Unmarshal([]byte(s), &tok)
	return tok, err
}

// ---- fixtures ----

type serviceFixture struct {
	svc    *BanditService
	states *memStateRepo
	events *memEventRepo
	cache  *memDecisionCache
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	states := newMemStateRepo()
	events := &memEventRepo{}
	cache := newMemDecisionCache()

	svc := NewBanditService(
		states,
		events,
		&memConfigRepo{},
		cache,
		jsonTokenCodec{},
		DefaultConfig(),
	)
	return &serviceFixture{svc: svc, states: states, events: events, cache: cache}
}

func testDefinition() *Snapshot {
	return &Snapshot{
		Policy: PolicySpec{Name: PolicyEpsilonGreedy, Epsilon: 0},
		Seed:   42,
		Arms: map[string]ArmSnapshot{
			"banner_a": {Learner: &LearnerSnapshot{Kind: LearnerBetaBernoulli, Alpha: 1, Beta: 1}},
			"banner_b": {Learner: &LearnerSnapshot{Kind: LearnerBetaBernoulli, Alpha: 1, Beta: 1}},
		},
	}
}

// ---- tests ----

func TestDecideUnknownBandit(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Decide(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrUnknownBandit)
}

func TestDecideRequiresBanditKey(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Decide(context.Background(), "", nil)
	require.Error(t, err)
}

func TestUpsertDefinitionThenDecide(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := f.svc.Decide(ctx, "homepage", map[string]any{"platform": "web"})
	require.NoError(t, err)

	assert.Equal(t, "homepage", dec.BanditKey)
	assert.Contains(t, []string{"banner_a", "banner_b"}, dec.ArmKey)
	assert.NotEmpty(t, dec.DecisionID)
	assert.NotEmpty(t, dec.Token)

	// state now records the pull
	snap, err := f.svc.GetDefinition(ctx, "homepage")
	require.NoError(t, err)
	assert.Equal(t, dec.ArmKey, snap.LastArm)
	assert.Equal(t, int64(1), snap.Arms[dec.ArmKey].Pulls)

	// a decision event was recorded and the decision is pending
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventDecision, f.events.events[0].EventType)
	assert.Contains(t, f.cache.pending, dec.DecisionID)
}

func TestUpsertDefinitionRejectsInvalid(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.Error(t, f.svc.UpsertDefinition(ctx, "homepage", nil))
	require.Error(t, f.svc.UpsertDefinition(ctx, "homepage", &Snapshot{
		Policy: PolicySpec{Name: PolicyThompson},
	}))
	require.Error(t, f.svc.UpsertDefinition(ctx, "homepage", &Snapshot{
		Policy: PolicySpec{Name: "bogus"},
		Arms:   map[string]ArmSnapshot{"a": {Reward: 1}},
	}))
}

func TestFeedbackUpdatesArm(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := f.svc.Decide(ctx, "homepage", nil)
	require.NoError(t, err)

	before, err := f.svc.GetDefinition(ctx, "homepage")
	require.NoError(t, err)

	require.NoError(t, f.svc.Feedback(ctx, dec.Token, domain.EventClick, 0, nil))

	after, err := f.svc.GetDefinition(ctx, "homepage")
	require.NoError(t, err)
	assert.Greater(t,
		after.Arms[dec.ArmKey].Learner.Alpha,
		before.Arms[dec.ArmKey].Learner.Alpha,
	)

	// decision + feedback events
	require.Len(t, f.events.events, 2)
	assert.Equal(t, domain.EventClick, f.events.events[1].EventType)
}

func TestFeedbackIsAcceptedOnce(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := f.svc.Decide(ctx, "homepage", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Feedback(ctx, dec.Token, domain.EventImpression, 0, nil))

	err = f.svc.Feedback(ctx, dec.Token, domain.EventImpression, 0, nil)
	require.ErrorIs(t, err, errPendingNotFound)
}

func TestFeedbackUnknownEventType(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := f.svc.Decide(ctx, "homepage", nil)
	require.NoError(t, err)

	require.Error(t, f.svc.Feedback(ctx, dec.Token, "hover", 0, nil))

	// a bad event type must not consume the decision
	assert.Contains(t, f.cache.pending, dec.DecisionID)
	require.NoError(t, f.svc.Feedback(ctx, dec.Token, domain.EventClick, 0, nil))
}

func TestFeedbackSurvivesTransientSaveFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := f.svc.Decide(ctx, "homepage", nil)
	require.NoError(t, err)

	f.states.failNextSave = true
	require.Error(t, f.svc.Feedback(ctx, dec.Token, domain.EventClick, 0, nil))

	// the pending decision was put back, so a retry succeeds
	assert.Contains(t, f.cache.pending, dec.DecisionID)
	require.NoError(t, f.svc.Feedback(ctx, dec.Token, domain.EventClick, 0, nil))

	snap, err := f.svc.GetDefinition(ctx, "homepage")
	require.NoError(t, err)
	assert.Greater(t, snap.Arms[dec.ArmKey].Learner.Alpha, 1.0)
}

func TestFeedbackBadToken(t *testing.T) {
	f := newServiceFixture(t)

	err := f.svc.Feedback(context.Background(), "not-a-token", domain.EventClick, 0, nil)
	require.Error(t, err)
}

func TestListArms(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	def := testDefinition()
	def.Arms["nested"] = ArmSnapshot{Group: &Snapshot{
		Policy: PolicySpec{Name: PolicyThompson},
		Arms: map[string]ArmSnapshot{
			"inner": {Learner: &LearnerSnapshot{Kind: LearnerBetaBernoulli, Alpha: 2, Beta: 1}},
		},
	}}
	require.NoError(t, f.svc.UpsertDefinition(ctx, "homepage", def))

	views, err := f.svc.ListArms(ctx, "homepage")
	require.NoError(t, err)
	require.Len(t, views, 3)

	// sorted by key
	assert.Equal(t, "banner_a", views[0].Key)
	assert.Equal(t, "banner_b", views[1].Key)
	assert.Equal(t, "nested", views[2].Key)
	assert.True(t, views[2].Nested)
	assert.False(t, views[0].Nested)
}

func TestConfiguredRewardsApply(t *testing.T) {
	states := newMemStateRepo()
	cfgRepo := &memConfigRepo{}
	cache := newMemDecisionCache()
	svc := NewBanditService(states, &memEventRepo{}, cfgRepo, cache, jsonTokenCodec{}, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, cfgRepo.UpsertConfig(ctx, domain.BanditConfig{
		BanditKey:   "homepage",
		RewardClick: 10,
	}))
	require.NoError(t, svc.UpsertDefinition(ctx, "homepage", testDefinition()))

	dec, err := svc.Decide(ctx, "homepage", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Feedback(ctx, dec.Token, domain.EventClick, 0, nil))

	snap, err := svc.GetDefinition(ctx, "homepage")
	require.NoError(t, err)
	// reward 10 is clamped to 1 by the Bernoulli learner but still counts
	// as a success
	assert.Greater(t, snap.Arms[dec.ArmKey].Learner.Alpha, 1.0)
}
