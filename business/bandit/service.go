package bandit

import (
	"context"
	"fmt"
	"time"

	"banditHub/domain"
	"banditHub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type StateRepository interface {
	// GetState returns nil when no state exists for the key.
	GetState(ctx context.Context, key string) (*Snapshot, error)
	SaveState(ctx context.Context, key string, s *Snapshot) error
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.BanditEvent) error
}

type ConfigRepository interface {
	GetConfig(ctx context.Context, banditKey string) (domain.BanditConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error
}

// PendingDecision is what the service remembers between issuing a decision
// and receiving its feedback.
type PendingDecision struct {
	BanditKey string    `json:"bandit_key"`
	ArmKey    string    `json:"arm_key"`
	Features  []float64 `json:"features,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// DecisionCache holds pending decisions with a TTL. TakePending removes the
// entry, so each decision accepts feedback at most once.
type DecisionCache interface {
	StorePending(ctx context.Context, decisionID string, d PendingDecision, ttl time.Duration) error
	TakePending(ctx context.Context, decisionID string) (PendingDecision, error)
}

// ---- Usecase / Service ----

type BanditService struct {
	stateRepo  StateRepository
	eventRepo  EventRepository
	cfgRepo    ConfigRepository
	cache      DecisionCache
	tokens     TokenCodec
	defaultCfg Config
}

func NewBanditService(
	stateRepo StateRepository,
	eventRepo EventRepository,
	cfgRepo ConfigRepository,
	cache DecisionCache,
	tokens TokenCodec,
	defaultCfg Config,
) *BanditService {
	return &BanditService{
		stateRepo:  stateRepo,
		eventRepo:  eventRepo,
		cfgRepo:    cfgRepo,
		cache:      cache,
		tokens:     tokens,
		defaultCfg: defaultCfg,
	}
}

// loadConfig reads the per-bandit config, falling back to defaults for
// missing rows or zero fields.
func (s *BanditService) loadConfig(ctx context.Context, banditKey string) Config {
	cfg := s.defaultCfg

	if s.cfgRepo == nil {
		return cfg
	}
	dbCfg, ok, err := s.cfgRepo.GetConfig(ctx, banditKey)
	if err != nil || !ok {
		return cfg
	}

	cfg.RewardImpression = dbCfg.RewardImpression
	cfg.RewardClick = dbCfg.RewardClick
	cfg.RewardConvert = dbCfg.RewardConvert
	cfg.ValueWeight = dbCfg.ValueWeight
	if dbCfg.DecisionTTLSeconds > 0 {
		cfg.DecisionTTL = time.Duration(dbCfg.DecisionTTLSeconds) * time.Second
	}
	return cfg
}

func (s *BanditService) loadGroup(ctx context.Context, banditKey string) (*ArmGroup, error) {
	snap, err := s.stateRepo.GetState(ctx, banditKey)
	if err != nil {
		return nil, fmt.Errorf("load bandit state: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBandit, banditKey)
	}
	return BuildGroup(snap)
}

func (s *BanditService) saveGroup(ctx context.Context, banditKey string, g *ArmGroup) error {
	snap, err := SnapshotGroup(g)
	if err != nil {
		return fmt.Errorf("snapshot bandit state: %w", err)
	}
	if err := s.stateRepo.SaveState(ctx, banditKey, snap); err != nil {
		return fmt.Errorf("save bandit state: %w", err)
	}
	return nil
}

//  Decision / serving

// Decide runs one choose-and-pull for the named bandit, persists the new
// state and the decision event, and returns the picked arm together with an
// opaque token for later feedback.
func (s *BanditService) Decide(
	ctx context.Context,
	banditKey string,
	reqCtx map[string]any,
) (domain.Decision, error) {

	if err := ctx.Err(); err != nil {
		return domain.Decision{}, fmt.Errorf("context error: %w", err)
	}
	if banditKey == "" {
		return domain.Decision{}, fmt.Errorf("bandit key is required")
	}

	cfg := s.loadConfig(ctx, banditKey)

	g, err := s.loadGroup(ctx, banditKey)
	if err != nil {
		return domain.Decision{}, err
	}

	now := time.Now()
	platform := ""
	if reqCtx != nil {
		if p, ok := reqCtx["platform"].(string); ok {
			platform = p
		}
	}
	x := BuildFeatureVector(now, reqCtx)

	if err := g.ChooseAndPull(x); err != nil {
		return domain.Decision{}, fmt.Errorf("choose and pull: %w", err)
	}

	armKey, _, ok := g.LastArmPulled()
	if !ok {
		return domain.Decision{}, ErrNoArmPulled
	}

	if err := s.saveGroup(ctx, banditKey, g); err != nil {
		return domain.Decision{}, err
	}

	decisionID := uuid.NewString()

	tid := TraceIDFromContext(ctx)
	logger.Debug("bandit_decide",
		"trace_id", tid,
		"bandit", banditKey,
		"arm", armKey,
		"decision_id", decisionID,
	)

	mergedCtx := mergeContext(buildBaseContext(now, platform), reqCtx)
	event := domain.BanditEvent{
		BanditKey:  banditKey,
		ArmKey:     armKey,
		DecisionID: decisionID,
		EventType:  domain.EventDecision,
		Context:    datatypes.JSONMap(mergedCtx),
	}
	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		return domain.Decision{}, fmt.Errorf("failed to save decision event: %w", err)
	}

	pending := PendingDecision{
		BanditKey: banditKey,
		ArmKey:    armKey,
		Features:  x,
		IssuedAt:  now,
	}
	if err := s.cache.StorePending(ctx, decisionID, pending, cfg.DecisionTTL); err != nil {
		return domain.Decision{}, fmt.Errorf("failed to store pending decision: %w", err)
	}

	token, err := s.tokens.Encode(DecisionToken{
		DecisionID: decisionID,
		BanditKey:  banditKey,
		ArmKey:     armKey,
		IssuedAt:   now.Unix(),
	})
	if err != nil {
		return domain.Decision{}, err
	}

	DecisionsTotal.WithLabelValues(banditKey, armKey, g.spec.Name).Inc()

	return domain.Decision{
		BanditKey:  banditKey,
		ArmKey:     armKey,
		DecisionID: decisionID,
		Token:      token,
	}, nil
}

//  Feedback / learning

// Feedback resolves a decision token, maps the event to a reward and feeds
// it back into the decided arm. A decision accepts feedback once; late or
// repeated feedback fails.
func (s *BanditService) Feedback(
	ctx context.Context,
	token string,
	eventType string,
	value float64,
	reqCtx map[string]any,
) error {

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if eventType == "" {
		return fmt.Errorf("event_type is required")
	}

	tok, err := s.tokens.Decode(token)
	if err != nil {
		return err
	}

	// validate and load everything fallible before consuming the pending
	// decision, so transient failures leave it retryable
	cfg := s.loadConfig(ctx, tok.BanditKey)

	reward, err := cfg.RewardForEvent(eventType, value)
	if err != nil {
		return err
	}

	g, err := s.loadGroup(ctx, tok.BanditKey)
	if err != nil {
		return err
	}

	pending, err := s.cache.TakePending(ctx, tok.DecisionID)
	if err != nil {
		return fmt.Errorf("decision %s: %w", tok.DecisionID, err)
	}
	if pending.BanditKey != tok.BanditKey || pending.ArmKey != tok.ArmKey {
		s.restorePending(ctx, tok.DecisionID, pending, cfg.DecisionTTL)
		return fmt.Errorf("decision token does not match pending decision")
	}

	if err := g.UpdateArm(tok.ArmKey, pending.Features, []float64{reward}); err != nil {
		s.restorePending(ctx, tok.DecisionID, pending, cfg.DecisionTTL)
		return fmt.Errorf("update arm: %w", err)
	}

	if err := s.saveGroup(ctx, tok.BanditKey, g); err != nil {
		s.restorePending(ctx, tok.DecisionID, pending, cfg.DecisionTTL)
		return err
	}

	tid := TraceIDFromContext(ctx)
	logger.Debug("bandit_feedback",
		"trace_id", tid,
		"bandit", tok.BanditKey,
		"arm", tok.ArmKey,
		"decision_id", tok.DecisionID,
		"event_type", eventType,
		"value", value,
		"reward", reward,
	)

	now := time.Now()
	platform := ""
	if reqCtx != nil {
		if p, ok := reqCtx["platform"].(string); ok {
			platform = p
		}
	}
	mergedCtx := mergeContext(buildBaseContext(now, platform), reqCtx)

	event := domain.BanditEvent{
		BanditKey:  tok.BanditKey,
		ArmKey:     tok.ArmKey,
		DecisionID: tok.DecisionID,
		EventType:  eventType,
		Reward:     reward,
		Value:      value,
		Context:    datatypes.JSONMap(mergedCtx),
	}
	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to save feedback event: %w", err)
	}

	// increment AFTER we successfully process the event
	FeedbackEventsTotal.WithLabelValues(tok.BanditKey, tok.ArmKey, eventType).Inc()

	return nil
}

// restorePending puts a consumed pending decision back so feedback can be
// retried after a transient failure.
func (s *BanditService) restorePending(ctx context.Context, decisionID string, d PendingDecision, ttl time.Duration) {
	if err := s.cache.StorePending(ctx, decisionID, d, ttl); err != nil {
		logger.Warn("Failed to restore pending decision", "decision_id", decisionID, "error", err)
	}
}

//  Inspection

// ListArms reports per-arm means and pull counts for display and debugging.
func (s *BanditService) ListArms(ctx context.Context, banditKey string) ([]domain.ArmView, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	g, err := s.loadGroup(ctx, banditKey)
	if err != nil {
		return nil, err
	}

	lastKey, _, _ := g.LastArmPulled()
	x := BuildFeatureVector(time.Now(), nil)

	views := make([]domain.ArmView, 0, len(g.Arms()))
	for _, key := range sortedKeys(g.Arms()) {
		arm := g.Arms()[key]
		mean, err := arm.Mean(x)
		if err != nil {
			return nil, fmt.Errorf("mean of arm %q: %w", key, err)
		}
		views = append(views, domain.ArmView{
			Key:        key,
			Mean:       mean,
			Pulls:      armPulls(arm),
			LastPulled: key == lastKey,
			Nested:     isGroup(arm),
		})
	}
	return views, nil
}

// armPulls counts selections of an arm; for nested groups it sums the
// children, since a group is pulled by pulling one of its arms.
func armPulls(arm Arm) int64 {
	switch a := arm.(type) {
	case *ModelArm:
		return a.Pulls()
	case *ArmGroup:
		var total int64
		for _, child := range a.Arms() {
			total += armPulls(child)
		}
		return total
	default:
		return 0
	}
}

func isGroup(arm Arm) bool {
	_, ok := arm.(*ArmGroup)
	return ok
}

//  Administration

// UpsertDefinition validates a bandit definition and installs it as the
// bandit's state, replacing any accumulated posterior.
func (s *BanditService) UpsertDefinition(ctx context.Context, banditKey string, def *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if banditKey == "" {
		return fmt.Errorf("bandit key is required")
	}
	if def == nil || len(def.Arms) == 0 {
		return fmt.Errorf("definition needs at least one arm: %w", ErrNoArms)
	}

	// round-trip through a live group so broken definitions are rejected
	g, err := BuildGroup(def)
	if err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}

	if err := s.saveGroup(ctx, banditKey, g); err != nil {
		return err
	}

	logger.Info("bandit_definition_upserted",
		"bandit", banditKey,
		"policy", def.Policy.Name,
		"arms", len(def.Arms),
	)
	return nil
}

// GetDefinition returns the stored snapshot for a bandit.
func (s *BanditService) GetDefinition(ctx context.Context, banditKey string) (*Snapshot, error) {
	snap, err := s.stateRepo.GetState(ctx, banditKey)
	if err != nil {
		return nil, fmt.Errorf("load bandit state: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBandit, banditKey)
	}
	return snap, nil
}
