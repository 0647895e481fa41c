package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"banditHub/business/bandit"
	"banditHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanditRepository struct {
	DB *gorm.DB
}

var (
	_ bandit.StateRepository = (*BanditRepository)(nil)
	_ bandit.EventRepository = (*BanditRepository)(nil)
)

func NewBanditRepository(db *gorm.DB) *BanditRepository {
	return &BanditRepository{DB: db}
}

// Migrate creates the state table. Events and configs are migrated with the
// domain entities.
func (r *BanditRepository) Migrate() error {
	return r.DB.AutoMigrate(&banditStateRow{})
}

// ---- Events ----

func (r *BanditRepository) SaveEvent(ctx context.Context, event domain.BanditEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save bandit event: %w", err)
	}

	return nil
}

// ---- State ----

type banditStateRow struct {
	BanditKey string `gorm:"column:bandit_key;primaryKey"`
	StateJSON []byte `gorm:"column:state_json"`
}

func (banditStateRow) TableName() string {
	return "bandit_state"
}

func (r *BanditRepository) GetState(ctx context.Context, key string) (*bandit.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row banditStateRow
	err := r.DB.WithContext(ctx).First(&row, "bandit_key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bandit_state: %w", err)
	}

	var snap bandit.Snapshot
	if err := json.Unmarshal(row.StateJSON, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state_json: %w", err)
	}

	return &snap, nil
}

func (r *BanditRepository) SaveState(ctx context.Context, key string, snap *bandit.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	row := banditStateRow{
		BanditKey: key,
		StateJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "bandit_key"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert bandit_state: %w", err)
	}

	return nil
}
