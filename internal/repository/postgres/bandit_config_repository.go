package postgres

import (
	"context"

	"banditHub/business/bandit"
	"banditHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanditConfigRepository struct {
	DB *gorm.DB
}

var _ bandit.ConfigRepository = (*BanditConfigRepository)(nil)

func NewBanditConfigRepository(db *gorm.DB) *BanditConfigRepository {
	return &BanditConfigRepository{DB: db}
}

func (r *BanditConfigRepository) GetConfig(ctx context.Context, banditKey string) (domain.BanditConfig, bool, error) {
	var cfg domain.BanditConfig

	err := r.DB.WithContext(ctx).
		Where("bandit_key = ?", banditKey).
		First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return domain.BanditConfig{}, false, nil
	}
	if err != nil {
		return domain.BanditConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *BanditConfigRepository) UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bandit_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"reward_impression",
				"reward_click",
				"reward_convert",
				"value_weight",
				"decision_ttl_seconds",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
