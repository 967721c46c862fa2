package mysql

import (
	"context"
	"errors"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type configRepo struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) repository.ConfigRepository {
	return &configRepo{db: db}
}

func (r *configRepo) Get(ctx context.Context) (*domain.StoreConfig, error) {
	var cfg domain.StoreConfig
	err := r.db.WithContext(ctx).First(&cfg, domain.ConfigID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *configRepo) Save(ctx context.Context, cfg *domain.StoreConfig) error {
	cfg.ID = domain.ConfigID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(cfg).Error
}
