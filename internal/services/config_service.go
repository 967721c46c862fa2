package services

import (
	"context"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/repository"
)

type ConfigService struct {
	repo     repository.ConfigRepository
	fallback *domain.StoreConfig
}

// NewConfigService wraps the configuration row with static defaults. The
// fallback is what Get returns while no row exists yet.
func NewConfigService(repo repository.ConfigRepository, fallback *domain.StoreConfig) *ConfigService {
	if fallback == nil {
		fallback = domain.DefaultConfig()
	}
	return &ConfigService{repo: repo, fallback: fallback}
}

func (s *ConfigService) Get(ctx context.Context) (*domain.StoreConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		out := *s.fallback
		return &out, nil
	}
	return cfg, nil
}

func (s *ConfigService) Update(ctx context.Context, cfg *domain.StoreConfig) error {
	return s.repo.Save(ctx, cfg)
}

func (s *ConfigService) Public(ctx context.Context) (*domain.PublicConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	pub := cfg.Public()
	return &pub, nil
}
