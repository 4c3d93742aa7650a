package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"nexus/internal/domain"
)

// ConfigStore is the persistence the config service needs
type ConfigStore interface {
	GetConfig(ctx context.Context) (*domain.NotificationConfig, error)
	SaveConfig(ctx context.Context, cfg *domain.NotificationConfig) error
}

// UpdateConfigInput carries the fields to replace; nil fields keep their value.
type UpdateConfigInput struct {
	Email    *string `json:"email"`
	Domain   *string `json:"domain"`
	IsActive *bool   `json:"isActive"`
}

// ConfigService reads and writes the notification config
type ConfigService struct {
	store ConfigStore
}

// NewConfigService creates a new config service
func NewConfigService(store ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Get returns the current config
func (s *ConfigService) Get(ctx context.Context) (*domain.NotificationConfig, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		log.WithError(err).Error("[CONFIG] Get failed")
		return nil, asStoreError("Failed to load notification config", err)
	}
	return cfg, nil
}

// Update merges the given fields into the current config and saves the
// whole record.
func (s *ConfigService) Update(ctx context.Context, in UpdateConfigInput) error {
	cfg, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if in.Email != nil {
		cfg.Email = strings.TrimSpace(*in.Email)
	}
	if in.Domain != nil {
		cfg.Domain = strings.TrimSpace(*in.Domain)
	}
	if in.IsActive != nil {
		cfg.IsActive = *in.IsActive
	}

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		log.WithError(err).Error("[CONFIG] Update failed")
		return asStoreError("Failed to save notification config", err)
	}
	log.Printf("[CONFIG] Notification config updated: email=%s, domain=%s, active=%v", cfg.Email, cfg.Domain, cfg.IsActive)
	return nil
}
