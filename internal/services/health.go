package services

import (
	"context"

	"nexus/internal/database"
)

// HealthResult is the liveness payload. StoreMode and MailMode show whether
// data is really persisted and mail really sent.
type HealthResult struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	StoreMode string `json:"store_mode"`
	MailMode  string `json:"mail_mode"`
}

type storeModer interface {
	Mode() database.StoreMode
}

type mailModer interface {
	Mode() string
}

// HealthService implements the health service
type HealthService struct {
	name  string
	store storeModer
	mail  mailModer
}

// NewHealthService creates a new health service
func NewHealthService(name string, store storeModer, mail mailModer) *HealthService {
	return &HealthService{name: name, store: store, mail: mail}
}

// Check implements the health check method
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	return &HealthResult{
		Status:    "healthy",
		Service:   s.name,
		StoreMode: string(s.store.Mode()),
		MailMode:  s.mail.Mode(),
	}
}
