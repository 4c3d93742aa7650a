package database

import (
	"context"
	"sync"
	"time"

	"nexus/internal/domain"
)

// MemoryStore keeps inquiries and the config in process memory. Nothing
// survives a restart and nothing is evicted.
type MemoryStore struct {
	mu        sync.RWMutex
	inquiries []domain.Inquiry // newest first
	config    *domain.NotificationConfig
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SeedDemo preloads the sample inquiries shown by the console before any
// real submissions arrive.
func (s *MemoryStore) SeedDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries = append(s.inquiries,
		domain.Inquiry{
			ID:        "1",
			Name:      "Rahim Ahmed",
			Email:     "rahim@test.com",
			Message:   "I need help with the webhook integration documentation.",
			Status:    domain.StatusNew,
			CreatedAt: time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC),
		},
		domain.Inquiry{
			ID:        "2",
			Name:      "Sarah Khan",
			Email:     "sarah.k@business.com",
			Message:   "Pricing inquiry for enterprise plan.",
			Status:    domain.StatusRead,
			CreatedAt: time.Date(2023, 10, 23, 0, 0, 0, 0, time.UTC),
		},
	)
}

func (s *MemoryStore) CreateInquiry(_ context.Context, inquiry *domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries = append([]domain.Inquiry{*inquiry}, s.inquiries...)
	return nil
}

func (s *MemoryStore) ListInquiries(_ context.Context) ([]domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Inquiry, len(s.inquiries))
	copy(out, s.inquiries)
	return out, nil
}

func (s *MemoryStore) DeleteInquiry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inquiries {
		if s.inquiries[i].ID == id {
			s.inquiries = append(s.inquiries[:i], s.inquiries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SetStatus(_ context.Context, id string, status domain.InquiryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inquiries {
		if s.inquiries[i].ID == id {
			s.inquiries[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) GetConfig(_ context.Context, defaults domain.NotificationConfig) (*domain.NotificationConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		cfg := defaults
		cfg.ID = domain.NotificationConfigID
		s.config = &cfg
	}
	cfg := *s.config
	return &cfg, nil
}

func (s *MemoryStore) SaveConfig(_ context.Context, cfg *domain.NotificationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *cfg
	row.ID = domain.NotificationConfigID
	row.UpdatedAt = time.Now().UTC()
	s.config = &row
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
