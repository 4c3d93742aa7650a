package database

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/domain"
)

func TestMemoryStoreSeedDemo(t *testing.T) {
	s := NewMemoryStore()
	s.SeedDemo()

	list, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Rahim Ahmed", list[0].Name)
	assert.Equal(t, "2023-10-24", list[0].Date())
	assert.Equal(t, domain.StatusRead, list[1].Status)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateInquiry(ctx, &domain.Inquiry{ID: "a", Name: "A", Status: domain.StatusNew}))

	list, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	again, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)
}

func TestMemoryStoreDeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateInquiry(ctx, &domain.Inquiry{ID: "a", Status: domain.StatusNew}))
	require.NoError(t, s.CreateInquiry(ctx, &domain.Inquiry{ID: "b", Status: domain.StatusNew}))

	require.NoError(t, s.SetStatus(ctx, "a", domain.StatusArchived))
	assert.ErrorIs(t, s.SetStatus(ctx, "zzz", domain.StatusRead), ErrNotFound)

	require.NoError(t, s.DeleteInquiry(ctx, "b"))
	assert.ErrorIs(t, s.DeleteInquiry(ctx, "b"), ErrNotFound)

	list, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusArchived, list[0].Status)
}

func TestMemoryStoreConfig(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cfg, err := s.GetConfig(ctx, testDefaults)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationConfigID, cfg.ID)
	assert.Equal(t, testDefaults.Email, cfg.Email)

	// Later defaults do not replace the materialized row
	cfg, err = s.GetConfig(ctx, domain.NotificationConfig{Email: "other@nexus.com"})
	require.NoError(t, err)
	assert.Equal(t, testDefaults.Email, cfg.Email)

	require.NoError(t, s.SaveConfig(ctx, &domain.NotificationConfig{ID: 9, Email: "new@nexus.com"}))
	cfg, err = s.GetConfig(ctx, testDefaults)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationConfigID, cfg.ID)
	assert.Equal(t, "new@nexus.com", cfg.Email)
	assert.False(t, cfg.IsActive)
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.CreateInquiry(ctx, &domain.Inquiry{ID: domain.NewInquiryID()})
		}()
	}
	wg.Wait()

	list, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
