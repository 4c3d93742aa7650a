package database

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"nexus/internal/domain"
	"nexus/internal/metrics"
	apperrors "nexus/pkg/errors"
)

// Gateway serves every operation from the primary store and falls back to
// the in-process store when the primary fails. The two can diverge; the
// fallback is not a cache and is never reconciled.
type Gateway struct {
	primary  Store
	fallback *MemoryStore
	defaults domain.NotificationConfig

	mu   sync.Mutex
	mode StoreMode
	last time.Time
	now  func() time.Time
}

// NewGateway builds a gateway. primary may be nil when the durable store
// could not be opened; the gateway then runs on the fallback alone.
func NewGateway(primary Store, fallback *MemoryStore, defaults domain.NotificationConfig) *Gateway {
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	g := &Gateway{
		primary:  primary,
		fallback: fallback,
		defaults: defaults,
		mode:     ModePrimary,
		now:      time.Now,
	}
	if primary == nil {
		g.mode = ModeMemory
	}
	metrics.SetPrimaryStoreUp(primary != nil)
	return g
}

// Mode reports which backing served the most recent operation.
func (g *Gateway) Mode() StoreMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

func (g *Gateway) setMode(m StoreMode) {
	g.mu.Lock()
	g.mode = m
	g.mu.Unlock()
	metrics.SetPrimaryStoreUp(m == ModePrimary)
}

// nextCreatedAt returns a strictly increasing UTC timestamp so that
// newest-first ordering by time matches creation order.
func (g *Gateway) nextCreatedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.now().UTC()
	if !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	return t
}

// abandoned reports whether err came from the caller giving up rather than
// from the store.
func abandoned(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// run executes op on the primary, then on the fallback if the primary is
// missing or failed. ErrNotFound from either store is an answer, not a failure.
// A canceled or expired request never reaches the fallback.
func (g *Gateway) run(ctx context.Context, op string, fn func(Store) error) error {
	if g.primary != nil {
		err := fn(g.primary)
		if err == nil || errors.Is(err, ErrNotFound) {
			g.setMode(ModePrimary)
			return err
		}
		if abandoned(ctx, err) {
			return err
		}
		log.WithError(err).Warnf("[STORE] %s failed on primary store, serving from in-process fallback", op)
		metrics.RecordStoreFallback(op)
		g.setMode(ModeFallback)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(g.fallback)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return apperrors.Store("failed to "+op, err)
	}
	return err
}

// CreateInquiry persists a new inquiry with status new.
func (g *Gateway) CreateInquiry(ctx context.Context, fields InquiryFields) (*domain.Inquiry, error) {
	inquiry := domain.Inquiry{
		ID:        domain.NewInquiryID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Message:   fields.Message,
		Status:    domain.StatusNew,
		CreatedAt: g.nextCreatedAt(),
	}
	err := g.run(ctx, "create inquiry", func(s Store) error {
		row := inquiry
		return s.CreateInquiry(ctx, &row)
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// ListInquiries returns all inquiries, newest first.
func (g *Gateway) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	err := g.run(ctx, "list inquiries", func(s Store) error {
		var err error
		inquiries, err = s.ListInquiries(ctx)
		return err
	})
	if inquiries == nil {
		inquiries = []domain.Inquiry{}
	}
	return inquiries, err
}

// DeleteInquiry removes an inquiry. It returns ErrNotFound for unknown ids.
func (g *Gateway) DeleteInquiry(ctx context.Context, id string) error {
	return g.run(ctx, "delete inquiry", func(s Store) error {
		return s.DeleteInquiry(ctx, id)
	})
}

// SetStatus changes an inquiry's status. It returns ErrNotFound for unknown ids.
func (g *Gateway) SetStatus(ctx context.Context, id string, status domain.InquiryStatus) error {
	return g.run(ctx, "set status", func(s Store) error {
		return s.SetStatus(ctx, id, status)
	})
}

// GetConfig returns the notification config, materializing defaults on first read.
func (g *Gateway) GetConfig(ctx context.Context) (*domain.NotificationConfig, error) {
	var cfg *domain.NotificationConfig
	err := g.run(ctx, "get config", func(s Store) error {
		var err error
		cfg, err = s.GetConfig(ctx, g.defaults)
		return err
	})
	return cfg, err
}

// SaveConfig replaces the notification config. The fallback copy is always
// written so an outage later still serves the last saved values.
func (g *Gateway) SaveConfig(ctx context.Context, cfg *domain.NotificationConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.fallback.SaveConfig(ctx, cfg); err != nil {
		return apperrors.Store("failed to save config", err)
	}
	if g.primary == nil {
		return nil
	}
	if err := g.primary.SaveConfig(ctx, cfg); err != nil {
		if abandoned(ctx, err) {
			return err
		}
		log.WithError(err).Warn("[STORE] save config failed on primary store, kept in-process copy only")
		metrics.RecordStoreFallback("save config")
		g.setMode(ModeFallback)
		return nil
	}
	g.setMode(ModePrimary)
	return nil
}

// Ping checks the primary store. It succeeds when running on memory only.
func (g *Gateway) Ping(ctx context.Context) error {
	if g.primary == nil {
		return nil
	}
	return g.primary.Ping(ctx)
}
