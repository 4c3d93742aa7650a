package database

import (
	"context"
	"errors"

	"nexus/internal/domain"
)

// ErrNotFound is returned when an inquiry id matches no record.
var ErrNotFound = errors.New("inquiry not found")

// Store is a backing for inquiries and the notification config.
type Store interface {
	CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) error
	// ListInquiries returns inquiries newest first.
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.InquiryStatus) error
	// GetConfig returns the config, creating it from defaults when absent.
	GetConfig(ctx context.Context, defaults domain.NotificationConfig) (*domain.NotificationConfig, error)
	SaveConfig(ctx context.Context, cfg *domain.NotificationConfig) error
	Ping(ctx context.Context) error
}

// StoreMode names the backing that served the latest gateway operation.
type StoreMode string

const (
	// ModePrimary means the durable store answered.
	ModePrimary StoreMode = "primary"
	// ModeFallback means the primary failed and the in-process store answered.
	ModeFallback StoreMode = "fallback"
	// ModeMemory means no primary store was available at startup.
	ModeMemory StoreMode = "memory"
)

// InquiryFields are the submitter-provided parts of an inquiry.
type InquiryFields struct {
	Name    string
	Email   string
	Message string
}
