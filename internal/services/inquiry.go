package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	goa "goa.design/goa/v3/pkg"

	"nexus/internal/database"
	"nexus/internal/domain"
	"nexus/internal/metrics"
	apperrors "nexus/pkg/errors"
)

// InquiryStore is the persistence the inquiry flow needs
type InquiryStore interface {
	CreateInquiry(ctx context.Context, fields database.InquiryFields) (*domain.Inquiry, error)
	ListInquiries(ctx context.Context) ([]domain.Inquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.InquiryStatus) error
	GetConfig(ctx context.Context) (*domain.NotificationConfig, error)
}

// Mailer sends an HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (*Receipt, error)
}

// InquiryOptions control how unknown ids and statuses are reported
type InquiryOptions struct {
	StrictNotFound bool
	StrictStatus   bool
}

// SubmitInquiryInput is the contact form payload
type SubmitInquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// InquiryService implements the inquiry lifecycle
type InquiryService struct {
	store  InquiryStore
	mailer Mailer
	opts   InquiryOptions
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(store InquiryStore, mailer Mailer, opts InquiryOptions) *InquiryService {
	return &InquiryService{store: store, mailer: mailer, opts: opts}
}

// Submit persists an inquiry, confirms receipt to the submitter and alerts
// the admin when the notification config is active. Email failures are
// logged only; the inquiry stays persisted.
func (s *InquiryService) Submit(ctx context.Context, in SubmitInquiryInput) (*domain.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	log.Printf("[INQUIRY] Submit request: name=%s, email=%s", in.Name, in.Email)

	if err := validateInquiry(in); err != nil {
		log.Printf("[INQUIRY] Submit failed: validation error: %v", err)
		return nil, err
	}

	inquiry, err := s.store.CreateInquiry(ctx, database.InquiryFields{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	})
	if err != nil {
		log.WithError(err).Error("[INQUIRY] Submit failed: could not persist inquiry")
		return nil, asStoreError("Failed to save inquiry", err)
	}
	log.Printf("[INQUIRY] Submit successful: id=%s, email=%s", inquiry.ID, inquiry.Email)
	metrics.RecordInquirySubmission()

	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		log.WithError(err).Warn("[INQUIRY] Could not load notification config, skipping admin alert")
	}

	subject, body := confirmationEmail(inquiry)
	if _, err := s.mailer.Send(ctx, inquiry.Email, subject, body); err != nil {
		log.WithError(err).Warnf("[INQUIRY] Confirmation email for inquiry id=%s not delivered", inquiry.ID)
	}

	if cfg.AlertsEnabled() {
		subject, body := adminAlertEmail(inquiry)
		if _, err := s.mailer.Send(ctx, cfg.Email, subject, body); err != nil {
			log.WithError(err).Warnf("[INQUIRY] Admin alert for inquiry id=%s not delivered", inquiry.ID)
		}
	}

	return inquiry, nil
}

// List returns all inquiries, newest first
func (s *InquiryService) List(ctx context.Context) ([]domain.Inquiry, error) {
	inquiries, err := s.store.ListInquiries(ctx)
	if err != nil {
		log.WithError(err).Error("[INQUIRY] List failed")
		return nil, asStoreError("Failed to load inquiries", err)
	}
	log.Debugf("[INQUIRY] List successful: returned %d inquiries", len(inquiries))
	return inquiries, nil
}

// Delete removes an inquiry
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationError(goa.MissingFieldError("id", "path"))
	}
	err := s.store.DeleteInquiry(ctx, id)
	if err = s.notFound(err, id); err != nil {
		return err
	}
	log.Printf("[INQUIRY] Deleted inquiry id=%s", id)
	return nil
}

// UpdateStatus moves an inquiry to a new status
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status string) error {
	status = strings.TrimSpace(status)
	if err := requireFields("status", status); err != nil {
		return validationError(err)
	}
	st := domain.InquiryStatus(status)
	if s.opts.StrictStatus && !st.Valid() {
		return validationError(goa.InvalidEnumValueError("body.status", status, []any{
			string(domain.StatusNew), string(domain.StatusRead), string(domain.StatusArchived),
		}))
	}
	err := s.store.SetStatus(ctx, id, st)
	if err = s.notFound(err, id); err != nil {
		return err
	}
	log.Printf("[INQUIRY] Status of inquiry id=%s set to %s", id, st)
	return nil
}

// notFound applies the configured policy for unknown ids.
func (s *InquiryService) notFound(err error, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrNotFound) {
		if s.opts.StrictNotFound {
			return apperrors.NotFound(fmt.Sprintf("inquiry %q not found", id))
		}
		log.Debugf("[INQUIRY] Unknown inquiry id=%s treated as success", id)
		return nil
	}
	return asStoreError("Failed to update inquiry", err)
}

func validateInquiry(in SubmitInquiryInput) error {
	return validationError(requireFields("name", in.Name, "email", in.Email, "message", in.Message))
}

func asStoreError(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.Wrap(appErr.Code, message, err)
	}
	return apperrors.Store(message, err)
}
