package services

import (
	"context"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"nexus/internal/config"
	"nexus/internal/metrics"
	apperrors "nexus/pkg/errors"
)

// Transport modes
const (
	ModeSES  = "ses"
	ModeSMTP = "smtp"
	ModeLog  = "log"
)

// Message is a rendered email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Receipt identifies a delivered (or, in log mode, recorded) message
type Receipt struct {
	MessageID string `json:"messageId"`
	Mode      string `json:"mode"`
}

// Transport delivers a rendered message and returns the provider's message id.
type Transport interface {
	Mode() string
	Deliver(ctx context.Context, msg Message) (string, error)
}

// EmailService handles sending emails
type EmailService struct {
	transport Transport
}

// NewEmailService creates a new email service on the given transport
func NewEmailService(transport Transport) *EmailService {
	return &EmailService{transport: transport}
}

// NewTransport picks the transport the configuration allows: SES when the
// AWS credentials look real, SMTP when enabled, log-only otherwise.
func NewTransport(cfg *config.EmailConfig) Transport {
	switch {
	case cfg.HasSESCredentials():
		log.Printf("[EMAIL] AWS SES configured (region=%s, sender=%s)", cfg.AWSRegion, cfg.SESSender)
		return NewSESTransport(cfg)
	case cfg.HasSMTPCredentials():
		log.Printf("[EMAIL] SMTP configured (host=%s:%d)", cfg.SMTPHost, cfg.SMTPPort)
		return NewSMTPTransport(cfg)
	default:
		log.Warn("[EMAIL] Mail credentials not set, running in log-only mode")
		return NewLogTransport()
	}
}

// Mode returns the active transport mode
func (s *EmailService) Mode() string {
	return s.transport.Mode()
}

// Send delivers an HTML email with a plain text part derived from it. On
// transport failure the content is logged and the error is returned.
func (s *EmailService) Send(ctx context.Context, to, subject, htmlBody string) (*Receipt, error) {
	msg := Message{
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
		Text:    StripTags(htmlBody),
	}
	mode := s.transport.Mode()

	id, err := s.transport.Deliver(ctx, msg)
	metrics.RecordNotification(mode, err)
	if err != nil {
		log.WithError(err).Errorf("[EMAIL] %s delivery to %s failed", mode, to)
		logMessage("[EMAIL] Fallback, message not delivered", msg)
		return nil, apperrors.Transport("Failed to send email", err)
	}

	log.Printf("[EMAIL] Sent via %s to %s (id=%s)", mode, to, id)
	return &Receipt{MessageID: id, Mode: mode}, nil
}

// SendEmailInput is the payload of a direct transactional send
type SendEmailInput struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	HTML           string `json:"html"`
}

// Dispatch validates a direct send request and delivers it. Transport
// failures are returned to the caller.
func (s *EmailService) Dispatch(ctx context.Context, in SendEmailInput) (*Receipt, error) {
	in.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
	if err := requireFields("recipientEmail", in.RecipientEmail, "subject", in.Subject, "html", in.HTML); err != nil {
		return nil, validationError(err)
	}
	return s.Send(ctx, in.RecipientEmail, in.Subject, in.HTML)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes markup tags from an HTML body.
func StripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}

func logMessage(header string, msg Message) {
	rule := strings.Repeat("=", 60)
	log.Infof("%s\n%s\nTo: %s\nSubject: %s\n%s\n%s\n%s",
		header, rule, msg.To, msg.Subject, strings.Repeat("-", 60), msg.HTML, rule)
}
