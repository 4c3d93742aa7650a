package services

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"

	"nexus/internal/config"
)

const charsetUTF8 = "UTF-8"

// LogTransport records messages instead of sending them
type LogTransport struct {
	now func() time.Time
}

// NewLogTransport creates a log-only transport
func NewLogTransport() *LogTransport {
	return &LogTransport{now: time.Now}
}

func (t *LogTransport) Mode() string { return ModeLog }

// Deliver always succeeds and returns a dev-mode message id.
func (t *LogTransport) Deliver(_ context.Context, msg Message) (string, error) {
	logMessage("[EMAIL] [DEVELOPMENT MODE] Email would be sent", msg)
	return "dev-mode-" + strconv.FormatInt(t.now().UnixMilli(), 10), nil
}

// sesAPI is the part of the SES v2 client the transport uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport sends through Amazon SES v2
type SESTransport struct {
	client sesAPI
	sender string
}

// NewSESTransport creates an SES transport with static credentials
func NewSESTransport(cfg *config.EmailConfig) *SESTransport {
	client := sesv2.New(sesv2.Options{
		Region:      cfg.AWSRegion,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
		// a failed send is reported once, never retried
		Retryer: aws.NopRetryer{},
	})
	return &SESTransport{client: client, sender: cfg.SESSender}
}

func (t *SESTransport) Mode() string { return ModeSES }

func (t *SESTransport) Deliver(ctx context.Context, msg Message) (string, error) {
	out, err := t.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(t.sender),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		ReplyToAddresses: []string{t.sender},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charsetUTF8)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charsetUTF8)},
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String(charsetUTF8)},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPTransport sends multipart/alternative mail over SMTP
type SMTPTransport struct {
	cfg      *config.EmailConfig
	sendMail sendMailFunc
}

// NewSMTPTransport creates an SMTP transport
func NewSMTPTransport(cfg *config.EmailConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg, sendMail: smtp.SendMail}
}

func (t *SMTPTransport) Mode() string { return ModeSMTP }

func (t *SMTPTransport) Deliver(_ context.Context, msg Message) (string, error) {
	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.SMTPHost)
	id := uuid.NewString()

	addr := fmt.Sprintf("%s:%d", t.cfg.SMTPHost, t.cfg.SMTPPort)
	if err := t.sendMail(addr, auth, t.cfg.FromEmail, []string{msg.To}, t.build(id, msg)); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return "smtp-" + id, nil
}

// build renders the MIME message with a text part and an HTML part.
func (t *SMTPTransport) build(id string, msg Message) []byte {
	from := t.cfg.FromEmail
	if t.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode(charsetUTF8, t.cfg.FromName), t.cfg.FromEmail)
	}
	boundary := "nexus-" + strings.ReplaceAll(id, "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", t.cfg.FromEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode(charsetUTF8, msg.Subject))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", id, t.cfg.SMTPHost)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(msg.HTML + "\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
