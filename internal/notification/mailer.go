package notification

import (
	"context"
	"errors"
	"fmt"

	"ifitness/api/internal/config"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named by cfg.Provider.
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, cfg.From, logger), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTP, cfg.From, logger)
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// ResendMailer sends through the Resend transactional email API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendMailer(apiKey, from string, logger *zap.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.Named("resend"),
	}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		m.logger.Error("Resend API request failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("resend send: %w", err)
	}
	m.logger.Info("Email sent", zap.String("to", msg.To), zap.String("id", sent.Id))
	return nil
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, from string, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.New("SMTP configuration is incomplete: host and port are required")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		logger: logger.Named("smtp"),
	}, nil
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	gm.AddAlternative("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		m.logger.Error("Failed to send email via SMTP", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.Info("Email sent", zap.String("to", msg.To))
	return nil
}

// LogMailer only logs; the default in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("Email (not delivered)", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
