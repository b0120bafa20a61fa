// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/danielhkuo/secret-draw/cliparse"
)

var (
	ErrNotConfigured = errors.New("email credentials missing")
)

// Mailer delivers the draw results and the admin notice
type Mailer interface {
	SendAssignment(ctx context.Context, to, giverName, receiverName string) error
	SendAdminNotice(ctx context.Context, to string) error
}

// SendFunc hands a built message to the transport
type SendFunc func(ctx context.Context, msg *mail.Msg) error

// SMTPMailer sends HTML mail over implicit-TLS SMTP with PLAIN auth
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	year     int
	send     SendFunc
}

func NewSMTPMailer(cfg cliparse.Config) *SMTPMailer {
	m := &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		year:     cfg.EventYear,
	}
	m.send = m.sendSMTP
	return m
}

// WithSender replaces the SMTP transport, e.g. with a recorder in tests
func (m *SMTPMailer) WithSender(send SendFunc) *SMTPMailer {
	m.send = send
	return m
}

func (m *SMTPMailer) SendAssignment(ctx context.Context, to, giverName, receiverName string) error {
	body, err := render(assignmentTemplate, assignmentData{
		Year:     m.year,
		Giver:    giverName,
		Receiver: receiverName,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("🎅 Tu Amigo Invisible %d es...", m.year)
	return m.deliver(ctx, to, subject, body)
}

func (m *SMTPMailer) SendAdminNotice(ctx context.Context, to string) error {
	body, err := render(adminNoticeTemplate, adminNoticeData{Year: m.year})
	if err != nil {
		return err
	}

	return m.deliver(ctx, to, "✨ ¡La Magia está lista! Registro completado", body)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, htmlBody string) error {
	if m.user == "" || m.password == "" {
		return ErrNotConfigured
	}

	msg, err := buildMessage(m.user, to, subject, htmlBody)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Info("email sent", "to", to)
	return nil
}

// buildMessage creates a single-part HTML message with an 8bit body
func buildMessage(from, to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return msg, nil
}

// sendSMTP delivers over TLS from the first byte (port 465 style)
func (m *SMTPMailer) sendSMTP(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTimeout(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}
