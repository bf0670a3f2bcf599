package action

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// defaultSMTPPort is used when the configuration does not set one.
const defaultSMTPPort uint16 = 25

// errEmailFieldsRequired rejects email actions missing mandatory fields.
var errEmailFieldsRequired = errors.New("'from', 'to' and 'smtp_server' cannot be empty")

// emailBackend sends the rendered subject and body through an SMTP relay.
// net/smtp has no context support, so a hanging relay connection is simply
// abandoned by the action wrapper on timeout.
type emailBackend struct {
	from     string
	to       string
	subject  string
	body     string
	server   string
	port     uint16
	username string
	password string
}

func newEmailBackend(cfg *config.Action) (*emailBackend, error) {
	if cfg.From == "" || cfg.To == "" || cfg.SMTPServer == "" {
		return nil, errEmailFieldsRequired
	}

	port := cfg.SMTPPort
	if port == 0 {
		port = defaultSMTPPort
	}

	return &emailBackend{
		from:     cfg.From,
		to:       cfg.To,
		subject:  cfg.Subject,
		body:     cfg.Body,
		server:   cfg.SMTPServer,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// Trigger renders the message and hands it to the SMTP relay.
func (b *emailBackend) Trigger(_ context.Context, placeholders placeholder.Map) error {
	var message strings.Builder

	message.WriteString("From: " + b.from + "\r\n")
	message.WriteString("To: " + b.to + "\r\n")
	message.WriteString("Subject: " + placeholder.Resolve(b.subject, placeholders) + "\r\n")
	message.WriteString("\r\n")
	message.WriteString(placeholder.Resolve(b.body, placeholders))

	var auth smtp.Auth
	if b.username != "" {
		auth = smtp.PlainAuth("", b.username, b.password, b.server)
	}

	address := fmt.Sprintf("%s:%d", b.server, b.port)
	if err := smtp.SendMail(address, auth, b.from, []string{b.to}, []byte(message.String())); err != nil {
		return fmt.Errorf("send mail via '%s': %w", address, err)
	}

	return nil
}
