package notifier

import (
	"context"
	"errors"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier delivers mail through an SMTP relay.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier creates an SMTP-backed notifier.
func NewSMTPNotifier(host string, port int, username, password, from string) (*SMTPNotifier, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.New("smtp host must not be empty")
	}
	if strings.TrimSpace(from) == "" {
		from = username
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("smtp sender address must not be empty")
	}
	if port <= 0 {
		port = 587
	}
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}, nil
}

// Send delivers a single HTML message.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	if n == nil || n.dialer == nil {
		return errors.New("smtp notifier not initialised")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("recipient address must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return n.dialer.DialAndSend(msg)
}
