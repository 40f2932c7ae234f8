package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier sends a templated email. Implementations decide the transport;
// callers decide whether delivery is awaited.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogNotifier writes outgoing mail to the log instead of delivering it.
// Default in development, where no SMTP credentials are configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the message and reports success.
func (n *LogNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    htmlBody,
	}).Info("outgoing email (log mode)")
	return nil
}
