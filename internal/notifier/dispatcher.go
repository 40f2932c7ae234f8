package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const dispatchTimeout = 30 * time.Second

// Dispatcher sends notifications without blocking the caller. Delivery is
// best-effort: a failure is logged, never surfaced to the request that
// triggered it, never retried, and never rolls back the state change that
// caused it.
type Dispatcher struct {
	notifier Notifier
	wg       sync.WaitGroup
}

// NewDispatcher wraps a notifier with async dispatch.
func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Dispatch queues a message for delivery and returns immediately.
func (d *Dispatcher) Dispatch(to, subject, htmlBody string) {
	if d == nil || d.notifier == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := d.notifier.Send(ctx, to, subject, htmlBody); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
			}).Warn("failed to send notification email")
		}
	}()
}

// Wait blocks until all in-flight deliveries finish. Used by tests and
// graceful shutdown.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
