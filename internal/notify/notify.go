// Package notify delivers plain-text recommendation summaries to candidates.
// Delivery is best effort: failures are logged by the caller and never affect
// the recommendation response.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier sends text to a destination such as a phone number.
type Notifier interface {
	Send(ctx context.Context, text, destination string) error
}

// Error is a failed delivery.
type Error struct {
	Destination string
	Cause       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notification to %s failed: %v", e.Destination, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Noop is used when no provider is configured. Every send is skipped.
type Noop struct{}

func (Noop) Send(context.Context, string, string) error { return nil }

// Enabled reports whether n actually delivers anything.
func Enabled(n Notifier) bool {
	if n == nil {
		return false
	}
	_, noop := n.(Noop)
	return !noop
}

// DefaultSendTimeout bounds a single background delivery.
const DefaultSendTimeout = 15 * time.Second

// Dispatcher sends notifications in the background so callers never wait on
// the provider.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewDispatcher wraps notifier. A nil notifier behaves like Noop.
func NewDispatcher(notifier Notifier, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if notifier == nil {
		notifier = Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, logger: logger}
}

// Enabled reports whether dispatched messages are delivered.
func (d *Dispatcher) Enabled() bool { return Enabled(d.notifier) }

// Dispatch queues text for destination and returns immediately. It reports
// false when the message was skipped.
func (d *Dispatcher) Dispatch(text, destination string) bool {
	if !d.Enabled() || destination == "" || text == "" {
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// detached from the request: the response may already be written
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Send(ctx, text, destination); err != nil {
			d.logger.Warn("notification failed", zap.String("destination", Mask(destination)), zap.Error(err))
			return
		}
		d.logger.Info("notification sent", zap.String("destination", Mask(destination)))
	}()
	return true
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Mask hides all but the last four characters of a destination for logging.
func Mask(destination string) string {
	r := []rune(destination)
	if len(r) <= 4 {
		return "****"
	}
	for i := 0; i < len(r)-4; i++ {
		if r[i] != '+' {
			r[i] = '*'
		}
	}
	return string(r)
}
