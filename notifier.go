package tokenauth

import (
	"context"
	"time"
)

// Notifier delivers password reset tokens out of band, usually over email.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// NotifierFunc adapts a plain function to the Notifier interface
type NotifierFunc func(ctx context.Context, email, token string) error

func (f NotifierFunc) SendPasswordReset(ctx context.Context, email, token string) error {
	return f(ctx, email, token)
}

// PasswordResetNotification is a queued delivery request
type PasswordResetNotification struct {
	Email string
	Token string
}

// NotificationDispatcher fans password reset notifications out to a Notifier
// on a background worker. Enqueue never blocks the request path: when the
// queue is full the notification is dropped and logged, the HTTP response is
// unaffected either way.
type NotificationDispatcher struct {
	notifier Notifier
	queue    chan PasswordResetNotification
	done     chan struct{}
	timeout  time.Duration
	logger   Logger
	started  bool
}

// DefaultNotificationQueueSize bounds the pending delivery queue
const DefaultNotificationQueueSize = 64

// NewNotificationDispatcher creates a dispatcher. Call Start before
// enqueueing and Close during shutdown.
func NewNotificationDispatcher(notifier Notifier, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = DefaultNotificationQueueSize
	}
	return &NotificationDispatcher{
		notifier: notifier,
		queue:    make(chan PasswordResetNotification, queueSize),
		done:     make(chan struct{}),
		timeout:  10 * time.Second,
		logger:   defLogger{},
	}
}

func (d *NotificationDispatcher) WithLogger(l Logger) *NotificationDispatcher {
	if l != nil {
		d.logger = l
	}
	return d
}

// Start launches the delivery worker. Calling it twice is a no-op.
func (d *NotificationDispatcher) Start() {
	if d.started {
		return
	}
	d.started = true
	go d.run()
}

func (d *NotificationDispatcher) run() {
	defer close(d.done)

	for notification := range d.queue {
		d.deliver(notification)
	}
}

func (d *NotificationDispatcher) deliver(notification PasswordResetNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.SendPasswordReset(ctx, notification.Email, notification.Token); err != nil {
		d.logger.Error("password reset notification delivery failed", "email", notification.Email, "error", err)
	}
}

// Enqueue schedules a notification for delivery. Returns false when the
// queue is full and the notification was dropped.
func (d *NotificationDispatcher) Enqueue(notification PasswordResetNotification) bool {
	select {
	case d.queue <- notification:
		return true
	default:
		d.logger.Warn("notification queue full, dropping password reset notification", "email", notification.Email)
		return false
	}
}

// Close stops accepting notifications and waits for the worker to drain the
// queue. Safe to call even when Start never ran.
func (d *NotificationDispatcher) Close() {
	close(d.queue)
	if !d.started {
		return
	}
	<-d.done
}
