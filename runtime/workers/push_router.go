package workers

import (
	"context"
	"log/slog"
	"time"

	"stage-link/contract"
	"stage-link/domain"
)

// PushRouter delivers persisted notifications to every connection
// currently subscribed to the addressed mailbox. Delivery is best-effort
// and at-most-once per connection: no retry, no queueing for absent
// subscribers (they catch up via history queries).
type PushRouter struct {
	log           *slog.Logger
	registry      contract.IRegistry
	notifications <-chan domain.Notification
	sendTimeout   time.Duration
}

func NewPushRouter(log *slog.Logger, registry contract.IRegistry,
	notifications <-chan domain.Notification, sendTimeout time.Duration) *PushRouter {
	return &PushRouter{
		log:           log,
		registry:      registry,
		notifications: notifications,
		sendTimeout:   sendTimeout,
	}
}

func (r *PushRouter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Context done, stopping push router")
			return nil
		case n := <-r.notifications:
			r.Deliver(ctx, n)
		}
	}
}

// Deliver sends to every subscriber of the notification's mailbox at
// call time. Each send is bounded by sendTimeout: a stuck connection is
// dropped from the registry and closed instead of stalling delivery for
// other recipients. Failures never reach the caller.
func (r *PushRouter) Deliver(ctx context.Context, n domain.Notification) {
	addr := n.Mailbox()
	for _, sub := range r.registry.SubscribersFor(addr) {
		sendCtx, cancel := context.WithTimeout(ctx, r.sendTimeout)
		err := sub.Sink.Consume(sendCtx, n)
		cancel()
		if err != nil {
			r.log.Warn("Dropping unresponsive subscriber",
				"mailbox", addr, "connection", sub.ConnectionID, "error", err)
			r.registry.Drop(sub.ConnectionID)
			sub.Sink.Close("delivery timeout")
		}
	}
}
