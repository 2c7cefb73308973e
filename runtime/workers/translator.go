package workers

import (
	"context"
	"log/slog"

	"stage-link/domain"
	"stage-link/domain/event"
	"stage-link/notify"
	"stage-link/repositories"
)

// TranslatorWorker consumes domain events, translates them into
// notification records and persists them before handing them to the
// push router. Persistence always completes (or fails) before any push
// attempt; a failure here is logged and the event dropped — it never
// propagates back to the business operation that raised the event.
type TranslatorWorker struct {
	log           *slog.Logger
	repository    repositories.INotificationRepository
	events        <-chan event.DomainEvent
	notifications chan<- domain.Notification
	mailFeed      chan<- domain.Notification
	indexFeed     chan<- domain.Notification
}

func NewTranslatorWorker(log *slog.Logger,
	repository repositories.INotificationRepository,
	events <-chan event.DomainEvent,
	notifications, mailFeed, indexFeed chan<- domain.Notification) *TranslatorWorker {
	return &TranslatorWorker{
		log:           log,
		repository:    repository,
		events:        events,
		notifications: notifications,
		mailFeed:      mailFeed,
		indexFeed:     indexFeed,
	}
}

func (w *TranslatorWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping translator")
			return nil
		case evt := <-w.events:
			w.handle(ctx, evt)
		}
	}
}

func (w *TranslatorWorker) handle(ctx context.Context, evt event.DomainEvent) {
	n, err := notify.Translate(evt)
	if err != nil {
		// Programming error: an event kind without a mapping. Log and
		// drop, never fabricate a notification.
		w.log.Error("Unsupported event kind, dropping", "kind", evt.Kind(), "error", err)
		return
	}

	stored, err := w.repository.Append(n)
	if err != nil {
		w.log.Error("Persist failed, notification dropped",
			"mailbox", n.Mailbox(), "error", err)
		return
	}

	if !stored.SkipPush {
		select {
		case <-ctx.Done():
			return
		case w.notifications <- stored:
		}
	}

	// Side fan-outs are best-effort tees: a full feed drops, it never
	// stalls the push path.
	w.tee(w.mailFeed, stored, "mail")
	w.tee(w.indexFeed, stored, "index")
}

func (w *TranslatorWorker) tee(feed chan<- domain.Notification,
	n domain.Notification, name string) {
	if feed == nil {
		return
	}
	select {
	case feed <- n:
	default:
		w.log.Debug("Feed full, notification lost", "feed", name, "id", n.ID)
	}
}
