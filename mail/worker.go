package mail

import (
	"context"
	"log/slog"

	"stage-link/domain"
	"stage-link/repositories"
)

// Worker drains the mail feed and emails each notification to its
// recipient. Best-effort: a failed lookup or send is logged and the
// notification skipped, the durable history already holds it.
type Worker struct {
	log       *slog.Logger
	sender    *Sender
	directory repositories.IUserRepository
	feed      <-chan domain.Notification
}

func NewWorker(log *slog.Logger, sender *Sender,
	directory repositories.IUserRepository, feed <-chan domain.Notification) *Worker {
	return &Worker{log: log, sender: sender, directory: directory, feed: feed}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping mail worker")
			return nil
		case n := <-w.feed:
			user, err := w.directory.FindByID(n.RecipientID)
			if err != nil {
				w.log.Warn("Mail recipient lookup failed",
					"recipient", n.RecipientID, "error", err)
				continue
			}
			if err := w.sender.Send(user.Email, n.Title, n.Message); err != nil {
				w.log.Warn("Mail delivery failed",
					"recipient", user.Email, "error", err)
			}
		}
	}
}
