package search

import (
	"context"
	"log/slog"

	"stage-link/domain"
)

// Worker feeds the index from the dispatcher's tee. Indexing failures
// are logged and skipped; the durable history remains the source of
// truth.
type Worker struct {
	log   *slog.Logger
	index *Index
	feed  <-chan domain.Notification
}

func NewWorker(log *slog.Logger, index *Index, feed <-chan domain.Notification) *Worker {
	return &Worker{log: log, index: index, feed: feed}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping search indexer")
			return nil
		case n := <-w.feed:
			if err := w.index.Add(n); err != nil {
				w.log.Error("Indexing failed, notification skipped",
					"id", n.ID, "error", err)
			}
		}
	}
}
