// Package search maintains a full-text index over notification history.
// The index is a best-effort side projection: it is fed after the
// durable append and a failed indexing never affects delivery.
package search

import (
	"context"
	"log/slog"
	"time"

	"stage-link/domain"

	"github.com/blugelabs/bluge"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// Hit is one search result, already scoped to the querying principal.
type Hit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Add indexes one notification under its recipient's mailbox term. The
// mailbox keyword is what keeps queries scoped to a single principal.
func (i *Index) Add(n domain.Notification) error {
	doc := bluge.NewDocument(n.ID.String()).
		AddField(bluge.NewTextField("title", n.Title).StoreValue()).
		AddField(bluge.NewTextField("message", n.Message).StoreValue()).
		AddField(bluge.NewKeywordField("mailbox", string(n.Mailbox()))).
		AddField(bluge.NewKeywordField("created_at", n.CreatedAt.Format(time.RFC3339Nano)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search matches terms against title and message, filtered to the given
// mailbox. Results never cross a principal boundary because the mailbox
// term is a hard conjunct, not a ranking hint.
func (i *Index) Search(ctx context.Context, mailbox domain.Address,
	terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	text := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("title")).
		AddShould(bluge.NewMatchQuery(terms).SetField("message")).
		SetMinShould(1)
	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(mailbox)).SetField("mailbox")).
		AddMust(text)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for match, err := iterator.Next(); match != nil; match, err = iterator.Next() {
		if err != nil {
			return nil, err
		}
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "title":
				hit.Title = string(value)
			case "message":
				hit.Message = string(value)
			case "created_at":
				if t, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.CreatedAt = t
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
