package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"stage-link/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewIndex(writer, slog.Default())
}

func indexed(t *testing.T, index *Index, title, message string, role domain.Role, recipientID string) domain.Notification {
	t.Helper()
	n := domain.Notification{
		ID:            uuid.New(),
		Title:         title,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
		RecipientRole: role,
		RecipientID:   recipientID,
	}
	require.NoError(t, index.Add(n))
	return n
}

func Test_Search_MatchesTitleAndMessage(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	mailbox := domain.MailboxAddress(domain.RoleStudent, "7")

	byTitle := indexed(t, index, "Nouvelle convocation en entrevue", "corps", domain.RoleStudent, "7")
	byMessage := indexed(t, index, "Autre titre", "convocation annulée", domain.RoleStudent, "7")
	indexed(t, index, "Sans rapport", "rien à voir", domain.RoleStudent, "7")

	hits, err := index.Search(context.Background(), mailbox, "convocation", 10)
	req.NoError(err)
	req.Len(hits, 2)

	ids := []string{hits[0].ID, hits[1].ID}
	req.ElementsMatch([]string{byTitle.ID.String(), byMessage.ID.String()}, ids)
}

func Test_Search_ScopedToMailbox(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	mine := indexed(t, index, "Nouvelle convocation en entrevue", "corps", domain.RoleStudent, "7")
	indexed(t, index, "Nouvelle convocation en entrevue", "corps", domain.RoleStudent, "8")
	indexed(t, index, "Nouvelle convocation en entrevue", "corps", domain.RoleEmployer, "7")

	hits, err := index.Search(context.Background(),
		domain.MailboxAddress(domain.RoleStudent, "7"), "convocation", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(mine.ID.String(), hits[0].ID)
}

func Test_Search_NoMatch(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	indexed(t, index, "Nouvelle convocation en entrevue", "corps", domain.RoleStudent, "7")

	hits, err := index.Search(context.Background(),
		domain.MailboxAddress(domain.RoleStudent, "7"), "introuvable", 10)
	req.NoError(err)
	req.Empty(hits)
}
