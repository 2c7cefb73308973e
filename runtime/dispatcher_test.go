package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"stage-link/domain"
	"stage-link/domain/event"
	"stage-link/repositories"
	"stage-link/runtime/workers"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	received chan domain.Notification
}

func (s *recordingSink) Consume(_ context.Context, n domain.Notification) error {
	s.received <- n
	return nil
}

func (s *recordingSink) Close(string) {}

type pipelineHarness struct {
	dispatcher *Dispatcher
	registry   *Registry
	repository repositories.NotificationRepository
}

func newPipelineHarness(t *testing.T) *pipelineHarness {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	repository := repositories.NewNotificationRepository(db, log, nil)
	registry := NewRegistry()
	supervisor := workers.NewSupervisor(log, time.Millisecond)
	dispatcher := NewDispatcher(log, supervisor, registry, repository,
		16, time.Second, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	dispatcher.Start(ctx)

	return &pipelineHarness{dispatcher: dispatcher, registry: registry, repository: repository}
}

func Test_Pipeline_EventReachesSubscriberAndHistory(t *testing.T) {
	req := require.New(t)
	harness := newPipelineHarness(t)

	sink := &recordingSink{received: make(chan domain.Notification, 1)}
	harness.registry.Subscribe("conn-7", domain.MailboxAddress(domain.RoleStudent, "7"), sink)

	harness.dispatcher.Dispatch(event.ConvocationCreated{
		StudentID:  "7",
		Enterprise: "Acme",
		Location:   "Montréal",
	})

	var pushed domain.Notification
	select {
	case pushed = <-sink.received:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never reached the subscriber")
	}
	req.Equal("Nouvelle convocation en entrevue", pushed.Title)
	req.Equal("7", pushed.RecipientID)

	// Persisted before the push, so history already holds it
	history, _, err := harness.repository.ListFor(domain.RoleStudent, "7", nil)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(pushed.ID, history[0].ID)
}

func Test_Pipeline_SkipPushKindsOnlyReachHistory(t *testing.T) {
	req := require.New(t)
	harness := newPipelineHarness(t)

	sink := &recordingSink{received: make(chan domain.Notification, 1)}
	harness.registry.Subscribe("conn-3", domain.MailboxAddress(domain.RoleManager, "3"), sink)

	harness.dispatcher.Dispatch(event.RecommendationAssigned{
		ManagerID:   "3",
		StudentName: "Alice Tremblay",
		OfferTitle:  "Stage DevOps",
	})

	req.Eventually(func() bool {
		history, _, err := harness.repository.ListFor(domain.RoleManager, "3", nil)
		return err == nil && len(history) == 1
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case <-sink.received:
		t.Fatal("history-only notification was pushed live")
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Pipeline_OfflineRecipientCatchesUpViaHistory(t *testing.T) {
	req := require.New(t)
	harness := newPipelineHarness(t)

	// Nobody subscribed when the event fires
	harness.dispatcher.Dispatch(event.ConvocationAnswered{
		EmployerID:  "12",
		StudentName: "Alice Tremblay",
		Accepted:    true,
	})

	req.Eventually(func() bool {
		history, _, err := harness.repository.ListFor(domain.RoleEmployer, "12", nil)
		return err == nil && len(history) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
