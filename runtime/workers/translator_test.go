package workers

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"stage-link/domain"
	"stage-link/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeRepository records appended notifications and can be forced to fail.
type fakeRepository struct {
	appended []domain.Notification
	fail     error
}

func (f *fakeRepository) Append(n domain.Notification) (domain.Notification, error) {
	if f.fail != nil {
		return domain.Notification{}, f.fail
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	f.appended = append(f.appended, n)
	return n, nil
}

func (f *fakeRepository) ListFor(domain.Role, string, *string) ([]domain.Notification, *string, error) {
	panic("not used")
}

func Test_Translator_PersistsBeforePush(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{}
	notifications := make(chan domain.Notification, 1)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, nil, nil)

	worker.handle(context.Background(), event.ConvocationCreated{
		StudentID:  "7",
		Enterprise: "Acme",
		Location:   "Montréal",
	})

	req.Len(repository.appended, 1)
	pushed := <-notifications
	// The pushed record carries the identity assigned at persist time
	req.NotEqual(uuid.Nil, pushed.ID)
	req.Equal(domain.RoleStudent, pushed.RecipientRole)
	req.Equal("7", pushed.RecipientID)
}

func Test_Translator_PersistFailureDropsEvent(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{fail: errors.New("disk full")}
	notifications := make(chan domain.Notification, 1)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, nil, nil)

	worker.handle(context.Background(), event.ConvocationCreated{StudentID: "7"})

	req.Empty(notifications)
}

func Test_Translator_SkipPushStaysOutOfPushChannel(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{}
	notifications := make(chan domain.Notification, 1)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, nil, nil)

	worker.handle(context.Background(), event.RecommendationAssigned{
		ManagerID:   "3",
		StudentName: "Alice Tremblay",
	})

	// Persisted for history, never delivered live
	req.Len(repository.appended, 1)
	req.Empty(notifications)
}

func Test_Translator_TeesToSideFeeds(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{}
	notifications := make(chan domain.Notification, 1)
	mailFeed := make(chan domain.Notification, 1)
	indexFeed := make(chan domain.Notification, 1)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, mailFeed, indexFeed)

	worker.handle(context.Background(), event.ConvocationAnswered{
		EmployerID:  "12",
		StudentName: "Alice Tremblay",
		Accepted:    true,
	})

	req.Len(mailFeed, 1)
	req.Len(indexFeed, 1)
}

func Test_Translator_FullSideFeedNeverBlocks(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{}
	notifications := make(chan domain.Notification, 2)
	// Zero capacity with no reader: a blocking tee would deadlock here
	mailFeed := make(chan domain.Notification)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, mailFeed, nil)

	done := make(chan struct{})
	go func() {
		worker.handle(context.Background(), event.ConvocationCreated{StudentID: "7"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("translator blocked on a full side feed")
	}
	req.Len(notifications, 1)
}

type unknownEvent struct{}

func (unknownEvent) Kind() event.Kind { return "SomethingElse" }

func Test_Translator_UnsupportedKindDropped(t *testing.T) {
	req := require.New(t)
	repository := &fakeRepository{}
	notifications := make(chan domain.Notification, 1)
	worker := NewTranslatorWorker(slog.Default(), repository, nil, notifications, nil, nil)

	worker.handle(context.Background(), unknownEvent{})

	req.Empty(repository.appended)
	req.Empty(notifications)
}
