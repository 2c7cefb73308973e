//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"stage-link/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; supervision handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the
// Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// NotificationSink is one live connection's receiving end.
// Consume must respect ctx: the router bounds every send, a sink that
// cannot accept in time is dropped. Close tears the transport down with
// a reason visible to the client.
type NotificationSink interface {
	Consume(ctx context.Context, n domain.Notification) error
	Close(reason string)
}

// Subscriber pairs a sink with the connection that owns it, so the
// router can evict exactly the connection that failed.
type Subscriber struct {
	ConnectionID string
	Sink         NotificationSink
}

// IRegistry is the shared index of live subscriptions, keyed by mailbox
// address. Writers are connection subscribe/disconnect events, readers
// are deliver calls; operations on unrelated mailboxes never contend.
type IRegistry interface {
	SubscribersFor(addr domain.Address) []Subscriber
	Subscribe(connectionID string, addr domain.Address, sink NotificationSink)
	Unsubscribe(connectionID string, addr domain.Address)
	// Drop removes every subscription held by a connection. Called on
	// disconnect and when a push to that connection fails.
	Drop(connectionID string)
}
