package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stage-link/contract"
	"stage-link/domain"
	"stage-link/domain/event"
	"stage-link/repositories"
	"stage-link/runtime/workers"
)

// Dispatcher wires the event pipeline: business operations push domain
// events in, the supervised translator persists their notifications and
// the push router fans them out to live subscribers. Dispatch is
// fire-and-forget so the producing transaction never blocks on, or fails
// because of, notification delivery.
type Dispatcher struct {
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	repository     repositories.INotificationRepository
	events         chan event.DomainEvent
	notifications  chan domain.Notification
	mailFeed       chan domain.Notification
	indexFeed      chan domain.Notification
	sinkTimeout    time.Duration
	metricInterval time.Duration
}

func NewDispatcher(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, repository repositories.INotificationRepository,
	bufferSize int, sinkTimeout, metricInterval time.Duration) *Dispatcher {
	return &Dispatcher{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		repository:     repository,
		events:         make(chan event.DomainEvent, bufferSize),
		notifications:  make(chan domain.Notification, bufferSize),
		mailFeed:       make(chan domain.Notification, bufferSize),
		indexFeed:      make(chan domain.Notification, bufferSize),
		sinkTimeout:    sinkTimeout,
		metricInterval: metricInterval,
	}
}

// Dispatch hands a domain event to the pipeline without blocking the
// caller. A full channel drops the event with a warning; the business
// operation that produced it has already succeeded.
func (d *Dispatcher) Dispatch(evt event.DomainEvent) {
	select {
	case d.events <- evt:
	default:
		d.log.Warn(fmt.Sprintf("Event channel full, dropping %s", evt.Kind()))
	}
}

// MailFeed is the best-effort tee consumed by the outbound mail worker.
func (d *Dispatcher) MailFeed() <-chan domain.Notification { return d.mailFeed }

// IndexFeed is the best-effort tee consumed by the search index worker.
func (d *Dispatcher) IndexFeed() <-chan domain.Notification { return d.indexFeed }

// Start registers the pipeline workers plus any extra consumers (mail,
// search index) and launches the supervisor. Returns immediately; the
// supervisor keeps the workers alive until ctx is canceled.
func (d *Dispatcher) Start(ctx context.Context, extra ...contract.Worker) {
	translator := workers.NewTranslatorWorker(d.log, d.repository,
		d.events, d.notifications, d.mailFeed, d.indexFeed)
	router := workers.NewPushRouter(d.log, d.registry, d.notifications, d.sinkTimeout)
	health := workers.NewHealthMonitoringWorker(d.log, d.metricInterval)

	d.supervisor.Add(translator, router, health)
	for _, w := range extra {
		d.supervisor.Add(w)
	}

	d.log.Info("Starting dispatcher and all supervised workers")
	go d.supervisor.Run(ctx)
}

// Stop cancels the supervised context; in-flight sends finish or time out.
func (d *Dispatcher) Stop() {
	d.log.Info("Requesting dispatcher shutdown")
	d.supervisor.Stop()
}
