// Package runtime owns the live broker state and the event pipeline.
// It routes without containing business logic or domain rules.
package runtime

import (
	"hash/fnv"
	"sync"

	"stage-link/contract"
	"stage-link/domain"
)

const shardCount = 16

// shard holds the subscriptions for a slice of the address space.
// Each mailbox address maps to the sinks of its currently-subscribed
// connections.
type shard struct {
	mu          sync.RWMutex
	subscribers map[domain.Address]map[string]contract.NotificationSink
}

// Registry is the mailbox → live-connections index shared between the
// connection layer (writer) and the push router (reader). It is sharded
// by address hash so insert, remove and iterate-and-send on unrelated
// mailboxes never contend on one lock.
type Registry struct {
	shards [shardCount]*shard

	// connMu guards only the per-connection reverse index used to tear
	// a whole connection down; the delivery path never takes it.
	connMu      sync.Mutex
	connections map[string]map[domain.Address]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{connections: make(map[string]map[domain.Address]struct{})}
	for i := range r.shards {
		r.shards[i] = &shard{subscribers: make(map[domain.Address]map[string]contract.NotificationSink)}
	}
	return r
}

func (r *Registry) shardFor(addr domain.Address) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(addr))
	return r.shards[h.Sum32()%shardCount]
}

// SubscribersFor snapshots the current subscribers of one mailbox.
// The snapshot lets the router send outside any lock.
func (r *Registry) SubscribersFor(addr domain.Address) []contract.Subscriber {
	s := r.shardFor(addr)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sinks, ok := s.subscribers[addr]
	if !ok {
		return nil
	}
	subs := make([]contract.Subscriber, 0, len(sinks))
	for connectionID, sink := range sinks {
		subs = append(subs, contract.Subscriber{ConnectionID: connectionID, Sink: sink})
	}
	return subs
}

// Subscribe registers a connection's sink under a mailbox address.
// A connection may hold several subscriptions at once.
func (r *Registry) Subscribe(connectionID string, addr domain.Address,
	sink contract.NotificationSink) {
	s := r.shardFor(addr)
	s.mu.Lock()
	if _, ok := s.subscribers[addr]; !ok {
		s.subscribers[addr] = make(map[string]contract.NotificationSink)
	}
	s.subscribers[addr][connectionID] = sink
	s.mu.Unlock()

	r.connMu.Lock()
	if _, ok := r.connections[connectionID]; !ok {
		r.connections[connectionID] = make(map[domain.Address]struct{})
	}
	r.connections[connectionID][addr] = struct{}{}
	r.connMu.Unlock()
}

// Unsubscribe removes one subscription, leaving no empty map entries
// behind to prevent memory leaks over time.
func (r *Registry) Unsubscribe(connectionID string, addr domain.Address) {
	s := r.shardFor(addr)
	s.mu.Lock()
	if sinks, ok := s.subscribers[addr]; ok {
		delete(sinks, connectionID)
		if len(sinks) == 0 {
			delete(s.subscribers, addr)
		}
	}
	s.mu.Unlock()

	r.connMu.Lock()
	if addrs, ok := r.connections[connectionID]; ok {
		delete(addrs, addr)
		if len(addrs) == 0 {
			delete(r.connections, connectionID)
		}
	}
	r.connMu.Unlock()
}

// Stats reports live connection and subscription counts for the
// operator dashboard.
func (r *Registry) Stats() (connections, subscriptions int) {
	r.connMu.Lock()
	connections = len(r.connections)
	for _, addrs := range r.connections {
		subscriptions += len(addrs)
	}
	r.connMu.Unlock()
	return connections, subscriptions
}

// Drop removes every subscription held by a connection. Used on
// disconnect and when a push to that connection failed.
func (r *Registry) Drop(connectionID string) {
	r.connMu.Lock()
	addrs := r.connections[connectionID]
	delete(r.connections, connectionID)
	r.connMu.Unlock()

	for addr := range addrs {
		s := r.shardFor(addr)
		s.mu.Lock()
		if sinks, ok := s.subscribers[addr]; ok {
			delete(sinks, connectionID)
			if len(sinks) == 0 {
				delete(s.subscribers, addr)
			}
		}
		s.mu.Unlock()
	}
}
