package bus

import (
	"sync"

	"go.uber.org/zap"
)

// Topic names an in-process signal.
type Topic string

const (
	// TopicDocumentsUpdated fires when the registrar's document catalogue
	// changed and cached reference data must be refetched.
	TopicDocumentsUpdated Topic = "documents.updated"
	// TopicStatsRefresh asks a dashboard audience to recompute statistics.
	TopicStatsRefresh Topic = "stats.refresh"
)

// StatsRefreshPayload scopes a stats refresh to one dashboard audience.
type StatsRefreshPayload struct {
	Audience string `json:"audience"` // "admin" or "staff"
}

// Event is a published signal with an optional payload.
type Event struct {
	Topic   Topic
	Payload interface{}
}

// Handler consumes events. Delivery is synchronous on the publisher's
// goroutine, so handlers must not block.
type Handler func(Event)

// Bus is a minimal typed publish/subscribe registry. It replaces ambient
// cross-component signalling with an injectable dependency.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]Handler
	logger *zap.Logger
}

// New constructs an empty bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Topic]map[int]Handler),
		logger: logger,
	}
}

// Subscribe registers a handler for a topic and returns a cancel function.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers the event to every current subscriber of its topic.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Topic]))
	for _, h := range b.subs[event.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	if len(handlers) > 0 {
		b.logger.Debug("bus_publish", zap.String("topic", string(event.Topic)), zap.Int("subscribers", len(handlers)))
	}
	for _, h := range handlers {
		h(event)
	}
}
