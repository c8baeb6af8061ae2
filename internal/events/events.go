// Package events is the in-process pub/sub used to announce court mutations.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types published by the court service.
const (
	CourtCreated     = "court.created"
	CourtUpdated     = "court.updated"
	CourtDeleted     = "court.deleted"
	CourtBlocked     = "court.blocked"
	CourtUnblocked   = "court.unblocked"
	TemplateChanged  = "template.changed"
	RecurringChanged = "recurring.changed"
	PricingChanged   = "pricing.changed"
)

// AllTypes subscribes a handler to every event type.
const AllTypes = "*"

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	CourtID   int64
	Version   int64
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler errors are logged to logger when it is not nil.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for a given event type, or AllTypes.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.subscribers[AllTypes]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil && b.logger != nil {
			b.logger.Error().Err(err).Str("type", event.Type).Int64("court_id", event.CourtID).Msg("event handler failed")
		}
	}
}
