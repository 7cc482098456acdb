// Package events fans change notifications out to interested consumers
// (SSE clients, the CLI, tests) without the publisher waiting on them.
package events

import (
	"time"

	"github.com/bassista/go_quotes/internal/logger"
	messagebus "github.com/vardius/message-bus"
)

type Topic string

const (
	// QuotesChanged carries a QuotesChangedEvent after every collection mutation.
	QuotesChanged Topic = "quotes.changed"
	// FilterChanged carries a FilterChangedEvent after the category selection changes.
	FilterChanged Topic = "filter.changed"
)

// Reason names the operation that mutated the collection.
type Reason string

const (
	ReasonAdd    Reason = "add"
	ReasonImport Reason = "import"
	ReasonSync   Reason = "sync"
	ReasonReload Reason = "reload"
)

// QuotesChangedEvent describes one collection mutation.
type QuotesChangedEvent struct {
	Reason Reason    `json:"reason"`
	Added  int       `json:"added"`
	Total  int       `json:"total"`
	At     time.Time `json:"at"`
}

// FilterChangedEvent describes a new category selection.
type FilterChangedEvent struct {
	Selected string    `json:"selected"`
	At       time.Time `json:"at"`
}

// Publisher is the side of the broker mutating components depend on.
type Publisher interface {
	PublishQuotesChanged(ev QuotesChangedEvent)
	PublishFilterChanged(ev FilterChangedEvent)
}

// Broker is a topic based message bus. Handlers run on the bus goroutines.
type Broker struct {
	bus messagebus.MessageBus
}

// Compile-time interface check.
var _ Publisher = (*Broker)(nil)

// NewBroker creates a broker whose handlers each buffer up to queueSize messages.
func NewBroker(queueSize int) *Broker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Broker{bus: messagebus.New(queueSize)}
}

// SubscribeQuotesChanged registers fn; keep the returned func to unsubscribe.
func (b *Broker) SubscribeQuotesChanged(fn func(QuotesChangedEvent)) (func(), error) {
	return b.subscribe(QuotesChanged, fn)
}

// SubscribeFilterChanged registers fn; keep the returned func to unsubscribe.
func (b *Broker) SubscribeFilterChanged(fn func(FilterChangedEvent)) (func(), error) {
	return b.subscribe(FilterChanged, fn)
}

func (b *Broker) subscribe(topic Topic, fn interface{}) (func(), error) {
	if err := b.bus.Subscribe(string(topic), fn); err != nil {
		return nil, err
	}
	logger.WithComponent("events").Tracef("subscribed to '%s'", topic)
	return func() {
		if err := b.bus.Unsubscribe(string(topic), fn); err != nil {
			logger.WithComponent("events").Debugf("unsubscribe from '%s': %v", topic, err)
		}
	}, nil
}

func (b *Broker) PublishQuotesChanged(ev QuotesChangedEvent) {
	logger.WithComponent("events").Tracef("sending to '%s': %+v", QuotesChanged, ev)
	b.bus.Publish(string(QuotesChanged), ev)
}

func (b *Broker) PublishFilterChanged(ev FilterChangedEvent) {
	logger.WithComponent("events").Tracef("sending to '%s': %+v", FilterChanged, ev)
	b.bus.Publish(string(FilterChanged), ev)
}

// Close drops every subscriber of both topics.
func (b *Broker) Close() {
	b.bus.Close(string(QuotesChanged))
	b.bus.Close(string(FilterChanged))
}
