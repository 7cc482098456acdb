package controller

import (
	"io"
	"net/http"
	"time"

	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/gin-gonic/gin"
)

// streamBuffer is how many events a slow client may lag behind before events are dropped.
const streamBuffer = 16

// EventSource is the subscribe side of the event broker.
type EventSource interface {
	SubscribeQuotesChanged(fn func(events.QuotesChangedEvent)) (func(), error)
	SubscribeFilterChanged(fn func(events.FilterChangedEvent)) (func(), error)
}

type sseMessage struct {
	name string
	data any
}

// EventsController streams change notifications as server-sent events.
type EventsController struct {
	source EventSource
}

func NewEventsController(s EventSource) *EventsController {
	return &EventsController{source: s}
}

// Stream handles GET /events. A "ready" event is sent once subscriptions are in place.
func (ec *EventsController) Stream(c *gin.Context) {
	log := logger.WithComponent("events-controller")
	ch := make(chan sseMessage, streamBuffer)
	offer := func(msg sseMessage) {
		select {
		case ch <- msg:
		default:
			log.Debugf("client too slow, dropping '%s' event", msg.name)
		}
	}

	unsubQuotes, err := ec.source.SubscribeQuotesChanged(func(ev events.QuotesChangedEvent) {
		offer(sseMessage{name: string(events.QuotesChanged), data: ev})
	})
	if err != nil {
		respondError(c, "events-controller", err)
		return
	}
	defer unsubQuotes()

	unsubFilter, err := ec.source.SubscribeFilterChanged(func(ev events.FilterChangedEvent) {
		offer(sseMessage{name: string(events.FilterChanged), data: ev})
	})
	if err != nil {
		respondError(c, "events-controller", err)
		return
	}
	defer unsubFilter()

	// Streams outlive the server write timeout.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		log.Debugf("write deadline not cleared: %v", err)
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"status": "subscribed"})
	c.Writer.Flush()
	log.Debug("client subscribed")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			log.Debug("client gone")
			return false
		case msg := <-ch:
			c.SSEvent(msg.name, msg.data)
			return true
		}
	})
}
