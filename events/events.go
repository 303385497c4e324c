// Package events provides a typed in-process publish/subscribe bus.
// Subscribers run on background goroutines so a slow or failing subscriber
// never blocks or fails the operation that emitted the event.
package events

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vsharafi/store-api/api/background"
)

// Event is any value that knows the topic it belongs to.
type Event interface {
	Topic() string
}

type Handler func(ctx context.Context, event Event) error

type Bus struct {
	log logrus.FieldLogger
	bg  *background.Background

	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewBus(log logrus.FieldLogger, bg *background.Background) *Bus {
	return &Bus{
		log:  log,
		bg:   bg,
		subs: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish delivers the event to every subscriber of its topic, each on its
// own background task. Handler errors are logged, not propagated.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[event.Topic()]))
	copy(handlers, b.subs[event.Topic()])
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		b.bg.Add(func() error {
			return h(context.Background(), event)
		})
	}
}
