package events

import (
	"context"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"
)

const subscriberBufferSize = 32

// Broadcaster fans events out to in-process subscribers such as open SSE streams.
// A subscriber that falls behind loses events instead of slowing the others down.
type Broadcaster struct {
	lock   sync.Mutex
	subs   map[int]chan cloudevents.Event
	nextID int
	closed bool
}

var _ Writer = (*Broadcaster)(nil)

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[int]chan cloudevents.Event{}}
}

// Subscribe returns a channel of events and a function that cancels the subscription.
// The channel is closed on cancel or when the broadcaster closes.
func (b *Broadcaster) Subscribe() (<-chan cloudevents.Event, func()) {
	b.lock.Lock()
	defer b.lock.Unlock()

	ch := make(chan cloudevents.Event, subscriberBufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *Broadcaster) Subscribers() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) Write(_ context.Context, _ string, e cloudevents.Event) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			zap.S().Named("broadcaster").Warnw("subscriber is lagging, event dropped", "subscriber", id, "type", e.Type())
		}
	}
	return nil
}

func (b *Broadcaster) Close(_ context.Context) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.closed = true
	return nil
}

// MultiWriter writes every event to each of its writers.
type MultiWriter []Writer

func (m MultiWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	var firstErr error
	for _, w := range m {
		if err := w.Write(ctx, topic, e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiWriter) Close(ctx context.Context) error {
	var firstErr error
	for _, w := range m {
		if err := w.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
