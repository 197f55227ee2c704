package events

import (
	"context"
	"io"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ApprovalLogCreatedKind string = "esg.extraction.approval_log.created"
	JobFinishedKind        string = "esg.extraction.job.finished"
	defaultTopic           string = "esg.extraction.events"
	defaultSource          string = "esg.extraction.review"
)

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// EventProducer is a wrapper around a Writer with a buffer, so callers never wait on
// a slow writer. Events are delivered in order by a single goroutine.
type EventProducer struct {
	buffer    *buffer
	wakeCh    chan struct{}
	doneCh    chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
	writer    Writer
	topic     string
	source    string
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		buffer: newBuffer(),
		wakeCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
		exited: make(chan struct{}),
		writer: w,
		topic:  defaultTopic,
		source: defaultSource,
	}

	for _, o := range opts {
		o(ep)
	}

	go ep.run()
	return ep
}

func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	d, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	ep.buffer.PushBack(&message{
		Kind: kind,
		Data: d,
	})

	select {
	case ep.wakeCh <- struct{}{}:
	default:
		// the consumer already has a pending wake up
	}

	return nil
}

// Close stops delivery, drops undelivered events and closes the writer.
func (ep *EventProducer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ep.closeOnce.Do(func() { close(ep.doneCh) })

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		select {
		case <-ep.exited:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	g.Go(func() error {
		return ep.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Named("event_producer").Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event_producer").Info("event producer closed")

	return nil
}

func (ep *EventProducer) run() {
	defer close(ep.exited)

	for {
		select {
		case <-ep.doneCh:
			return
		case <-ep.wakeCh:
		}

		for {
			select {
			case <-ep.doneCh:
				return
			default:
			}

			msg := ep.buffer.Pop()
			if msg == nil {
				break
			}
			ep.send(msg)
		}
	}
}

func (ep *EventProducer) send(msg *message) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(ep.source)
	e.SetType(msg.Kind)
	e.SetTime(time.Now().UTC())
	_ = e.SetData(cloudevents.ApplicationJSON, msg.Data)

	if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
		zap.S().Named("event_producer").Errorw("failed to send event", "error", err, "type", msg.Kind)
	}
}
