package events

import (
	"bytes"
	"context"
	"errors"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", func() {
	Context("write", func() {
		It("delivers events in order", func() {
			w := newTestWriter()
			ep := NewEventProducer(w, WithOutputTopic("topic"), WithSource("test"))

			Expect(ep.Write(context.TODO(), ApprovalLogCreatedKind, bytes.NewReader([]byte(`{"n":1}`)))).To(Succeed())
			Expect(ep.Write(context.TODO(), JobFinishedKind, bytes.NewReader([]byte(`{"n":2}`)))).To(Succeed())

			Eventually(w.Len).Should(Equal(2))
			msgs := w.Events()
			Expect(msgs[0].Type()).To(Equal(ApprovalLogCreatedKind))
			Expect(msgs[0].Source()).To(Equal("test"))
			Expect(string(msgs[0].Data())).To(Equal(`{"n":1}`))
			Expect(msgs[1].Type()).To(Equal(JobFinishedKind))
			Expect(w.Topics()).To(ConsistOf("topic", "topic"))

			Expect(ep.Close()).To(Succeed())
			Expect(w.closed).To(BeTrue())
		})

		It("keeps delivering after a writer error", func() {
			w := newTestWriter()
			w.failFirst = true
			ep := NewEventProducer(w)
			defer ep.Close()

			Expect(ep.Write(context.TODO(), ApprovalLogCreatedKind, bytes.NewReader([]byte(`{}`)))).To(Succeed())
			Expect(ep.Write(context.TODO(), ApprovalLogCreatedKind, bytes.NewReader([]byte(`{}`)))).To(Succeed())

			Eventually(w.Len).Should(Equal(1))
		})

		It("does not block the caller on a slow writer", func() {
			w := newTestWriter()
			w.gate = make(chan struct{})
			ep := NewEventProducer(w)

			for i := 0; i < 100; i++ {
				Expect(ep.Write(context.TODO(), ApprovalLogCreatedKind, bytes.NewReader([]byte(`{}`)))).To(Succeed())
			}

			close(w.gate)
			Eventually(w.Len).Should(Equal(100))
			Expect(ep.Close()).To(Succeed())
		})
	})
})

var _ = Describe("broadcaster", func() {
	It("fans events out to every subscriber", func() {
		b := NewBroadcaster()
		ch1, cancel1 := b.Subscribe()
		ch2, cancel2 := b.Subscribe()
		defer cancel2()
		Expect(b.Subscribers()).To(Equal(2))

		e := cloudevents.NewEvent()
		e.SetType(ApprovalLogCreatedKind)
		Expect(b.Write(context.TODO(), "topic", e)).To(Succeed())

		Expect((<-ch1).Type()).To(Equal(ApprovalLogCreatedKind))
		Expect((<-ch2).Type()).To(Equal(ApprovalLogCreatedKind))

		cancel1()
		Expect(b.Subscribers()).To(Equal(1))
		_, open := <-ch1
		Expect(open).To(BeFalse())
	})

	It("drops events for a lagging subscriber", func() {
		b := NewBroadcaster()
		ch, cancel := b.Subscribe()
		defer cancel()

		for i := 0; i < subscriberBufferSize+5; i++ {
			Expect(b.Write(context.TODO(), "topic", cloudevents.NewEvent())).To(Succeed())
		}
		Expect(ch).To(HaveLen(subscriberBufferSize))
	})

	It("closes subscriptions on close", func() {
		b := NewBroadcaster()
		ch, cancel := b.Subscribe()

		Expect(b.Close(context.TODO())).To(Succeed())
		_, open := <-ch
		Expect(open).To(BeFalse())
		cancel()

		late, _ := b.Subscribe()
		_, open = <-late
		Expect(open).To(BeFalse())
	})

	It("is fed by the producer through a multi writer", func() {
		b := NewBroadcaster()
		w := newTestWriter()
		ch, cancel := b.Subscribe()
		defer cancel()

		ep := NewEventProducer(MultiWriter{w, b})
		Expect(ep.Write(context.TODO(), JobFinishedKind, bytes.NewReader([]byte(`{}`)))).To(Succeed())

		Eventually(ch).Should(Receive())
		Eventually(w.Len).Should(Equal(1))
		Expect(ep.Close()).To(Succeed())
	})
})

type testwriter struct {
	lock      sync.Mutex
	events    []cloudevents.Event
	topics    []string
	failFirst bool
	gate      chan struct{}
	closed    bool
}

func newTestWriter() *testwriter {
	return &testwriter{}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	if t.gate != nil {
		<-t.gate
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if t.failFirst {
		t.failFirst = false
		return errors.New("broker unavailable")
	}
	t.events = append(t.events, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.closed = true
	return nil
}

func (t *testwriter) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.events)
}

func (t *testwriter) Events() []cloudevents.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]cloudevents.Event{}, t.events...)
}

func (t *testwriter) Topics() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string{}, t.topics...)
}
