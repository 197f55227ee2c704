package events

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", func() {
	It("pops messages in the order they were pushed", func() {
		b := newBuffer()

		b.PushBack(&message{Kind: ApprovalLogCreatedKind, Data: []byte("msg1")})
		b.PushBack(&message{Kind: ApprovalLogCreatedKind, Data: []byte("msg2")})
		b.PushBack(&message{Kind: ApprovalLogCreatedKind, Data: []byte("msg3")})
		Expect(b.Size()).To(Equal(3))
		Expect(b.head.Data).To(Equal([]byte("msg1")))
		Expect(b.tail.Data).To(Equal([]byte("msg3")))

		for _, want := range []string{"msg1", "msg2", "msg3"} {
			m := b.Pop()
			Expect(m).NotTo(BeNil())
			Expect(string(m.Data)).To(Equal(want))
		}

		Expect(b.Size()).To(Equal(0))
		Expect(b.head).To(BeNil())
		Expect(b.tail).To(BeNil())
		Expect(b.Pop()).To(BeNil())
	})

	It("accepts concurrent pushes", func() {
		b := newBuffer()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				b.PushBack(&message{Kind: JobFinishedKind, Data: []byte(fmt.Sprintf("%d", i))})
			}(i)
		}
		wg.Wait()

		Expect(b.Size()).To(Equal(50))
		n := 0
		for b.Pop() != nil {
			n++
		}
		Expect(n).To(Equal(50))
	})
})
