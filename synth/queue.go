package synth

import (
	"sync/atomic"

	"github.com/keysynth/keysynth/parameter"
)

// EventQueue is a lock-free SPSC ring buffer for note events
// Thread-Safety:
//   - Push: single producer (MIDI ingestion)
//   - DrainInto: single consumer (render loop)
//
// Overflow: the incoming event is dropped and counted; the producer
// never stalls and queued events are never overwritten
type EventQueue struct {
	events  [parameter.EventQueueSize]NoteEvent
	head    atomic.Uint64 // Read index, consumer only
	tail    atomic.Uint64 // Write index, producer only
	dropped atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds an event without blocking. Returns false when the queue is
// full; the event is discarded and the dropped tally incremented
func (q *EventQueue) Push(ev NoteEvent) bool {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail-head >= parameter.EventQueueSize {
		q.dropped.Add(1)
		return false
	}
	q.events[tail&parameter.EventBufferMask] = ev
	q.tail.Store(tail + 1) // publishes the slot write
	return true
}

// DrainInto copies all pending events into dst in FIFO order and
// advances the read index. Returns the number copied. Performs no
// allocation; dst is the consumer's scratch buffer
func (q *EventQueue) DrainInto(dst []NoteEvent) int {
	head := q.head.Load()
	tail := q.tail.Load()

	n := int(tail - head)
	if n == 0 {
		return 0
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = q.events[(head+uint64(i))&parameter.EventBufferMask]
	}
	q.head.Store(head + uint64(n))
	return n
}

// Len returns the pending event count
func (q *EventQueue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	return int(tail - head)
}

// Dropped returns the total number of events discarded on overflow
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
