package event

import (
	"sync"

	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// VaryingSize is the body capacity of a Buffer. It holds the largest event.
const VaryingSize = 4000

// Buffer is the caller-owned structure a poll writes into. Next is never
// written by the runtime.
type Buffer struct {
	Type    xr.StructureType
	Next    uintptr
	Varying [VaryingSize]byte
}

// NewBuffer returns a buffer tagged for polling.
func NewBuffer() *Buffer {
	return &Buffer{Type: xr.TypeEventDataBuffer}
}

// Reset re-tags b for the next poll.
func (b *Buffer) Reset() { b.Type = xr.TypeEventDataBuffer }

// Queue is a FIFO of records. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	records []Record
}

// Push appends r.
func (q *Queue) Push(r Record) {
	q.mu.Lock()
	q.records = append(q.records, r)
	q.mu.Unlock()
}

// Pop removes and returns the oldest record.
func (q *Queue) Pop() (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.records) == 0 {
		return Record{}, false
	}
	r := q.records[0]
	q.records[0] = Record{}
	q.records = q.records[1:]
	if len(q.records) == 0 {
		q.records = nil
	}
	return r, true
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// Queues owns one Queue per instance.
type Queues struct {
	mu     sync.RWMutex
	queues map[xr.Instance]*Queue
}

// NewQueues returns an empty set of queues.
func NewQueues() *Queues {
	return &Queues{queues: make(map[xr.Instance]*Queue)}
}

// Create allocates the queue for inst. Creating an existing queue is a no-op.
func (qs *Queues) Create(inst xr.Instance) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if _, ok := qs.queues[inst]; !ok {
		qs.queues[inst] = &Queue{}
	}
}

// Remove drops the queue for inst along with any undelivered records.
func (qs *Queues) Remove(inst xr.Instance) {
	qs.mu.Lock()
	q, ok := qs.queues[inst]
	delete(qs.queues, inst)
	qs.mu.Unlock()
	if ok {
		if n := q.Len(); n > 0 {
			xrlog.Logger().Debug("event: dropping undelivered events", "instance", uint64(inst), "count", n)
		}
	}
}

// Len returns the number of queues.
func (qs *Queues) Len() int {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return len(qs.queues)
}

func (qs *Queues) get(inst xr.Instance) (*Queue, bool) {
	qs.mu.RLock()
	q, ok := qs.queues[inst]
	qs.mu.RUnlock()
	return q, ok
}

// Schedule serializes e and appends it to the queue of inst.
func (qs *Queues) Schedule(inst xr.Instance, e Event) error {
	q, ok := qs.get(inst)
	if !ok {
		return xr.ErrorInstanceLost
	}
	q.Push(Encode(e))
	xrlog.Logger().Debug("event: scheduled", "instance", uint64(inst), "type", e.Type().String())
	return nil
}

// Poll delivers the oldest event of inst into buf. It returns Success when
// an event was written and EventUnavailable when the queue is empty.
func (qs *Queues) Poll(inst xr.Instance, buf *Buffer) (xr.Result, error) {
	if buf == nil {
		return xr.ErrorValidationFailure, xr.Errorf(xr.ErrorValidationFailure, "", "nil event buffer")
	}
	if buf.Type != xr.TypeEventDataBuffer {
		return xr.ErrorValidationFailure, xr.Errorf(xr.ErrorValidationFailure, "", "buffer tagged %s", buf.Type)
	}
	q, ok := qs.get(inst)
	if !ok {
		return xr.ErrorInstanceLost, xr.ErrorInstanceLost
	}
	r, ok := q.Pop()
	if !ok {
		return xr.EventUnavailable, nil
	}
	buf.Type = r.Type
	copy(buf.Varying[:], r.Body)
	return xr.Success, nil
}
