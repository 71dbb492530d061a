// Package registry is the handle table every runtime object lives in.
//
// A Table maps an opaque Handle to one exclusively owned object. The table
// lock covers only the map itself; each entry carries its own mutex, held
// for the duration of the closure passed to With or Do. Closures may call
// into other tables but must not look up an entry of the table they run in
// by the same handle.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Handle identifies an object. Zero is the null handle.
type Handle uint64

// Null is the reserved invalid handle.
const Null Handle = 0

// ErrNotExist is returned when a handle is null, unknown or destroyed.
var ErrNotExist = errors.New("registry: object does not exist")

// Counter allocates handles. Values start at 1 and are never reused.
// Tables sharing a Counter never hand out the same handle.
type Counter struct {
	last atomic.Uint64
}

// Next returns a fresh handle.
func (c *Counter) Next() Handle {
	return Handle(c.last.Add(1))
}

type entry[T any] struct {
	mu   sync.Mutex
	obj  T
	dead bool
}

// Table is a concurrent handle table for one object family.
type Table[T any] struct {
	name    string
	counter *Counter

	mu      sync.RWMutex
	entries map[Handle]*entry[T]
}

// New creates a table. A nil counter gives the table a private one.
func New[T any](name string, counter *Counter) *Table[T] {
	if counter == nil {
		counter = &Counter{}
	}
	return &Table[T]{
		name:    name,
		counter: counter,
		entries: make(map[Handle]*entry[T]),
	}
}

// Name returns the family name given to New.
func (t *Table[T]) Name() string { return t.name }

// Create stores obj under a fresh handle.
func (t *Table[T]) Create(obj T) Handle {
	h := t.counter.Next()
	t.mu.Lock()
	t.entries[h] = &entry[T]{obj: obj}
	t.mu.Unlock()
	return h
}

// Insert reserves a handle, builds the object with it and stores the result.
// If build fails nothing is stored; the reserved handle is not reused.
func (t *Table[T]) Insert(build func(h Handle) (T, error)) (Handle, error) {
	h := t.counter.Next()
	obj, err := build(h)
	if err != nil {
		return Null, err
	}
	t.mu.Lock()
	t.entries[h] = &entry[T]{obj: obj}
	t.mu.Unlock()
	return h, nil
}

func (t *Table[T]) lookup(h Handle) (*entry[T], bool) {
	if h == Null {
		return nil, false
	}
	t.mu.RLock()
	e, ok := t.entries[h]
	t.mu.RUnlock()
	return e, ok
}

// With runs fn with exclusive access to the object behind h and returns
// whatever fn returns. It fails with ErrNotExist if there is no such object.
func With[T, R any](t *Table[T], h Handle, fn func(obj T) (R, error)) (R, error) {
	var zero R
	e, ok := t.lookup(h)
	if !ok {
		return zero, ErrNotExist
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return zero, ErrNotExist
	}
	return fn(e.obj)
}

// Do is With for closures that only report an error.
func (t *Table[T]) Do(h Handle, fn func(obj T) error) error {
	_, err := With(t, h, func(obj T) (struct{}, error) {
		return struct{}{}, fn(obj)
	})
	return err
}

// Destroy removes h and returns its object so the caller can release it.
// It waits for a closure running on the entry to finish. The second result
// is false if h was not live.
func (t *Table[T]) Destroy(h Handle) (T, bool) {
	var zero T
	if h == Null {
		return zero, false
	}
	t.mu.Lock()
	e, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	t.mu.Unlock()
	if !ok {
		return zero, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.dead = true
	obj := e.obj
	e.obj = zero
	return obj, true
}

// Has reports whether h is live.
func (t *Table[T]) Has(h Handle) bool {
	_, ok := t.lookup(h)
	return ok
}

// Len returns the number of live objects.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Handles returns the live handles in no particular order.
func (t *Table[T]) Handles() []Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		out = append(out, h)
	}
	return out
}
