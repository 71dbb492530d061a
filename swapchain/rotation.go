package swapchain

import "github.com/davidrios/openxr-device-simulator/xr"

// Rotation tracks which images of a swapchain are available, acquired,
// waited on and released. Each image index is in exactly one of the four
// lists at any time.
type Rotation struct {
	available []uint32
	acquired  []uint32
	waited    []uint32
	released  []uint32
	total     uint32
}

// RotationState is a copy of the four lists.
type RotationState struct {
	Available []uint32
	Acquired  []uint32
	Waited    []uint32
	Released  []uint32
}

// NewRotation returns a rotation with indices 0..n-1 available.
func NewRotation(n uint32) *Rotation {
	r := &Rotation{available: make([]uint32, n), total: n}
	for i := range r.available {
		r.available[i] = uint32(i)
	}
	return r
}

// Len returns the fixed number of images.
func (r *Rotation) Len() uint32 { return r.total }

func popFront(s *[]uint32) (uint32, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	v := (*s)[0]
	*s = (*s)[1:]
	return v, true
}

// Acquire moves the oldest available image to the back of acquired.
func (r *Rotation) Acquire() (uint32, error) {
	i, ok := popFront(&r.available)
	if !ok {
		return 0, xr.Errorf(xr.ErrorCallOrderInvalid, "", "no image available")
	}
	r.acquired = append(r.acquired, i)
	return i, nil
}

// Wait moves the oldest acquired image to the front of waited.
func (r *Rotation) Wait() (uint32, error) {
	i, ok := popFront(&r.acquired)
	if !ok {
		return 0, xr.Errorf(xr.ErrorCallOrderInvalid, "", "no image acquired")
	}
	r.waited = append([]uint32{i}, r.waited...)
	return i, nil
}

// Release moves the front of waited to the back of released.
func (r *Rotation) Release() (uint32, error) {
	i, ok := popFront(&r.waited)
	if !ok {
		return 0, xr.Errorf(xr.ErrorCallOrderInvalid, "", "no image waited")
	}
	r.released = append(r.released, i)
	return i, nil
}

// Recycle returns every released image to the back of available, oldest
// first, and reports how many moved.
func (r *Rotation) Recycle() int {
	n := len(r.released)
	r.available = append(r.available, r.released...)
	r.released = nil
	return n
}

// Snapshot copies the current lists.
func (r *Rotation) Snapshot() RotationState {
	return RotationState{
		Available: append([]uint32(nil), r.available...),
		Acquired:  append([]uint32(nil), r.acquired...),
		Waited:    append([]uint32(nil), r.waited...),
		Released:  append([]uint32(nil), r.released...),
	}
}
