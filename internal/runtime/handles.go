package runtime

import (
	"sync"
	"sync/atomic"
)

// Handles maps opaque integer ids to Runtimes so that foreign callers never
// hold Go pointers. Id 0 is never issued and reads as the null handle.
type Handles struct {
	next atomic.Uintptr
	m    sync.Map
}

// Put registers r and returns its id.
func (h *Handles) Put(r *Runtime) uintptr {
	id := h.next.Add(1)
	h.m.Store(id, r)
	return id
}

// Get returns the Runtime for id, or nil when id is unknown or removed.
func (h *Handles) Get(id uintptr) *Runtime {
	if id == 0 {
		return nil
	}
	v, ok := h.m.Load(id)
	if !ok {
		return nil
	}
	return v.(*Runtime)
}

// Delete removes id and returns the Runtime it referred to, or nil.
func (h *Handles) Delete(id uintptr) *Runtime {
	if id == 0 {
		return nil
	}
	v, ok := h.m.LoadAndDelete(id)
	if !ok {
		return nil
	}
	return v.(*Runtime)
}

// Len counts registered handles.
func (h *Handles) Len() int {
	n := 0
	h.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
