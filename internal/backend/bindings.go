package backend

// Bindings is a fixed-capacity table of caller buffers indexed by tensor slot.
type Bindings struct {
	bufs  [MaxTensors][]byte
	bound [MaxTensors]bool
	count int
}

// Bind associates buf with slot index, replacing any earlier binding.
func (b *Bindings) Bind(index int, buf []byte) error {
	if index < 0 || index >= MaxTensors {
		return ErrIndexOutOfRange
	}
	b.bufs[index] = buf
	b.bound[index] = true
	if index >= b.count {
		b.count = index + 1
	}
	return nil
}

// Get returns the buffer bound to index.
func (b *Bindings) Get(index int) ([]byte, bool) {
	if index < 0 || index >= MaxTensors || !b.bound[index] {
		return nil, false
	}
	return b.bufs[index], true
}

// Count is one past the highest bound slot.
func (b *Bindings) Count() int { return b.count }

// Reset drops every binding.
func (b *Bindings) Reset() { *b = Bindings{} }

// CopyOut copies src into the buffer bound at index without overrunning
// either side and returns the number of bytes written.
func (b *Bindings) CopyOut(index int, src []byte) int {
	dst, ok := b.Get(index)
	if !ok {
		return 0
	}
	return copy(dst, src)
}

// Fill writes v into every byte of every bound buffer.
func (b *Bindings) Fill(v byte) {
	for i := 0; i < b.count; i++ {
		if !b.bound[i] {
			continue
		}
		buf := b.bufs[i]
		for j := range buf {
			buf[j] = v
		}
	}
}
