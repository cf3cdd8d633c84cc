package comm

// Buffer is a fixed capacity byte buffer. Writes past the capacity are
// rejected as a whole, the buffer never grows after creation.
type Buffer struct {
	data []byte
	n    int
}

// NewBuffer creates a Buffer with capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.n
}

// Available returns the number of bytes can still be written.
func (b *Buffer) Available() int {
	return len(b.data) - b.n
}

// Bytes returns the written bytes. The slice aliases the buffer and is
// only valid until the next modification.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.n]
}

// WriteByte appends one byte.
func (b *Buffer) WriteByte(c byte) error {
	if b.n >= len(b.data) {
		return ErrBufferFull
	}
	b.data[b.n] = c
	b.n++
	return nil
}

// Write appends all of p or nothing.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Available() {
		return 0, ErrBufferFull
	}
	copy(b.data[b.n:], p)
	b.n += len(p)
	return len(p), nil
}

// SetByte overwrites an already written byte.
func (b *Buffer) SetByte(i int, c byte) {
	b.Bytes()[i] = c
}

// Truncate discards all but the first n bytes.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.n {
		panic("comm: truncation out of range")
	}
	b.n = n
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.n = 0
}
