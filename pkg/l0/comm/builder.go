package comm

import "fmt"

// FrameWriter appends sub-frames for the next outgoing packet.
type FrameWriter interface {
	// Add appends a frame of any type, payload is ignored unless it's FrameData.
	Add(t FrameType, hash, command byte, payload []byte) error
	// AddData appends a FrameData frame.
	AddData(hash, command byte, payload []byte) error
	// AddRequest appends a frame without payload (request, ack, nack, empty).
	AddRequest(t FrameType, hash, command byte) error
}

// Builder accumulates sub-frames into the transmit buffer and finalizes
// them as one packet.
type Builder struct {
	// Stats is optional, rejected frames are counted as overflows.
	Stats *Stats

	buf      *Buffer
	capacity int
}

// NewBuilder creates a Builder accumulating up to capacity payload bytes.
func NewBuilder(capacity int) *Builder {
	if capacity < FrameHeadLen || capacity > MaxPayloadLen {
		panic(fmt.Sprintf("comm: invalid transmit capacity %d", capacity))
	}
	b := &Builder{
		buf:      NewBuffer(HeaderLen + capacity + 1),
		capacity: capacity,
	}
	b.buf.WriteByte(Header)
	b.buf.WriteByte(0)
	return b
}

// Cap returns the transmit payload capacity.
func (b *Builder) Cap() int {
	return b.capacity
}

// Pending returns the number of accumulated payload bytes.
func (b *Builder) Pending() int {
	return b.buf.Len() - HeaderLen
}

// Fits tells whether f can be added without exceeding the capacity.
func (b *Builder) Fits(f *Frame) bool {
	return b.Pending()+f.Len() <= b.capacity
}

// Add implements FrameWriter.
func (b *Builder) Add(t FrameType, hash, command byte, payload []byte) error {
	if t != FrameData {
		payload = nil
	}
	frameLen := FrameHeadLen + len(payload)
	if b.Pending()+frameLen > b.capacity {
		b.Stats.Add(CounterOverflows, 1)
		return ErrBufferFull
	}
	b.buf.Write([]byte{byte(frameLen), byte(t), hash, command})
	b.buf.Write(payload)
	return nil
}

// AddData implements FrameWriter.
func (b *Builder) AddData(hash, command byte, payload []byte) error {
	return b.Add(FrameData, hash, command, payload)
}

// AddRequest implements FrameWriter.
func (b *Builder) AddRequest(t FrameType, hash, command byte) error {
	return b.Add(t, hash, command, nil)
}

// Build finalizes the accumulated frames into a packet and starts a new
// accumulation. It returns false if there's nothing to send.
// The packet aliases the transmit buffer and is valid until the next Add.
func (b *Builder) Build() ([]byte, bool) {
	n := b.Pending()
	if n <= 0 {
		return nil, false
	}
	b.buf.SetByte(1, byte(n))
	// one byte is always reserved for the checksum.
	b.buf.WriteByte(Checksum(b.buf.Bytes()[HeaderLen:]))
	pkt := b.buf.Bytes()
	// the header stays in place, the length slot is rewritten by next Build.
	b.buf.Truncate(HeaderLen)
	return pkt, true
}
