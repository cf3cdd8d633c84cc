package comm

import "fmt"

// Status is the result of decoding one byte.
type Status int

// Decoding results.
const (
	StatusErrChecksum Status = -3
	StatusErrLength   Status = -2
	StatusErrHeader   Status = -1
	StatusPending     Status = 0
	StatusDone        Status = 1
)

// IsError indicates the byte terminated a packet with an error.
func (s Status) IsError() bool {
	return s < 0
}

// Err converts an error status to error, nil for others.
func (s Status) Err() error {
	switch s {
	case StatusErrHeader:
		return ErrHeader
	case StatusErrLength:
		return ErrLength
	case StatusErrChecksum:
		return ErrChecksum
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusErrHeader:
		return "header error"
	case StatusErrLength:
		return "length error"
	case StatusErrChecksum:
		return "checksum error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// PayloadHandler is called when a packet is received.
// The payload aliases the receive buffer and is only valid during the call.
type PayloadHandler interface {
	HandlePayload(payload []byte)
}

// HandlePayloadFunc is func type of PayloadHandler.
type HandlePayloadFunc func(payload []byte)

// HandlePayload implements PayloadHandler.
func (f HandlePayloadFunc) HandlePayload(payload []byte) {
	f(payload)
}

type decodeState int

const (
	stateAwaitHeader decodeState = iota // waiting for Header
	stateAwaitLength                    // waiting for payload length
	stateReadPayload                    // reading payload and the trailing checksum
)

// Decoder decodes packets from a stream fed one byte at a time.
// Each call to Decode does constant work without allocation.
type Decoder struct {
	Handler PayloadHandler

	state    decodeState
	buf      *Buffer
	declared int
	cks      byte
}

// NewDecoder creates a Decoder accepting payloads up to capacity bytes.
func NewDecoder(capacity int, h PayloadHandler) *Decoder {
	if capacity < 0 || capacity > MaxPayloadLen {
		panic(fmt.Sprintf("comm: invalid receive capacity %d", capacity))
	}
	return &Decoder{Handler: h, buf: NewBuffer(capacity)}
}

// Cap returns the receive capacity.
func (d *Decoder) Cap() int {
	return d.buf.Cap()
}

// Busy indicates a packet is partially received.
func (d *Decoder) Busy() bool {
	return d.state != stateAwaitHeader
}

// Reset drops any partial packet and waits for the next Header.
func (d *Decoder) Reset() {
	d.state = stateAwaitHeader
}

// Decode consumes one byte.
func (d *Decoder) Decode(b byte) Status {
	switch d.state {
	case stateAwaitHeader:
		if b != Header {
			return StatusErrHeader
		}
		d.state = stateAwaitLength
	case stateAwaitLength:
		if int(b) > d.buf.Cap() {
			d.state = stateAwaitHeader
			return StatusErrLength
		}
		d.declared, d.cks = int(b), 0
		d.buf.Reset()
		d.state = stateReadPayload
	case stateReadPayload:
		if d.buf.Len() < d.declared {
			// never fails, declared is checked against capacity.
			d.buf.WriteByte(b)
			d.cks += b
			return StatusPending
		}
		d.state = stateAwaitHeader
		if b != d.cks {
			return StatusErrChecksum
		}
		if h := d.Handler; h != nil {
			h.HandlePayload(d.buf.Bytes())
		}
		return StatusDone
	}
	return StatusPending
}
