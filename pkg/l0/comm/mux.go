package comm

import (
	"fmt"

	"github.com/golang/glog"
)

// FrameHandler is called for each sub-frame routed to it.
// Replies are appended with w, the handler must not block.
type FrameHandler interface {
	HandleFrame(w FrameWriter, f *Frame)
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(FrameWriter, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(w FrameWriter, frame *Frame) {
	f(w, frame)
}

// PacketWriter writes a finalized packet.
type PacketWriter interface {
	WritePacket([]byte) error
}

// DefaultSlots is the default number of handler slots.
const DefaultSlots = 5

type muxSlot struct {
	hash    byte
	handler FrameHandler
}

// Mux routes sub-frames to handlers by hash and answers keep-alive probes
// and unknown hashes. ACK and NACK frames are never answered, even on the
// alive hash or an unknown hash.
type Mux struct {
	// Transmitter sends the replies built after each packet.
	Transmitter PacketWriter
	// Replies receives ACK/NACK frames for the alive hash or unregistered
	// hashes, they are never answered.
	Replies FrameHandler
	// Stats is optional.
	Stats *Stats

	builder *Builder
	slots   []muxSlot
}

// NewMux creates a Mux with a fixed number of slots, replies are
// accumulated in b.
func NewMux(slots int, b *Builder) *Mux {
	if slots <= 0 {
		panic(fmt.Sprintf("comm: invalid slots %d", slots))
	}
	return &Mux{builder: b, slots: make([]muxSlot, slots)}
}

// Builder returns the Builder replies are accumulated in.
func (m *Mux) Builder() *Builder {
	return m.builder
}

// Register fills the first free slot with the handler for hash.
func (m *Mux) Register(hash byte, h FrameHandler) error {
	if hash == AliveHash {
		return ErrReservedHash
	}
	if h == nil {
		panic("comm: nil handler")
	}
	free := -1
	for i := range m.slots {
		s := &m.slots[i]
		if s.handler == nil {
			if free < 0 {
				free = i
			}
			continue
		}
		if s.hash == hash {
			return ErrHashRegistered
		}
	}
	if free < 0 {
		return ErrTableFull
	}
	m.slots[free] = muxSlot{hash: hash, handler: h}
	return nil
}

// Lookup finds the handler registered for hash.
func (m *Mux) Lookup(hash byte) FrameHandler {
	for i := range m.slots {
		if s := &m.slots[i]; s.handler != nil && s.hash == hash {
			return s.handler
		}
	}
	return nil
}

// Hashes lists registered hashes in slot order.
func (m *Mux) Hashes() []byte {
	var hashes []byte
	for _, s := range m.slots {
		if s.handler != nil {
			hashes = append(hashes, s.hash)
		}
	}
	return hashes
}

// HandlePayload implements PayloadHandler.
func (m *Mux) HandlePayload(payload []byte) {
	if err := m.Dispatch(payload); err != nil {
		glog.Warningf("dispatch: %v", err)
	}
}

// Dispatch walks all sub-frames in payload, then sends the replies.
// Frames before a malformed one are still dispatched and answered.
func (m *Mux) Dispatch(payload []byte) (err error) {
	for p := payload; len(p) > 0; {
		var f Frame
		if f, p, err = NextFrame(p); err != nil {
			m.Stats.Add(CounterMalformed, 1)
			break
		}
		m.dispatchFrame(&f)
	}
	if txErr := m.Flush(); txErr != nil {
		return txErr
	}
	return
}

// Flush builds accumulated replies and sends them.
func (m *Mux) Flush() error {
	pkt, ok := m.builder.Build()
	if !ok {
		return nil
	}
	if m.Transmitter == nil {
		return nil
	}
	if err := m.Transmitter.WritePacket(pkt); err != nil {
		return err
	}
	m.Stats.Add(CounterSent, 1)
	return nil
}

func (m *Mux) dispatchFrame(f *Frame) {
	if glog.V(2) {
		glog.Infof("RCV %s", f)
	}
	if f.Hash != AliveHash {
		if h := m.Lookup(f.Hash); h != nil {
			m.Stats.Add(CounterFrames, 1)
			h.HandleFrame(m.builder, f)
			return
		}
	}
	if f.Type.IsReply() {
		if h := m.Replies; h != nil {
			h.HandleFrame(m.builder, f)
		}
		return
	}
	reply, counter := FrameNack, CounterNacks
	if f.Hash == AliveHash {
		reply, counter = FrameAck, CounterAcks
	}
	if err := m.builder.AddRequest(reply, f.Hash, f.Command); err != nil {
		glog.Warningf("drop %s for %s/%d: %v", reply, HashString(f.Hash), f.Command, err)
		return
	}
	m.Stats.Add(counter, 1)
}
