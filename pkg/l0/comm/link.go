package comm

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Config defines buffer sizes of a Link.
type Config struct {
	RxCapacity int
	TxCapacity int
	Slots      int
}

// DefaultConfig returns the default Config.
func DefaultConfig() Config {
	return Config{
		RxCapacity: DefaultCapacity,
		TxCapacity: DefaultCapacity,
		Slots:      DefaultSlots,
	}
}

// Link owns the receive and transmit side of one peer-to-peer connection.
// Byte feeding, dispatching and building are serialized, so a packet is
// fully dispatched and answered before the next byte is decoded.
type Link struct {
	ReadWriter io.ReadWriter
	// IdleTimeout drops a partial packet if no byte is received within the
	// duration, 0 waits forever.
	IdleTimeout time.Duration

	decoder *Decoder
	builder *Builder
	mux     *Mux
	stats   *Stats
	lock    sync.Mutex

	dispatchErr error
	idleTimer   <-chan time.Time
}

// NewLink creates a Link with DefaultConfig.
func NewLink(rw io.ReadWriter) *Link {
	return NewLinkWith(rw, DefaultConfig())
}

// NewLinkWith creates a Link with conf.
func NewLinkWith(rw io.ReadWriter, conf Config) *Link {
	l := &Link{ReadWriter: rw, stats: &Stats{}}
	l.builder = NewBuilder(conf.TxCapacity)
	l.builder.Stats = l.stats
	l.mux = NewMux(conf.Slots, l.builder)
	l.mux.Stats = l.stats
	l.mux.Transmitter = l
	l.decoder = NewDecoder(conf.RxCapacity, HandlePayloadFunc(l.dispatch))
	return l
}

// Stats gets the statistics.
func (l *Link) Stats() *Stats {
	return l.stats
}

// Register registers a handler for hash.
func (l *Link) Register(hash byte, h FrameHandler) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.mux.Register(hash, h)
}

// Registered lists registered hashes.
func (l *Link) Registered() []byte {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.mux.Hashes()
}

// SetReplyHandler sets the handler for ACK/NACK frames nobody registered for.
func (l *Link) SetReplyHandler(h FrameHandler) {
	l.lock.Lock()
	l.mux.Replies = h
	l.lock.Unlock()
}

// Feed decodes one received byte. The returned error is a transmit error
// while sending replies, decoding errors are only reported in Status.
func (l *Link) Feed(b byte) (Status, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.feed(b)
}

func (l *Link) feed(b byte) (Status, error) {
	st := l.decoder.Decode(b)
	l.stats.CountStatus(st)
	if st.IsError() && st != StatusErrHeader {
		if glog.V(2) {
			glog.Infof("drop packet: %v", st)
		}
	}
	err := l.dispatchErr
	l.dispatchErr = nil
	return st, err
}

// FeedBytes decodes a chunk of received bytes.
func (l *Link) FeedBytes(p []byte) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	for _, b := range p {
		if _, err := l.feed(b); err != nil {
			return err
		}
	}
	return nil
}

func (l *Link) dispatch(payload []byte) {
	err := l.mux.Dispatch(payload)
	switch err {
	case nil:
	case ErrMalformedFrame:
		glog.Warningf("packet %x: %v", payload, err)
	default:
		l.dispatchErr = err
	}
}

// AddData queues a FrameData frame for the next Flush.
func (l *Link) AddData(hash, command byte, payload []byte) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.builder.AddData(hash, command, payload)
}

// AddRequest queues a frame without payload for the next Flush.
func (l *Link) AddRequest(t FrameType, hash, command byte) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.builder.AddRequest(t, hash, command)
}

// Flush sends all queued frames as one packet.
func (l *Link) Flush() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.mux.Flush()
}

// Send queues frames and flushes them. Frames not fitting into one packet
// are split into more packets, a single frame larger than the transmit
// capacity fails with ErrBufferFull.
func (l *Link) Send(frames ...Frame) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	for n := range frames {
		f := &frames[n]
		if !l.builder.Fits(f) && l.builder.Pending() > 0 {
			if err := l.mux.Flush(); err != nil {
				return err
			}
		}
		if err := l.builder.Add(f.Type, f.Hash, f.Command, f.Payload); err != nil {
			return err
		}
	}
	return l.mux.Flush()
}

// WritePacket implements PacketWriter.
func (l *Link) WritePacket(pkt []byte) error {
	if glog.V(3) {
		glog.Infof("SND %x", pkt)
	}
	_, err := l.ReadWriter.Write(pkt)
	return err
}

// Run reads from ReadWriter and decodes until ctx is done or read fails.
func (l *Link) Run(ctx context.Context) error {
	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, chunkCh, errCh)
	for {
		select {
		case chunk := <-chunkCh:
			if err := l.FeedBytes(chunk); err != nil {
				return err
			}
			l.restartIdleTimer()
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-l.idleTimer:
			l.idleTimer = nil
			l.expire()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	buf := make([]byte, 64)
	for {
		n, err := l.ReadWriter.Read(buf)
		if err != nil {
			errCh <- err
			return
		}
		if n == 0 {
			// read timeout of serial ports.
			continue
		}
		select {
		case chunkCh <- append([]byte(nil), buf[:n]...):
		case <-ctx.Done():
			return
		}
	}
}

func (l *Link) restartIdleTimer() {
	l.lock.Lock()
	busy := l.decoder.Busy()
	l.lock.Unlock()
	if busy && l.IdleTimeout > 0 {
		l.idleTimer = time.After(l.IdleTimeout)
	} else {
		l.idleTimer = nil
	}
}

func (l *Link) expire() {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.decoder.Busy() {
		l.decoder.Reset()
		l.stats.Add(CounterIdleTimeouts, 1)
		glog.Warningf("drop partial packet: %v", ErrIdleTimeout)
	}
}
