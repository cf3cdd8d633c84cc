package comm

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chanConn is one end of an in-memory connection with buffered writes,
// like serial ports and sockets, writing never waits for the reader.
type chanConn struct {
	rx      <-chan []byte
	tx      chan<- []byte
	pending []byte
	done    chan struct{}
	once    *sync.Once
}

func newChanPipe() (*chanConn, *chanConn) {
	ab, ba := make(chan []byte, 256), make(chan []byte, 256)
	done, once := make(chan struct{}), &sync.Once{}
	return &chanConn{rx: ba, tx: ab, done: done, once: once},
		&chanConn{rx: ab, tx: ba, done: done, once: once}
}

func (c *chanConn) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		select {
		case c.pending = <-c.rx:
		case <-c.done:
			return 0, io.EOF
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *chanConn) Write(p []byte) (int, error) {
	select {
	case c.tx <- append([]byte{}, p...):
		return len(p), nil
	case <-c.done:
		return 0, io.ErrClosedPipe
	}
}

func (c *chanConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

type clientTestEnv struct {
	t      *testing.T
	client *Client
	peer   *Link
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// newClientTestEnv connects a client to a peer link answering hash 'M':
// requests are replied with data, data is acknowledged, command 0xff is
// ignored.
func newClientTestEnv(t *testing.T) *clientTestEnv {
	hostConn, peerConn := newChanPipe()
	env := &clientTestEnv{
		t:      t,
		client: NewClient(NewLink(hostConn)),
		peer:   NewLink(peerConn),
	}
	require.NoError(t, env.peer.Register('M', HandleFrameFunc(func(w FrameWriter, f *Frame) {
		switch {
		case f.Command == 0xff:
		case f.Type == FrameRequest:
			w.AddData(f.Hash, f.Command, []byte{f.Command, 1})
		case f.Type == FrameData:
			w.AddRequest(FrameAck, f.Hash, f.Command)
		}
	})))
	require.NoError(t, env.client.Watch('M'))

	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = func() {
		cancel()
		hostConn.Close()
		peerConn.Close()
		env.wg.Wait()
	}
	env.wg.Add(2)
	go func() {
		defer env.wg.Done()
		env.client.Run(ctx)
	}()
	go func() {
		defer env.wg.Done()
		env.peer.Run(ctx)
	}()
	return env
}

func (e *clientTestEnv) do(req Request) Result {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return e.client.Do(ctx, req)
}

func TestClientDo(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	r := env.do(Request{Type: FrameRequest, Hash: 'M', Command: 2})
	require.NoError(t, r.Err)
	require.Equal(t, FrameData, r.Type)
	require.Equal(t, []byte{2, 1}, r.Data)

	r = env.do(Request{Type: FrameData, Hash: 'M', Command: 3, Payload: []byte{1, 2, 3}})
	require.NoError(t, r.Err)
	require.Equal(t, FrameAck, r.Type)
	require.Empty(t, r.Data)
}

func TestClientPing(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.client.Ping(ctx, 7))
	require.Equal(t, uint64(1), env.peer.Stats().Get(CounterAcks))
}

func TestClientNack(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	r := env.do(Request{Type: FrameRequest, Hash: 'X', Command: 4})
	require.Equal(t, &NackError{Hash: 'X', Command: 4}, r.Err)
	require.Equal(t, FrameNack, r.Type)
}

func TestClientTimeout(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r := env.client.Do(ctx, Request{Type: FrameRequest, Hash: 'M', Command: 0xff})
	require.Equal(t, context.DeadlineExceeded, r.Err)

	env.client.lock.Lock()
	require.Empty(t, env.client.calls)
	env.client.lock.Unlock()
}

func TestClientParallel(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	results := make([]Result, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = env.do(Request{Type: FrameRequest, Hash: 'M', Command: byte(i + 1)})
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, []byte{byte(i + 1), 1}, r.Data)
	}
}

func TestClientEvents(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	require.NoError(t, env.peer.Send(Frame{Type: FrameData, Hash: 'M', Command: 0x10, Payload: []byte{5}}))
	select {
	case ev := <-env.client.EventChan():
		require.Equal(t, Frame{Type: FrameData, Hash: 'M', Command: 0x10, Payload: []byte{5}}, ev)
	case <-time.After(time.Second):
		t.Fatal("expect event timeout")
	}
}
