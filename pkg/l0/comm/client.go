package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// Request is a frame sent by Client.Do.
type Request struct {
	Type    FrameType
	Hash    byte
	Command byte
	Payload []byte
}

// Result is the result of a request using Do.
type Result struct {
	Err  error
	Type FrameType
	Data []byte
}

type callKey struct {
	hash    byte
	command byte
}

// Client provides host side request/response over a Link.
// Replies are matched to requests by hash and command in the order
// requests are sent.
type Client struct {
	link    *Link
	eventCh chan Frame
	calls   map[callKey][]chan Result
	lock    sync.Mutex
}

// NewClient creates client and wraps the link. Replies for the alive hash
// and hashes unknown to the link are always received, use Watch for
// other hashes.
func NewClient(link *Link) *Client {
	c := &Client{
		link:    link,
		eventCh: make(chan Frame, 16),
		calls:   make(map[callKey][]chan Result),
	}
	link.SetReplyHandler(c)
	return c
}

// Link gets the wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// EventChan retrieves frames not matching any pending request.
func (c *Client) EventChan() <-chan Frame {
	return c.eventCh
}

// Watch registers the client as the handler of hashes so Data replies
// for these hashes are delivered.
func (c *Client) Watch(hashes ...byte) error {
	for _, hash := range hashes {
		if err := c.link.Register(hash, c); err != nil {
			return err
		}
	}
	return nil
}

// DoWith sends a request and delivers the result to ch.
// ch must be buffered, it's written while the link is dispatching.
func (c *Client) DoWith(req Request, ch chan Result) {
	key := callKey{hash: req.Hash, command: req.Command}
	c.lock.Lock()
	c.calls[key] = append(c.calls[key], ch)
	c.lock.Unlock()
	err := c.link.Send(Frame{Type: req.Type, Hash: req.Hash, Command: req.Command, Payload: req.Payload})
	if err != nil {
		if c.cancel(key, ch) {
			ch <- Result{Err: err}
		}
	}
}

// Do sends a request and waits for the reply or ctx is done.
func (c *Client) Do(ctx context.Context, req Request) Result {
	ch := make(chan Result, 1)
	c.DoWith(req, ch)
	select {
	case r := <-ch:
		return r
	case <-ctx.Done():
		if c.cancel(callKey{hash: req.Hash, command: req.Command}, ch) {
			return Result{Err: ctx.Err()}
		}
		return <-ch
	}
}

// Ping sends a keep-alive probe and waits for the ACK.
func (c *Client) Ping(ctx context.Context, command byte) error {
	return c.Do(ctx, Request{Type: FrameRequest, Hash: AliveHash, Command: command}).Err
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

// HandleFrame implements FrameHandler.
func (c *Client) HandleFrame(w FrameWriter, f *Frame) {
	key := callKey{hash: f.Hash, command: f.Command}
	var ch chan Result
	if f.Type.IsReply() || f.Type == FrameData {
		c.lock.Lock()
		if q := c.calls[key]; len(q) > 0 {
			ch = q[0]
			if len(q) == 1 {
				delete(c.calls, key)
			} else {
				c.calls[key] = q[1:]
			}
		}
		c.lock.Unlock()
	}
	if ch == nil {
		c.publish(f)
		return
	}
	r := Result{Type: f.Type, Data: append([]byte(nil), f.Payload...)}
	if f.Type == FrameNack {
		r.Err = &NackError{Hash: f.Hash, Command: f.Command}
	}
	ch <- r
}

func (c *Client) publish(f *Frame) {
	ev := *f
	ev.Payload = append([]byte(nil), f.Payload...)
	select {
	case c.eventCh <- ev:
	default:
		if glog.V(1) {
			glog.Infof("drop event %s", f)
		}
	}
}

func (c *Client) cancel(key callKey, ch chan Result) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	q := c.calls[key]
	for i, pending := range q {
		if pending == ch {
			q = append(q[:i:i], q[i+1:]...)
			if len(q) == 0 {
				delete(c.calls, key)
			} else {
				c.calls[key] = q
			}
			return true
		}
	}
	return false
}
