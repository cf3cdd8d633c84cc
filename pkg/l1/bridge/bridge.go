// Package bridge relays frames between a link and MQTT.
package bridge

import (
	"context"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l1/mqtt"
)

// Publisher publishes MQTT messages.
type Publisher interface {
	Pub(topic string, payload []byte) paho.Token
}

// FrameSender sends frames over a link.
type FrameSender interface {
	Send(frames ...comm.Frame) error
}

// Bridge publishes frames received from a link and sends frames published
// to the tx topics over the link.
type Bridge struct {
	Device string
	// Strict drops frames to send with payload length mismatching the catalog.
	Strict bool

	pub    Publisher
	sender FrameSender
}

// New creates a Bridge.
func New(device string, pub Publisher, sender FrameSender) *Bridge {
	return &Bridge{Device: device, pub: pub, sender: sender}
}

// EncodePayload wraps a frame payload for MQTT.
func EncodePayload(p []byte) ([]byte, error) {
	return proto.Marshal(&wrappers.BytesValue{Value: p})
}

// DecodePayload unwraps a frame payload from MQTT.
func DecodePayload(p []byte) ([]byte, error) {
	var v wrappers.BytesValue
	if err := proto.Unmarshal(p, &v); err != nil {
		return nil, err
	}
	return v.Value, nil
}

// HandleFrame implements comm.FrameHandler. It's called while the link is
// dispatching so it never waits for the broker.
func (b *Bridge) HandleFrame(w comm.FrameWriter, f *comm.Frame) {
	payload, err := EncodePayload(f.Payload)
	if err != nil {
		glog.Errorf("encode %s: %v", f, err)
		return
	}
	topic := TopicOf(b.Device, DirRx, f).String()
	if glog.V(2) {
		glog.Infof("PUB %q", topic)
	}
	b.pub.Pub(topic, payload)
}

// HandleMessage is the MQTT handler of tx topics.
func (b *Bridge) HandleMessage(topic string, payload []byte) {
	if err := b.send(topic, payload); err != nil {
		glog.Warningf("drop %q: %v", topic, err)
	}
}

func (b *Bridge) send(topic string, payload []byte) error {
	t, err := ParseTopic(topic)
	if err != nil {
		return err
	}
	if t.Device != b.Device || t.Dir != DirTx {
		return fmt.Errorf("not a tx topic of %s", b.Device)
	}
	f := comm.Frame{Type: t.Type, Hash: t.Hash, Command: t.Command}
	if f.Payload, err = DecodePayload(payload); err != nil {
		return err
	}
	if err = catalog.Validate(&f); err != nil {
		if b.Strict {
			return err
		}
		glog.Warningf("%s: %v", &f, err)
	}
	return b.sender.Send(f)
}

// Attach registers the bridge on a link for hashes and as the reply
// handler.
func (b *Bridge) Attach(link *comm.Link, hashes ...byte) error {
	for _, hash := range hashes {
		if err := link.Register(hash, b); err != nil {
			return fmt.Errorf("register %s: %v", comm.HashString(hash), err)
		}
	}
	link.SetReplyHandler(b)
	return nil
}

// Runner connects the MQTT queue and relays tx topics until done.
type Runner struct {
	Bridge *Bridge
	Queue  *mqtt.Queue
}

// NewRunner creates a Bridge publishing to q.
func NewRunner(device string, q *mqtt.Queue, sender FrameSender) *Runner {
	return &Runner{Bridge: New(device, q, sender), Queue: q}
}

// Run implements Runnable.
func (r *Runner) Run(ctx context.Context) error {
	sub := r.Queue.Sub(Filter(r.Bridge.Device, DirTx), r.Bridge.HandleMessage)
	token := r.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		sub.Close()
		return fmt.Errorf("MQTT connect: %v", err)
	}
	<-ctx.Done()
	// unsubscribe before disconnecting.
	if err := sub.Close(); err != nil {
		glog.Warningf("unsubscribe %s: %v", Filter(r.Bridge.Device, DirTx), err)
	}
	r.Queue.Close()
	return ctx.Err()
}
