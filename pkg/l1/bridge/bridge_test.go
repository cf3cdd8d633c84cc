package bridge

import (
	"bytes"
	"context"
	"sync"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l1/mqtt"
)

type message struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	msgs []message
}

func (p *fakePublisher) Pub(topic string, payload []byte) paho.Token {
	p.msgs = append(p.msgs, message{topic: topic, payload: payload})
	return &paho.DummyToken{}
}

type fakeSender struct {
	frames []comm.Frame
}

func (s *fakeSender) Send(frames ...comm.Frame) error {
	s.frames = append(s.frames, frames...)
	return nil
}

func TestTopic(t *testing.T) {
	testCases := []struct {
		str   string
		topic Topic
	}{
		{"dev1/rx/D/M/1", Topic{Device: "dev1", Dir: DirRx, Type: comm.FrameData, Hash: 'M', Command: 1}},
		{"dev1/tx/R/G/33", Topic{Device: "dev1", Dir: DirTx, Type: comm.FrameRequest, Hash: 'G', Command: 33}},
		{"a/b/rx/K/0/7", Topic{Device: "a/b", Dir: DirRx, Type: comm.FrameAck, Hash: 0, Command: 7}},
	}
	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			require.Equal(t, tc.str, tc.topic.String())
			topic, err := ParseTopic(tc.str)
			require.NoError(t, err)
			require.Equal(t, tc.topic, topic)
		})
	}

	for _, bad := range []string{
		"dev/rx/D/M",
		"dev/up/D/M/1",
		"dev/rx/X/M/1",
		"dev/rx/D/MM/1",
		"dev/rx/D/M/256",
	} {
		_, err := ParseTopic(bad)
		require.Error(t, err, bad)
	}
	require.Equal(t, "dev1/tx/+/+/+", Filter("dev1", DirTx))
}

func TestPayload(t *testing.T) {
	p, err := EncodePayload([]byte{1, 2, 3})
	require.NoError(t, err)
	v, err := DecodePayload(p)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, v)

	p, err = EncodePayload(nil)
	require.NoError(t, err)
	v, err = DecodePayload(p)
	require.NoError(t, err)
	require.Empty(t, v)

	_, err = DecodePayload([]byte{0xff})
	require.Error(t, err)
}

func TestBridgePublish(t *testing.T) {
	pub := &fakePublisher{}
	var wire bytes.Buffer
	link := comm.NewLink(&wire)
	b := New("dev1", pub, link)
	require.NoError(t, b.Attach(link, catalog.Motion))

	require.NoError(t, link.FeedBytes(comm.AppendPacket(nil,
		comm.Frame{Type: comm.FrameData, Hash: catalog.Motion, Command: catalog.MotionVelocity, Payload: make([]byte, 8)},
		comm.Frame{Type: comm.FrameNack, Hash: 'X', Command: 2},
		comm.Frame{Type: comm.FrameRequest, Hash: 'Y', Command: 3})))

	require.Len(t, pub.msgs, 2)
	require.Equal(t, "dev1/rx/D/M/1", pub.msgs[0].topic)
	v, err := DecodePayload(pub.msgs[0].payload)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 8), v)
	require.Equal(t, "dev1/rx/N/X/2", pub.msgs[1].topic)
	require.Equal(t, comm.AppendPacket(nil, comm.Frame{Type: comm.FrameNack, Hash: 'Y', Command: 3}), wire.Bytes())

	err = b.Attach(link, catalog.Motion)
	require.Error(t, err)
	require.Contains(t, err.Error(), comm.ErrHashRegistered.Error())
}

func TestBridgeSend(t *testing.T) {
	sender := &fakeSender{}
	b := New("dev1", &fakePublisher{}, sender)

	payload, err := EncodePayload([]byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0})
	require.NoError(t, err)
	b.HandleMessage("dev1/tx/D/M/4", payload)
	empty, err := EncodePayload(nil)
	require.NoError(t, err)
	b.HandleMessage("dev1/tx/R/G/9", empty)
	b.HandleMessage("dev2/tx/R/G/9", empty)
	b.HandleMessage("dev1/rx/R/G/9", empty)
	b.HandleMessage("dev1/tx/R/G/9", []byte{0xff})

	require.Equal(t, []comm.Frame{
		{Type: comm.FrameData, Hash: 'M', Command: 4, Payload: []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0}},
		{Type: comm.FrameRequest, Hash: 'G', Command: 9, Payload: []byte{}},
	}, normalize(sender.frames))

	short, err := EncodePayload([]byte{1})
	require.NoError(t, err)
	b.HandleMessage("dev1/tx/D/M/4", short)
	require.Len(t, sender.frames, 3)
	b.Strict = true
	b.HandleMessage("dev1/tx/D/M/4", short)
	require.Len(t, sender.frames, 3)
}

func normalize(frames []comm.Frame) []comm.Frame {
	for n := range frames {
		if frames[n].Payload == nil {
			frames[n].Payload = []byte{}
		}
	}
	return frames
}

type recordingClient struct {
	calls []string
	lock  sync.Mutex
}

func (c *recordingClient) record(call string) paho.Token {
	c.lock.Lock()
	c.calls = append(c.calls, call)
	c.lock.Unlock()
	return &paho.DummyToken{}
}

func (c *recordingClient) IsConnected() bool      { return true }
func (c *recordingClient) IsConnectionOpen() bool { return true }
func (c *recordingClient) Connect() paho.Token    { return c.record("connect") }
func (c *recordingClient) Disconnect(uint)        { c.record("disconnect") }
func (c *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	return c.record("publish " + topic)
}
func (c *recordingClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	return c.record("subscribe " + topic)
}
func (c *recordingClient) SubscribeMultiple(filters map[string]byte, callback paho.MessageHandler) paho.Token {
	return c.record("subscribe")
}
func (c *recordingClient) Unsubscribe(topics ...string) paho.Token {
	return c.record("unsubscribe " + topics[0])
}
func (c *recordingClient) AddRoute(topic string, callback paho.MessageHandler) {}
func (c *recordingClient) OptionsReader() paho.ClientOptionsReader {
	return paho.ClientOptionsReader{}
}

func TestRunnerUnsubscribesBeforeDisconnect(t *testing.T) {
	client := &recordingClient{}
	q := mqtt.NewQueue(paho.NewClientOptions(), "orbus/")
	q.Client = client
	r := NewRunner("bench", q, &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, r.Run(ctx))
	require.Equal(t, []string{
		"subscribe orbus/bench/tx/+/+/+",
		"connect",
		"unsubscribe orbus/bench/tx/+/+/+",
		"disconnect",
	}, client.calls)
}
